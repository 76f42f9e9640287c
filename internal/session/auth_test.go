package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"actividades-cli/internal/api"
	"actividades-cli/internal/mockserver"
	"actividades-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_LoginAgainstMockServer(t *testing.T) {
	t.Setenv("ACTIVIDADES_CONFIG_DIR", t.TempDir())
	srv := httptest.NewServer(mockserver.New().Handler())
	t.Cleanup(srv.Close)

	auth := NewAuthenticator(api.New(srv.URL), nil)
	ctx := context.Background()

	res, err := auth.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NoError(t, auth.SetSession(res.Token, "admin"))
	assert.True(t, auth.HasRole(model.RoleAdmin))
	assert.False(t, auth.HasRole(model.RoleExecutor))

	_, err = auth.Login(ctx, "admin", "wrong")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, api.IsUnauthorized(err))
}
