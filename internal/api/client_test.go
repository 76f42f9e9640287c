package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"actividades-cli/internal/mockserver"
	"actividades-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, user string) (*Client, *mockserver.Server) {
	t.Helper()
	ms := mockserver.New()
	srv := httptest.NewServer(ms.Handler())
	t.Cleanup(srv.Close)

	tok := ""
	if user != "" {
		var err error
		tok, err = ms.IssueToken(user)
		require.NoError(t, err)
	}
	c := New(srv.URL+"/", WithTokenSource(func() (string, error) { return tok, nil }))
	return c, ms
}

func TestClient_Login(t *testing.T) {
	c, _ := newTestClient(t, "")
	ctx := context.Background()

	res, err := c.Login(ctx, "ana", "ana")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = c.Login(ctx, "ana", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ListActivities(t *testing.T) {
	c, _ := newTestClient(t, "admin")
	list, err := c.ListActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(1), list[0].ID)
	require.NotNil(t, list[0].CurrentUser)
	assert.Equal(t, "ana", list[0].CurrentUser.Name)
	assert.Nil(t, list[2].CurrentUser)
}

func TestClient_MutationsSendIdempotencyKey(t *testing.T) {
	c, ms := newTestClient(t, "admin")
	ctx := context.Background()

	require.NoError(t, c.DeleteActivity(ctx, 1, "same-key"))
	// Same key again is a replay, not a second delete.
	require.NoError(t, c.DeleteActivity(ctx, 1, "same-key"))
	assert.Len(t, ms.Activities(), 2)

	err := c.DeleteActivity(ctx, 1, "")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "delete activity: 404")
}

func TestClient_CreateAndEdit(t *testing.T) {
	c, ms := newTestClient(t, "admin")
	ctx := context.Background()

	created, err := c.CreateActivity(ctx, model.CreatePayload{Description: "Deploy", Priority: "Alta", State: model.StatePending}, "")
	require.NoError(t, err)
	assert.Equal(t, "Deploy", created.DescriptionText())

	err = c.EditActivity(ctx, model.EditPayload{ID: created.ID, Description: "Deploy", Priority: "Alta", State: model.StateFinalized}, "")
	require.NoError(t, err)

	var found bool
	for _, a := range ms.Activities() {
		if a.ID == created.ID {
			found = true
			assert.Equal(t, model.StateFinalized, a.State)
		}
	}
	assert.True(t, found)

	audit, err := c.ListAudit(ctx)
	require.NoError(t, err)
	assert.Len(t, audit, 2)
}

func TestClient_ListUsersDecodesRoles(t *testing.T) {
	c, _ := newTestClient(t, "ana")
	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	roles := map[model.Role]int{}
	for _, u := range users {
		roles[u.Role]++
	}
	assert.Equal(t, 1, roles[model.RoleAdmin])
	assert.Equal(t, 2, roles[model.RoleExecutor])
}

func TestClient_TokenSourceError(t *testing.T) {
	ms := mockserver.New()
	srv := httptest.NewServer(ms.Handler())
	t.Cleanup(srv.Close)

	boom := errors.New("no session")
	c := New(srv.URL, WithTokenSource(func() (string, error) { return "", boom }))
	_, err := c.ListActivities(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	_, err := c.ListUsers(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, "list users", apiErr.Op)
}

func TestClient_DefaultKeyGenerator(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Idempotency-Key"))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	n := 0
	c := New(srv.URL, WithIdempotencyKeys(func() string { n++; return "key-" + string(rune('0'+n)) }))
	require.NoError(t, c.DeleteActivity(context.Background(), 1, ""))
	require.NoError(t, c.EditActivity(context.Background(), model.EditPayload{ID: 1}, "explicit"))
	assert.Equal(t, []string{"key-1", "explicit"}, seen)
}
