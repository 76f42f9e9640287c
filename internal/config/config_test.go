package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ACTIVIDADES_API_URL", "ACTIVIDADES_TIMEOUT", "ACTIVIDADES_LOG_LEVEL"} {
		// Setenv registers the restore; then drop the variable so defaults apply.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	env, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", env.APIURL)
	assert.Equal(t, 10*time.Second, env.Timeout)
	assert.Equal(t, slog.LevelInfo, env.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ACTIVIDADES_API_URL", "https://api.example.com/ ")
	t.Setenv("ACTIVIDADES_TIMEOUT", "3s")
	t.Setenv("ACTIVIDADES_LOG_LEVEL", "debug")

	env, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", env.APIURL)
	assert.Equal(t, 3*time.Second, env.Timeout)
	assert.Equal(t, slog.LevelDebug, env.SlogLevel())
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("ACTIVIDADES_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestSlogLevel_Fallback(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, (&Env{LogLevel: "loud"}).SlogLevel())
	var nilEnv *Env
	assert.Equal(t, slog.LevelInfo, nilEnv.SlogLevel())
}
