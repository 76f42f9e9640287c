// Package config loads runtime settings from ACTIVIDADES_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const namespace = "ACTIVIDADES"

type Env struct {
	APIURL    string        `envconfig:"API_URL" default:"http://localhost:3000"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string        `envconfig:"LOG_FILE"`
	ConfigDir string        `envconfig:"CONFIG_DIR"`
	Format    string        `envconfig:"FORMAT" default:"json"`
}

func Load() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	env.APIURL = strings.TrimRight(strings.TrimSpace(env.APIURL), "/")
	return &env, nil
}

func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
