package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env        string `envconfig:"ENV" default:"local"`
	HTTPHost   string `envconfig:"HTTP_HOST" default:""`
	HTTPPort   string `envconfig:"HTTP_PORT" default:"8000"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`
}

type DBEnv struct {
	Path string `envconfig:"DB_PATH" default:".kz/kanban.db"`
}

type AnthropicEnv struct {
	APIKey       string        `envconfig:"ANTHROPIC_API_KEY"`
	BaseURL      string        `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`
	Model        string        `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514"`
	ParseTimeout time.Duration `envconfig:"PARSE_TIMEOUT" default:"15s"`
}

type Env struct {
	BaseEnv
	DBEnv
	AnthropicEnv
}

const namespace = "KZ"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}
