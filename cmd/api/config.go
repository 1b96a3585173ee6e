package main

import (
	"log/slog"
	"time"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Empty disables request signature verification (local dev only).
	SlackSigningSecret string `env:"SLACK_SIGNING_SECRET" envDefault:""`

	Postgres config.PostgresConfig
}
