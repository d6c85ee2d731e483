package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ldenis/synctray/internal/adapters/activity/ocs"
	"github.com/ldenis/synctray/internal/adapters/auth/probe"
	"github.com/ldenis/synctray/internal/adapters/avatar/httpfetch"
	dirtoml "github.com/ldenis/synctray/internal/adapters/dir/toml"
	"github.com/ldenis/synctray/internal/application"
	"github.com/ldenis/synctray/internal/ports"
)

type app struct {
	registry  *application.Registry
	directory *dirtoml.Directory
	log       zerolog.Logger
	now       func() time.Time
}

func wireApp() (*app, error) {
	log := newLogger()

	directory, err := dirtoml.NewDirectory(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire account directory: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	auth := probe.NewAuthenticator(directory, httpClient, log)
	avatars := httpfetch.NewFetcher(httpClient)
	activities := ocs.NewClient(httpClient)

	registry := application.NewRegistry(directory, auth, avatars, activities, ports.SystemClock{}, log)
	if err := registry.LoadFromDirectory(context.Background()); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	return &app{
		registry:  registry,
		directory: directory,
		log:       log,
		now:       time.Now,
	}, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if parsed, err := zerolog.ParseLevel(envOrDefault("SYNCTRAY_LOG", "warn")); err == nil {
		level = parsed
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger().Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
