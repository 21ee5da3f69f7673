package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gokatarajesh/mechanics-site/internal/app"
	"github.com/gokatarajesh/mechanics-site/internal/config"
	"github.com/gokatarajesh/mechanics-site/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	logger := logging.Component(logging.New("mechanics-site", env), "bootstrap")

	if env != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			logger.Warn().Err(err).Msg("could not load .env file; using process environment")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	appCtx := context.Background()
	instance, err := app.New(appCtx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("app", cfg.Name).Msg("failed to build app")
	}

	if err := instance.Run(appCtx); err != nil {
		logger.Fatal().Err(err).Str("app", cfg.Name).Msg("runtime error")
	}
}
