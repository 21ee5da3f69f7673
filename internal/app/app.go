package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mechanics-site/internal/config"
	"github.com/gokatarajesh/mechanics-site/internal/grading"
	"github.com/gokatarajesh/mechanics-site/internal/logging"
	"github.com/gokatarajesh/mechanics-site/internal/metrics"
	"github.com/gokatarajesh/mechanics-site/internal/server"
	"github.com/gokatarajesh/mechanics-site/internal/slideshow"
	ws "github.com/gokatarajesh/mechanics-site/pkg/http/ws"
)

// Application aggregates the grading and slideshow services behind one HTTP server.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	http      *http.Server
	slideshow *slideshow.Controller
	hub       *ws.Hub
}

// New bootstraps logger, metrics, services and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	metrics.Init()

	board := grading.NewBoard()
	gradingSvc := grading.NewService(logger, grading.ServiceOptions{
		AnswerKey: cfg.Grading.QuizAnswerKey,
		PassRatio: cfg.Grading.PassRatio,
		Document:  board,
	})
	gradingHandlers := grading.NewHTTPHandlers(gradingSvc, board, logger)

	ctrl := slideshow.NewController(logger, slideshow.Options{
		DefaultDelay: cfg.Slideshow.DefaultDelay,
	})
	page := slideshow.NewVirtualPage()
	slideHandlers := slideshow.NewHTTPHandlers(ctrl, page, slideshow.HTTPOptions{
		MaxElements: cfg.Slideshow.MaxElements,
	}, logger)

	hub := ws.NewHub(logger)
	slideWS := slideshow.NewWSHandler(ctrl, hub, server.NewUpgrader(cfg.CORS.AllowedOrigins), logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Routes{
		Grading:   gradingHandlers,
		Slideshow: slideHandlers,
		SlideWS:   slideWS.HandleWebSocket,
	})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("bootstrap canceled: %w", err)
	}

	return &Application{
		cfg:       cfg,
		logger:    logger,
		http:      apiServer,
		slideshow: ctrl,
		hub:       hub,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.cfg.Slideshow.StopOnShutdown {
		a.slideshow.Close()
	}

	a.logger.Info().Int("viewers", a.hub.Count()).Msg("shutdown complete")
	return nil
}
