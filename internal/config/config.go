package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"mechanics-site"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Slideshow Slideshow
	Grading   Grading
	CORS      CORS
}

// Slideshow governs timer defaults for slide containers.
type Slideshow struct {
	DefaultDelay time.Duration `env:"SLIDESHOW_DEFAULT_DELAY" envDefault:"3s"`
	// Timers are never stopped unless this is set; shutdown otherwise leaves them running until exit.
	StopOnShutdown bool `env:"SLIDESHOW_STOP_ON_SHUTDOWN" envDefault:"false"`
	// MaxElements caps slides, indicators and controls per remote container.
	MaxElements int `env:"SLIDESHOW_MAX_ELEMENTS" envDefault:"256"`
}

// Grading holds the quiz answer key and pass threshold.
type Grading struct {
	QuizAnswerKey map[string]string `env:"QUIZ_ANSWER_KEY" envDefault:"q1:b,q2:b,q3:b,q4:c,q5:a"`
	PassRatio     float64           `env:"GRADING_PASS_RATIO" envDefault:"0.6"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Grading.PassRatio <= 0 || cfg.Grading.PassRatio > 1 {
		return nil, fmt.Errorf("GRADING_PASS_RATIO must be in (0, 1], got %v", cfg.Grading.PassRatio)
	}
	if cfg.Slideshow.MaxElements <= 0 {
		return nil, fmt.Errorf("SLIDESHOW_MAX_ELEMENTS must be positive, got %d", cfg.Slideshow.MaxElements)
	}
	if len(cfg.Grading.QuizAnswerKey) == 0 {
		return nil, fmt.Errorf("QUIZ_ANSWER_KEY must not be empty")
	}
	return cfg, nil
}
