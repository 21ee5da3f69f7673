package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mechanics-site/internal/config"
	"github.com/gokatarajesh/mechanics-site/internal/grading"
	"github.com/gokatarajesh/mechanics-site/internal/logging"
	"github.com/gokatarajesh/mechanics-site/internal/slideshow"
)

// Routes groups the feature handlers mounted by NewHTTPServer. Nil members are skipped.
type Routes struct {
	Grading   *grading.HTTPHandlers
	Slideshow *slideshow.HTTPHandlers
	SlideWS   http.HandlerFunc
}

// NewUpgrader returns a WebSocket upgrader that only accepts the configured origins.
// Requests without an Origin header (non-browser clients) are allowed.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// NewHTTPServer wires health, metrics and the grading and slideshow APIs.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, routes Routes) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg, logger, routes),
	}
}

// NewHandler builds the routed, middleware-wrapped handler used by the server.
func NewHandler(cfg *config.App, logger zerolog.Logger, routes Routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	if g := routes.Grading; g != nil {
		mux.HandleFunc("POST /v1/grade/quiz", g.GradeQuiz)
		mux.HandleFunc("POST /v1/grade/assignment", g.GradeAssignment)
		mux.HandleFunc("GET /v1/results/{id}", g.GetResult)
	}

	if s := routes.Slideshow; s != nil {
		mux.HandleFunc("POST /v1/slideshows", s.Mount)
		// Legacy entry points act on the first container on the page.
		mux.HandleFunc("POST /v1/slideshows/legacy/plus", s.PlusSlides)
		mux.HandleFunc("POST /v1/slideshows/legacy/current", s.CurrentSlide)
		mux.HandleFunc("GET /v1/slideshows/{id}", s.Get)
		mux.HandleFunc("POST /v1/slideshows/{id}/show", s.Show)
		mux.HandleFunc("POST /v1/slideshows/{id}/prev", s.Prev)
		mux.HandleFunc("POST /v1/slideshows/{id}/next", s.Next)
		mux.HandleFunc("POST /v1/slideshows/{id}/indicators/{i}/click", s.ClickIndicator)
	}

	if routes.SlideWS != nil {
		mux.HandleFunc("GET /ws/slideshows", routes.SlideWS)
	} else {
		mux.HandleFunc("GET /ws/slideshows", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slideshow stream not enabled", http.StatusNotImplemented)
		})
	}

	var handler http.Handler = mux
	handler = withLogger(handler, logger)
	handler = cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.RequestID(handler)
	return handler
}

// withLogger stores a request-scoped logger tagged with the chi request id.
func withLogger(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.With().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
	})
}
