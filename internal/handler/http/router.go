package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig holds the ambient settings of the router
type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	sessions session.Service,
	lookupLimiter *middleware.SessionRateLimiter,
	consoleHandler ConsoleHandler,
	directoryHandler DirectoryHandler,
	selfServiceHandler SelfServiceHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			MaxAge:           300,
		}))
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.RequestID)

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(sessions.JWTAuth(), session.TokenFromCookie))
		r.Use(middleware.Session(sessions))

		r.Get("/", consoleHandler.Page)
		r.Get("/events", consoleHandler.Events)
		r.Get("/api/state", consoleHandler.State)

		r.Post("/directory/refresh", directoryHandler.Refresh)
		r.Route("/employees/{id}", func(r chi.Router) {
			r.Post("/", directoryHandler.SaveProfile)
			r.Post("/status", directoryHandler.SaveStatus)
		})

		r.Route("/me", func(r chi.Router) {
			r.With(lookupLimiter.Handler).Post("/lookup", selfServiceHandler.Lookup)
			r.Post("/profile", selfServiceHandler.SaveProfile)
			r.Post("/status", selfServiceHandler.SaveStatus)
		})
	})

	return r
}
