package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-status-console/internal/handler/http"
	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/templates"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/format"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/session"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-status-console/internal/service/workspace"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/time/rate"
)

const (
	appName    = "hris-status-console"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	location, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	messages := i18n.MustLoad().For(cfg.UI.Locale)
	formatter := format.New(messages, location)

	tmpl, err := templates.New(appHTTP.FuncMap(messages, formatter))
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	apiClient := apiclient.New(cfg.API.BaseURL, nil)
	hub := sse.NewHub()
	store := workspace.NewStore(apiClient, hub, workspace.Config{
		Messages:    messages,
		FeedbackTTL: cfg.UI.FeedbackTTL,
	})
	sessions := session.NewJWTService(cfg.Session.Secret, cfg.Session.IdleTimeout*2, cfg.IsProduction())
	lookupLimiter := middleware.NewSessionRateLimiter(rate.Limit(cfg.Lookup.RatePerSecond), cfg.Lookup.Burst)

	consoleHandler := appHTTP.NewConsoleHandler(store, hub, tmpl, messages, appHTTP.DefaultKeepalive)
	directoryHandler := appHTTP.NewDirectoryHandler(store)
	selfServiceHandler := appHTTP.NewSelfServiceHandler(store)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		sessions,
		lookupLimiter,
		consoleHandler,
		directoryHandler,
		selfServiceHandler,
	)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("sweep-idle-sessions", cfg.Session.SweepInterval, func(ctx context.Context) error {
		evicted := store.Sweep(cfg.Session.IdleTimeout)
		lookupLimiter.Sweep(cfg.Session.IdleTimeout)
		slog.Debug("sessions swept",
			"evicted", evicted,
			"workspaces", store.Len(),
			"subscribers", hub.TotalSubscribers(),
		)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Tearing the workspaces down closes the SSE streams so Shutdown can drain.
	server.RegisterOnShutdown(store.Close)

	go func() {
		slog.Info("console running", "addr", server.Addr, "api", apiClient.BaseURL(), "locale", messages.Language())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	scheduler.Stop()
	slog.Info("console stopped")
}
