// Package main is the entrypoint for the Saaspy landing site.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/saaspy/saaspy/internal/config"
	"github.com/saaspy/saaspy/internal/handler"
	"github.com/saaspy/saaspy/internal/metrics"
	"github.com/saaspy/saaspy/internal/middleware"
	"github.com/saaspy/saaspy/internal/server"
	"github.com/saaspy/saaspy/internal/service"
	"github.com/saaspy/saaspy/internal/session"
	"github.com/saaspy/saaspy/internal/store"
	"github.com/saaspy/saaspy/internal/web"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if missing := cfg.Firebase.Missing(); len(missing) > 0 {
		logger.Warn("firebase configuration incomplete", "missing", missing)
	}

	recorder := metrics.NewInMemory()

	gateway, err := store.Open(ctx, cfg.StoreOptions(recorder))
	if err != nil {
		logger.Error(
			"failed to open document store",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL, cfg.RedisURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("document store ready", "backend", gateway.Name())

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	app := &app{
		cfg:      cfg,
		logger:   logger,
		gateway:  gateway,
		recorder: recorder,
		actions:  service.NewActions(gateway, logger, recorder, cfg.FeedLimit),
		sessions: session.NewManager(cfg.SessionSecret, cfg.IsProduction(), logger),
		renderer: renderer,
	}

	srv := server.New(app.router(), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("store", func(ctx context.Context) error {
		return gateway.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"store", gateway.Name(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// app holds the wired dependencies of the HTTP surface.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	gateway  store.Gateway
	recorder *metrics.InMemoryRecorder
	actions  *service.Actions
	sessions *session.Manager
	renderer *web.Renderer
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// router configures the chi router with all routes and middleware.
func (a *app) router() *chi.Mux {
	h := handler.New()
	healthHandler := handler.NewHealthHandler(a.gateway)
	pageHandler := handler.NewPageHandler(a.actions, a.sessions, a.renderer, a.logger, 0)
	apiHandler := handler.NewAPIHandler(a.actions, a.logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	sec := middleware.DefaultSecurityConfig()
	sec.IsDevelopment = a.cfg.IsDevelopment()
	r.Use(middleware.Security(sec))
	r.Use(middleware.MaxBodySize(a.cfg.MaxRequestBodySize))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	if a.cfg.MetricsEnabled {
		r.Get("/metrics", handler.NewMetricsHandler(a.recorder).Metrics)
	}

	// Landing page and its form posts
	r.Get("/", pageHandler.Index)
	if assets, paths, err := web.AssetHandler(); err != nil {
		a.logger.Error("static assets unavailable", "error", err)
	} else {
		for _, p := range paths {
			r.Method(http.MethodGet, p, assets)
		}
	}
	r.Post("/subscribe", pageHandler.Subscribe)
	r.Post("/reviews", pageHandler.SubmitReview)
	r.Post("/notice/{form}/dismiss", pageHandler.DismissNotice)
	r.Post("/theme/toggle", pageHandler.ToggleTheme)

	// JSON API
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = a.cfg.GetCORSAllowedOrigins()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cors))
		r.Post("/subscribe", apiHandler.Subscribe)
		r.Post("/reviews", apiHandler.SubmitReview)
		r.Get("/reviews", apiHandler.ListReviews)
	})

	if a.cfg.IsDevelopment() {
		r.Get("/debug/config", handler.NewConfigHandler(a.cfg.Firebase, a.logger).Status)
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
