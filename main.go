package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/seclearn/trainquery/internal/config"
	"github.com/seclearn/trainquery/internal/domain"
	"github.com/seclearn/trainquery/internal/handler"
	"github.com/seclearn/trainquery/internal/importer"
	"github.com/seclearn/trainquery/internal/llm"
	"github.com/seclearn/trainquery/internal/metrics"
	"github.com/seclearn/trainquery/internal/repository/memory"
	"github.com/seclearn/trainquery/internal/repository/postgres"
	"github.com/seclearn/trainquery/internal/repository/redis"
	"github.com/seclearn/trainquery/internal/repository/sqlite"
	"github.com/seclearn/trainquery/internal/service"
)

// recordStore is what main needs from either database backend.
type recordStore interface {
	Migrate(ctx context.Context) error
	Close() error
	Employees() employeeRepository
}

type employeeRepository interface {
	domain.EmployeeRepository
	importer.Store
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	importPath := flag.String("import", "", "load employee records from a CSV file and exit")
	flag.Parse()

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.Database.Driver)

	if *importPath != "" {
		runImport(*importPath, db.Employees())
		return
	}

	sessions, cleanup, err := openSessionStore(cfg)
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	renderer, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		slog.Error("failed to configure LLM renderer", "error", err)
		os.Exit(1)
	}
	if renderer == nil {
		slog.Info("LLM renderer disabled, using local response formatting")
	} else {
		slog.Info("LLM renderer enabled", "provider", cfg.LLM.Provider)
	}

	m := metrics.New()
	trainingService := service.NewTrainingService(db.Employees())
	authService := service.NewAuthService(sessions, trainingService, cfg.CISOID)
	agent := service.NewAgent(authService, trainingService, renderer, m, logger)

	limiter := service.NewRateLimiter(cfg.RateLimit)
	if limiter != nil {
		defer limiter.Close()
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, trainingService, agent, m, limiter, handler.CookieConfig{
		Secret: cfg.SecretKey,
		TTL:    cfg.SessionTTL(),
		Secure: cfg.CookieSecure,
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openDatabase(cfg config.Config) (recordStore, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.New(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgresStore{db}, nil
	default:
		db, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		return sqliteStore{db}, nil
	}
}

// Thin adapters so both drivers satisfy recordStore despite returning
// their own concrete repository types.
type sqliteStore struct{ *sqlite.DB }

func (s sqliteStore) Employees() employeeRepository { return s.DB.Employees() }

type postgresStore struct{ *postgres.DB }

func (s postgresStore) Employees() employeeRepository { return s.DB.Employees() }

func openSessionStore(cfg config.Config) (domain.SessionStore, func(), error) {
	switch cfg.Sessions.Backend {
	case "redis":
		store, err := redis.NewSessionStore(redis.Options{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
		}, cfg.SessionTTL())
		if err != nil {
			return nil, nil, err
		}
		slog.Info("session store connected", "backend", "redis", "addr", cfg.Sessions.RedisAddr)
		return store, func() { _ = store.Close() }, nil
	default:
		store := memory.NewSessionStore(cfg.SessionTTL())
		slog.Info("session store ready", "backend", "memory")
		return store, store.Close, nil
	}
}

func runImport(path string, store importer.Store) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open import file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	count, err := importer.LoadCSV(context.Background(), f, store)
	if err != nil {
		slog.Error("import failed", "error", err, "loaded", count)
		os.Exit(1)
	}
	slog.Info("import complete", "records", count, "file", path)
}
