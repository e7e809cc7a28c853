package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/geocommunity/internal/api"
	"github.com/alexivanou/geocommunity/internal/config"
	"github.com/alexivanou/geocommunity/internal/database"
	"github.com/alexivanou/geocommunity/internal/metrics"
	"github.com/alexivanou/geocommunity/internal/repository"
	"github.com/alexivanou/geocommunity/internal/seeder"
	"github.com/alexivanou/geocommunity/internal/service"
	"github.com/alexivanou/geocommunity/internal/stats"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
	if err != nil {
		logger.Warn("Failed to check if database is empty", zap.Error(err))
	} else if isEmpty {
		logger.Info("Database is empty, auto-seeding geo data...")
		parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)
		res, err := seeder.New(repos.Geo, parser, logger).Run(ctx)
		if err != nil {
			// Missing reference data is not fatal; the hierarchy can be built over the API.
			logger.Warn("Failed to auto-seed database", zap.Error(err))
		} else {
			logger.Info("Database seeded successfully",
				zap.Int("countries", res.Countries),
				zap.Int("cities", res.Cities),
				zap.Int("districts", res.Districts),
				zap.Int("neighborhoods", res.Neighborhoods))
		}
	}

	m := metrics.New()
	svc := service.NewService(repos, cfg.Auth, logger, m)
	statsCollector := stats.NewCollector(db, cfg.DB)
	router := api.NewRouter(svc, statsCollector, m, logger)

	if cfg.Auth.SweepInterval > 0 {
		go sweepSessions(ctx, svc, cfg.Auth.SweepInterval, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exited")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}
	return zc.Build()
}

// sweepSessions deletes expired sessions until ctx is cancelled.
func sweepSessions(ctx context.Context, svc service.IdentityService, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
