package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	carapp "github.com/xmartin/vehicle-registry/internal/application/car"
	"github.com/xmartin/vehicle-registry/internal/domain/car"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/auth"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/config"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/directory"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/logger"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/persistence"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/handler"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/middleware"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting car registry",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(&car.Car{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected successfully")

	carRepo := persistence.NewGormCarRepository(db.DB)
	brandClient := directory.NewBrandClient(cfg.Directory.BrandServiceURL, cfg.Directory.Timeout)
	carService := carapp.NewService(carRepo, brandClient)

	var validator *auth.TokenValidator
	if cfg.JWT.Secret != "" {
		validator = auth.NewTokenValidator(cfg.JWT)
	}

	middleware.SetupValidator()

	engine := router.NewCarRouter(router.Options{
		Logger:    log,
		Validator: validator,
		Env:       cfg.App.Env,
	}, handler.NewCarHandler(carService), handler.NewSystemHandler(db))

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
