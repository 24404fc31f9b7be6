package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/repository/sqlstore"

	"github.com/gin-gonic/gin"
)

// @title Workout Tracker API
// @version 1.0
// @description Personal workout log: exercise catalog, workouts, sets, routines and CSV imports.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log)
	slog.Info("Starting Workout Tracker server...")

	// --- Database Connection ---
	db, err := sqlstore.Open(cfg.Database)
	if err != nil {
		slog.Error("could not connect to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		slog.Info("Closing database...")
		if err := sqlstore.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := sqlstore.Migrate(db); err != nil {
		slog.Error("could not migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "driver", cfg.Database.Driver)

	// --- Services ---
	store := sqlstore.NewStore(db)
	services := api.NewServices(store.Repositories(), cfg)

	// --- Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	api.SetupRoutes(router, cfg, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// --- Graceful Shutdown ---
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		slog.Error("ListenAndServe error", "error", err)
		return
	case <-quit:
	}
	slog.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server exiting.")
}
