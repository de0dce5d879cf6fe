package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/config"
	classCancel "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/cancel"
	classComplete "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/complete"
	classCreate "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/create"
	classDelete "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/delete"
	classGet "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/get"
	classList "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/list"
	classReschedule "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/reschedule"
	classStart "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/start"
	classUpdate "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/classes/update"
	tzConvert "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/timezones/convert"
	tzGet "github.com/Mohamesaidsalem/Qutooff-Academy/internal/http-server/handlers/timezones/get"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/lock"
	svc "github.com/Mohamesaidsalem/Qutooff-Academy/internal/service"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/storage/postgres"
	slogpretty "github.com/Mohamesaidsalem/Qutooff-Academy/pkg/handlers/slogPretty"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/middleware/mwLogger"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, locker, cfg.DefaultTimezone)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Classes
	router.Post("/classes", classCreate.New(log, service))
	router.Get("/classes", classList.New(log, service))
	router.Get("/classes/{id}", classGet.New(log, service))
	router.Put("/classes/{id}", classUpdate.New(log, service))
	router.Post("/classes/reschedule", classReschedule.New(log, service))
	router.Put("/classes/{id}/start", classStart.New(log, service))
	router.Put("/classes/{id}/complete", classComplete.New(log, service))
	router.Put("/classes/{id}/cancel", classCancel.New(log, service))
	router.Delete("/classes/{id}", classDelete.New(log, service))

	// Timezones
	router.Get("/timezones", tzGet.New(log, service))
	router.Post("/timezones/convert", tzConvert.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
