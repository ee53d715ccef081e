package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jub0bs/fcors"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/api"
	"github.com/yourname/sleeplog/internal/bootstrap"
	"github.com/yourname/sleeplog/internal/config"
)

func main() {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}

	router := api.NewRouter(app.Deps(), app.AuthProvider())

	cors, err := fcors.AllowAccess(
		corsOrigins(cfg.CORSOrigins),
		fcors.WithMethods(
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		),
		fcors.WithRequestHeaders("Authorization", "Content-Type"),
	)
	if err != nil {
		logger.Fatalf("invalid CORS configuration: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           cors(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server running on %s (storage=%s, notifier=%s)", cfg.HTTPAddr, cfg.StorageBackend, cfg.Notifier)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	logger.Infof("received %v, shutting down", <-ch)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if err := app.Close(); err != nil {
		logger.Errorf("closing storage: %v", err)
	}
}

func corsOrigins(origins []string) fcors.OptionAnon {
	if len(origins) == 0 {
		return fcors.FromAnyOrigin()
	}
	return fcors.FromOrigins(origins[0], origins[1:]...)
}
