package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-app/internal/app"
	"todo-app/internal/config"
	"todo-app/internal/controller"
	"todo-app/internal/queue"
	"todo-app/internal/routes"
	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx := context.Background()
	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Warn(ctx, "Could not read .env", "error", err)
	}
	cfg := config.Get()
	logger.SetDefault(logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel)))

	if cfg.JWTSecret == "" {
		logger.Error(ctx, "JWT_SECRET is not set; exiting")
		os.Exit(1)
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()
	queue.EnsureTopic(ctx, cfg)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: routes.Router(controller.NewTodoHandler(a.Service), routes.Options{
			JWTSecret:     cfg.JWTSecret,
			AllowedOrigin: cfg.CORSAllowedOrigin,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "store", cfg.StoreBackend, "table", cfg.TableName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if w := a.Worker(); w != nil {
		g.Go(func() error { return w.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Server error", "error", err)
		a.Close()
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped")
}
