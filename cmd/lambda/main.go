package main

import (
	"context"
	"os"

	"todo-app/internal/app"
	"todo-app/internal/config"
	"todo-app/internal/lambdahandler"
	"todo-app/pkg/logger"

	"github.com/aws/aws-lambda-go/lambda"
)

// One binary serves all four functions; TODO_OPERATION picks the handler.
func main() {
	ctx := context.Background()
	cfg := config.Get()
	logger.SetDefault(logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel)))

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Startup failed", "error", err)
		os.Exit(1)
	}
	h, err := lambdahandler.ForOperation(cfg.Operation, a.Service, cfg.CORSAllowedOrigin)
	if err != nil {
		logger.Error(ctx, "Startup failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Lambda handler ready", "operation", cfg.Operation, "table", cfg.TableName)
	lambda.Start(h)
}
