package main

import (
	"context"
	"teesheet/config"
	"teesheet/di"
	"teesheet/shared/logger"
)

// @title Tee Sheet API
// @version 1.0
// @description Resource reservation and availability engine for driving-range bays.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeService()

	ctx := context.Background()

	go service.Invalidator.Run(ctx)
	go service.Relay.Run(ctx)

	service.HTTP.Serve()
}
