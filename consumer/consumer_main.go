package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lumenfilms/lumen-media-service/config"
	"github.com/lumenfilms/lumen-media-service/consumer/worker"
	infraPkg "github.com/lumenfilms/lumen-media-service/infra"
	"github.com/lumenfilms/lumen-media-service/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	thumbnailConsumer := worker.NewThumbnailConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := thumbnailConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Thumbnail consumer: %v", err)
		log.Fatalf("Failed to start Thumbnail consumer: %v", err)
	}

	cleanupConsumer := worker.NewCleanupConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := cleanupConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Cleanup consumer: %v", err)
		log.Fatalf("Failed to start Cleanup consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
	_ = infra.Logger.Shutdown(context.Background())
}
