package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/lumenfilms/lumen-media-service/config"
	"github.com/lumenfilms/lumen-media-service/http/controller"
	routes "github.com/lumenfilms/lumen-media-service/http/route"
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
	defer infra.Logger.Shutdown(context.Background())

	ctx := context.Background()
	if err := infra.Minio.EnsureBucket(ctx, cfg.EnvConfig.Upload.MediaBucket); err != nil {
		log.Fatalf("Failed to ensure media bucket: %v", err)
	}
	if err := infra.Minio.EnsureBucket(ctx, cfg.EnvConfig.Upload.ThumbnailBucket); err != nil {
		log.Fatalf("Failed to ensure thumbnail bucket: %v", err)
	}

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
