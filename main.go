package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/tuanvudang/equip-data-service/config"
	"github.com/tuanvudang/equip-data-service/controller"
	"github.com/tuanvudang/equip-data-service/infra"
	"github.com/tuanvudang/equip-data-service/repository"
	"github.com/tuanvudang/equip-data-service/route"
	"github.com/tuanvudang/equip-data-service/service"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infr := infra.InitInfra(cfg)
	defer infr.RabbitMQ.Close()
	defer func() {
		if err := infr.Telemetry.Shutdown(context.Background()); err != nil {
			log.Println("Telemetry shutdown failed:", err)
		}
	}()

	repo := repository.InitRepository(infr, cfg)

	svc := service.New(service.Dependency{
		Config:  cfg.EnvConfig,
		Users:   repo.UserRepo,
		History: repo.UploadRecordRepo,
		Blobs:   infr.Minio,
		Cache:   infr.Redis,
		Events:  infr.Produce.UploadEvents,
		Logger:  infr.Logger,
	})

	ctrl := controller.NewController(cfg, infr, svc)

	router := routes.SetupRouter(ctrl)
	if err := router.Run(":" + cfg.EnvConfig.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
