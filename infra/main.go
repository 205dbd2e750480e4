package infra

import (
	"github.com/tuanvudang/equip-data-service/config"
	"github.com/tuanvudang/equip-data-service/infra/produce"
)

type Infra struct {
	Postgres  *PostgresClient
	Redis     *RedisClient
	Minio     *MinioClient
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
	Telemetry *TelemetryClient
	Logger    *LoggerClient
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	telemetry := InitTelemetryClient(cfg.EnvConfig)

	logger := InitLoggerClient(cfg.EnvConfig, telemetry)
	if logger == nil {
		panic("Failed to initialize Logger client")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres client")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis client")
	}

	minio := InitMinioClient(cfg.EnvConfig)
	if minio == nil {
		panic("Failed to initialize MinIO client")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ client")
	}

	producers := produce.InitProduce(rabbitMQ.Channel)
	if producers == nil {
		panic("Failed to initialize producers")
	}

	infraInstance = &Infra{
		Postgres:  postgres,
		Redis:     redis,
		Minio:     minio,
		RabbitMQ:  rabbitMQ,
		Produce:   producers,
		Telemetry: telemetry,
		Logger:    logger,
	}

	return infraInstance
}
