package repository

import (
	"gorm.io/gorm"

	"github.com/tuanvudang/equip-data-service/config"
	"github.com/tuanvudang/equip-data-service/infra"
)

type Repository struct {
	Db               *gorm.DB
	UserRepo         *UserRepository
	UploadRecordRepo *UploadRecordRepository
}

func InitRepository(infra *infra.Infra, cfg *config.Config) *Repository {
	if infra.Postgres == nil || infra.Postgres.DB == nil {
		panic("database connection is nil")
	}

	db := infra.Postgres.DB

	return &Repository{
		Db:               db,
		UserRepo:         NewUserRepository(db),
		UploadRecordRepo: NewUploadRecordRepository(db, infra.Minio, cfg.EnvConfig.Retention.MaxUploadsPerOwner),
	}
}
