package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
