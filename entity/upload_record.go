package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Summary holds the aggregate result computed for one uploaded dataset.
type Summary struct {
	TotalCount       int                `json:"total_count"`
	Averages         map[string]float64 `json:"averages"`
	TypeDistribution map[string]int     `json:"type_distribution"`
}

// UploadRecord is one stored upload. Summary stays NULL while the record is
// tentative; only records with a summary are visible to readers.
type UploadRecord struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	FileName  string         `json:"filename" gorm:"type:varchar(512);not null"`
	BlobKey   string         `json:"-" gorm:"type:varchar(1024);not null"`
	Summary   datatypes.JSON `json:"summary" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;index"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}

// Committed reports whether the record has a summary attached.
func (r *UploadRecord) Committed() bool {
	return len(r.Summary) > 0
}
