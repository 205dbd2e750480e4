package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tuanvudang/equip-data-service/entity"
)

var ErrRecordNotFound = errors.New("upload record not found")

// BlobDeleter removes the raw bytes a record points at. Satisfied by
// infra.MinioClient.
type BlobDeleter interface {
	DeleteBlob(ctx context.Context, key string) error
}

// UploadRecordRepository is the history store for upload records. Records
// without a summary are tentative and invisible to every read path; the
// retention cap applies per owner, newest first.
type UploadRecordRepository struct {
	db        *gorm.DB
	blobs     BlobDeleter
	retention int
}

func NewUploadRecordRepository(db *gorm.DB, blobs BlobDeleter, retention int) *UploadRecordRepository {
	if retention <= 0 {
		retention = 5
	}
	return &UploadRecordRepository{
		db:        db,
		blobs:     blobs,
		retention: retention,
	}
}

// Create persists a record. IDs are UUIDv7 so that equal timestamps still
// order by insertion.
func (r *UploadRecordRepository) Create(ctx context.Context, rec *entity.UploadRecord) error {
	if rec == nil {
		return errors.New("upload record cannot be nil")
	}
	if rec.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate record id: %w", err)
		}
		rec.ID = id
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// AttachSummary sets the summary of a tentative record exactly once.
func (r *UploadRecordRepository) AttachSummary(ctx context.Context, id uuid.UUID, summary datatypes.JSON) error {
	result := r.db.WithContext(ctx).
		Model(&entity.UploadRecord{}).
		Where("id = ? AND summary IS NULL", id).
		Update("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("record %s is missing or already committed", id)
	}
	return nil
}

// ListByOwner returns the owner's committed records, newest first.
func (r *UploadRecordRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error) {
	var records []*entity.UploadRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND summary IS NOT NULL", owner).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetByOwner fetches one committed record. A record belonging to a different
// owner is reported exactly like a missing one.
func (r *UploadRecordRepository) GetByOwner(ctx context.Context, id, owner uuid.UUID) (*entity.UploadRecord, error) {
	var rec entity.UploadRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND summary IS NOT NULL", id, owner).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// tentativeGrace is how long a record may stay without a summary before it
// counts as orphaned. Normal uploads commit or roll back within seconds; a
// row still tentative after this long was left behind by a crash.
const tentativeGrace = time.Hour

// EvictOverflow deletes every committed record beyond the retention cap,
// blobs included, and returns what it removed. Orphaned tentative rows past
// the grace period are swept in the same pass. Idempotent.
func (r *UploadRecordRepository) EvictOverflow(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error) {
	if err := r.sweepStaleTentative(ctx, owner); err != nil {
		return nil, err
	}

	records, err := r.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(records) <= r.retention {
		return nil, nil
	}

	var evicted []*entity.UploadRecord
	for _, rec := range records[r.retention:] {
		if err := r.Delete(ctx, rec); err != nil {
			return evicted, err
		}
		evicted = append(evicted, rec)
	}
	return evicted, nil
}

// sweepStaleTentative removes tentative rows older than the grace period,
// blobs included. A crash between create and rollback leaves such rows; they
// are invisible to readers but would otherwise leak forever.
func (r *UploadRecordRepository) sweepStaleTentative(ctx context.Context, owner uuid.UUID) error {
	cutoff := time.Now().UTC().Add(-tentativeGrace)
	var stale []*entity.UploadRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND summary IS NULL AND created_at < ?", owner, cutoff).
		Find(&stale).Error
	if err != nil {
		return err
	}
	for _, rec := range stale {
		if err := r.Delete(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the record row and its blob together. A blob-store failure
// rolls the row back so neither side is half-deleted.
func (r *UploadRecordRepository) Delete(ctx context.Context, rec *entity.UploadRecord) error {
	if rec == nil {
		return errors.New("upload record cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.UploadRecord{}, "id = ?", rec.ID).Error; err != nil {
			return err
		}
		if rec.BlobKey != "" && r.blobs != nil {
			if err := r.blobs.DeleteBlob(ctx, rec.BlobKey); err != nil {
				return err
			}
		}
		return nil
	})
}
