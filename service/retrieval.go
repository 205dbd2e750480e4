package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvudang/equip-data-service/dataset"
	"github.com/tuanvudang/equip-data-service/entity"
	"github.com/tuanvudang/equip-data-service/repository"
)

const historyCacheTTL = 30 * time.Second

func historyCacheKey(owner uuid.UUID) string {
	return "history:" + owner.String()
}

// History lists the owner's committed uploads, newest first. Summaries and
// metadata only; raw rows are never included.
func (s *Service) History(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error) {
	if owner == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	key := historyCacheKey(owner)
	if s.cache != nil {
		var cached []*entity.UploadRecord
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	records, err := s.history.ListByOwner(ctx, owner)
	if err != nil {
		return nil, storageFailure(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, records, historyCacheTTL); err != nil {
			s.logger.WarningWithContextf(ctx, "[History] failed to cache history for owner %s: %v", owner, err)
		}
	}

	return records, nil
}

// DataDetail re-parses one stored upload into its raw rows. Ownership is
// checked first; a foreign record answers exactly like a missing one.
func (s *Service) DataDetail(ctx context.Context, owner, id uuid.UUID) ([]map[string]string, error) {
	rec, err := s.history.GetByOwner(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure(err)
	}

	data, err := s.blobs.ReadBlob(ctx, rec.BlobKey)
	if err != nil {
		return nil, storageFailure(err)
	}

	ds, err := dataset.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessingError{Cause: err}
	}

	return ds.Records(), nil
}
