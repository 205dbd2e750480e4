package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tuanvudang/equip-data-service/dataset"
	"github.com/tuanvudang/equip-data-service/entity"
	"github.com/tuanvudang/equip-data-service/infra/produce"
)

const uploadExtension = ".csv"

// Ingest runs the upload pipeline: store blob, create tentative record,
// validate schema, summarize, commit, evict overflow. Any failure after the
// blob is stored deletes both the tentative record and the blob before the
// error is surfaced, so readers never see a half-done upload.
func (s *Service) Ingest(ctx context.Context, owner uuid.UUID, filename string, data []byte) (*entity.UploadRecord, error) {
	ctx, span := s.tracer.Start(ctx, "service.Ingest")
	defer span.End()
	span.SetAttributes(attribute.String("upload.filename", filename))

	if owner == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if !strings.HasSuffix(strings.ToLower(filename), uploadExtension) {
		return nil, fmt.Errorf("%w: file must be a CSV", ErrInvalidInput)
	}

	blobKey := fmt.Sprintf("%s/%s%s", owner, uuid.New(), uploadExtension)
	if err := s.blobs.StoreBlob(ctx, blobKey, data); err != nil {
		return nil, storageFailure(err)
	}

	lock := s.lockOwner(owner)
	defer s.unlockOwner(owner, lock)

	rec := &entity.UploadRecord{
		OwnerID:  owner,
		FileName: filepath.Base(filename),
		BlobKey:  blobKey,
	}
	if err := s.history.Create(ctx, rec); err != nil {
		s.discardBlob(ctx, blobKey)
		return nil, storageFailure(err)
	}

	ds, err := dataset.Parse(bytes.NewReader(data))
	if err != nil {
		s.rollback(ctx, rec)
		return nil, &ProcessingError{Cause: err}
	}

	if missing := dataset.Missing(ds, dataset.RequiredColumns); len(missing) > 0 {
		s.rollback(ctx, rec)
		return nil, &SchemaError{Missing: missing}
	}

	summary, err := dataset.Summarize(ds)
	if err != nil {
		s.rollback(ctx, rec)
		return nil, &ProcessingError{Cause: err}
	}

	if err := ctx.Err(); err != nil {
		s.rollback(ctx, rec)
		return nil, &ProcessingError{Cause: err}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		s.rollback(ctx, rec)
		return nil, &ProcessingError{Cause: err}
	}
	if err := s.history.AttachSummary(ctx, rec.ID, payload); err != nil {
		s.rollback(ctx, rec)
		return nil, storageFailure(err)
	}
	rec.Summary = payload

	evicted, err := s.history.EvictOverflow(ctx, owner)
	if err != nil {
		// The upload itself is committed; eviction is idempotent and the
		// next insert will retry it.
		s.logger.ErrorWithContextf(ctx, err, "[Upload] eviction failed for owner %s", owner)
	}

	s.invalidateHistory(ctx, owner)
	s.publishLifecycle(ctx, rec, summary.TotalCount, evicted)

	s.logger.InfoWithContextf(ctx, "[Upload] committed record %s for owner %s (%d rows, %d evicted)",
		rec.ID, owner, summary.TotalCount, len(evicted))

	return rec, nil
}

// rollback removes a tentative record together with its blob. It runs even
// when the request context is already canceled; an aborted upload must not
// leave a record behind.
func (s *Service) rollback(ctx context.Context, rec *entity.UploadRecord) {
	ctx = context.WithoutCancel(ctx)
	if err := s.history.Delete(ctx, rec); err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Upload] rollback failed for record %s", rec.ID)
	}
}

func (s *Service) discardBlob(ctx context.Context, blobKey string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.blobs.DeleteBlob(ctx, blobKey); err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Upload] failed to discard blob %s", blobKey)
	}
}

func (s *Service) invalidateHistory(ctx context.Context, owner uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, historyCacheKey(owner)); err != nil {
		s.logger.WarningWithContextf(ctx, "[Upload] failed to invalidate history cache for owner %s: %v", owner, err)
	}
}

func (s *Service) publishLifecycle(ctx context.Context, rec *entity.UploadRecord, totalCount int, evicted []*entity.UploadRecord) {
	if s.events == nil {
		return
	}

	err := s.events.PublishCommitted(ctx, produce.UploadCommittedMessage{
		RecordID:   rec.ID.String(),
		OwnerID:    rec.OwnerID.String(),
		FileName:   rec.FileName,
		TotalCount: totalCount,
	})
	if err != nil {
		s.logger.WarningWithContextf(ctx, "[Upload] failed to publish committed event for record %s: %v", rec.ID, err)
	}

	for _, old := range evicted {
		err := s.events.PublishEvicted(ctx, produce.UploadEvictedMessage{
			RecordID: old.ID.String(),
			OwnerID:  old.OwnerID.String(),
		})
		if err != nil {
			s.logger.WarningWithContextf(ctx, "[Upload] failed to publish evicted event for record %s: %v", old.ID, err)
		}
	}
}
