package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/tuanvudang/equip-data-service/config"
	"github.com/tuanvudang/equip-data-service/entity"
	"github.com/tuanvudang/equip-data-service/infra/produce"
)

// HistoryStore is the per-owner upload history. Implemented by
// repository.UploadRecordRepository.
type HistoryStore interface {
	Create(ctx context.Context, rec *entity.UploadRecord) error
	AttachSummary(ctx context.Context, id uuid.UUID, summary datatypes.JSON) error
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error)
	GetByOwner(ctx context.Context, id, owner uuid.UUID) (*entity.UploadRecord, error)
	EvictOverflow(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error)
	Delete(ctx context.Context, rec *entity.UploadRecord) error
}

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// BlobStore holds raw upload bytes. Implemented by infra.MinioClient.
type BlobStore interface {
	StoreBlob(ctx context.Context, key string, data []byte) error
	ReadBlob(ctx context.Context, key string) ([]byte, error)
	DeleteBlob(ctx context.Context, key string) error
}

// Cache is the optional response cache. Implemented by infra.RedisClient.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher is the optional lifecycle-event producer. Implemented by
// produce.UploadEventService.
type EventPublisher interface {
	PublishCommitted(ctx context.Context, msg produce.UploadCommittedMessage) error
	PublishEvicted(ctx context.Context, msg produce.UploadEvictedMessage) error
}

// Logger matches infra.LoggerClient.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...any)
	WarningWithContextf(ctx context.Context, format string, args ...any)
	ErrorWithContextf(ctx context.Context, err error, format string, args ...any)
}

type Dependency struct {
	Config  *config.EnvConfig
	Users   UserStore
	History HistoryStore
	Blobs   BlobStore
	Cache   Cache
	Events  EventPublisher
	Logger  Logger
}

// Service implements the transport-independent core operations: register,
// login, upload ingestion, history listing and data detail.
type Service struct {
	cfg     *config.EnvConfig
	users   UserStore
	history HistoryStore
	blobs   BlobStore
	cache   Cache
	events  EventPublisher
	logger  Logger
	tracer  trace.Tracer

	locksMu sync.Mutex
	locks   map[uuid.UUID]*ownerLock
}

func New(dep Dependency) *Service {
	logger := dep.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Service{
		cfg:     dep.Config,
		users:   dep.Users,
		history: dep.History,
		blobs:   dep.Blobs,
		cache:   dep.Cache,
		events:  dep.Events,
		logger:  logger,
		tracer:  otel.Tracer("equip-data-service/service"),
		locks:   make(map[uuid.UUID]*ownerLock),
	}
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

// lockOwner serializes insert+evict per owner so concurrent uploads by the
// same user converge to the retention cap. Locks are reference-counted and
// dropped from the table once the last holder releases, so the table stays
// bounded by the number of in-flight uploads.
func (s *Service) lockOwner(owner uuid.UUID) *ownerLock {
	s.locksMu.Lock()
	lock := s.locks[owner]
	if lock == nil {
		lock = &ownerLock{}
		s.locks[owner] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *Service) unlockOwner(owner uuid.UUID, lock *ownerLock) {
	lock.mu.Unlock()

	s.locksMu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, owner)
	}
	s.locksMu.Unlock()
}

type noopLogger struct{}

func (noopLogger) InfoWithContextf(context.Context, string, ...any)           {}
func (noopLogger) WarningWithContextf(context.Context, string, ...any)        {}
func (noopLogger) ErrorWithContextf(context.Context, error, string, ...any)   {}
