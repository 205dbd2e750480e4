package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/tuanvudang/equip-data-service/config"
	"github.com/tuanvudang/equip-data-service/entity"
	"github.com/tuanvudang/equip-data-service/infra/produce"
	"github.com/tuanvudang/equip-data-service/repository"
)

// In-memory doubles for the service dependencies. They mirror the behavior
// the real repository and infra clients promise: tentative records are
// invisible, Delete removes the blob with the row, reads never cross owners.

type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failStore bool
	failRead  bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) StoreBlob(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStore {
		return fmt.Errorf("blob store down")
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlobs) ReadBlob(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, fmt.Errorf("blob store down")
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return data, nil
}

func (f *fakeBlobs) DeleteBlob(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeHistory struct {
	mu         sync.Mutex
	records    map[uuid.UUID]*entity.UploadRecord
	blobs      *fakeBlobs
	retention  int
	clock      time.Time
	failCreate bool
	failAttach bool
}

func newFakeHistory(blobs *fakeBlobs) *fakeHistory {
	return &fakeHistory{
		records:   make(map[uuid.UUID]*entity.UploadRecord),
		blobs:     blobs,
		retention: 5,
		clock:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeHistory) Create(ctx context.Context, rec *entity.UploadRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("db down")
	}
	if rec.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		rec.ID = id
	}
	if rec.CreatedAt.IsZero() {
		f.clock = f.clock.Add(time.Second)
		rec.CreatedAt = f.clock
	}
	clone := *rec
	f.records[rec.ID] = &clone
	return nil
}

func (f *fakeHistory) AttachSummary(ctx context.Context, id uuid.UUID, summary datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAttach {
		return fmt.Errorf("db down")
	}
	rec, ok := f.records[id]
	if !ok || rec.Committed() {
		return fmt.Errorf("record %s is missing or already committed", id)
	}
	rec.Summary = summary
	return nil
}

func (f *fakeHistory) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked(owner), nil
}

func (f *fakeHistory) listLocked(owner uuid.UUID) []*entity.UploadRecord {
	var records []*entity.UploadRecord
	for _, rec := range f.records {
		if rec.OwnerID == owner && rec.Committed() {
			clone := *rec
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return bytes.Compare(records[i].ID[:], records[j].ID[:]) > 0
	})
	return records
}

func (f *fakeHistory) GetByOwner(ctx context.Context, id, owner uuid.UUID) (*entity.UploadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok || rec.OwnerID != owner || !rec.Committed() {
		return nil, repository.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeHistory) EvictOverflow(ctx context.Context, owner uuid.UUID) ([]*entity.UploadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := f.listLocked(owner)
	if len(records) <= f.retention {
		return nil, nil
	}
	var evicted []*entity.UploadRecord
	for _, rec := range records[f.retention:] {
		f.deleteLocked(ctx, rec)
		evicted = append(evicted, rec)
	}
	return evicted, nil
}

func (f *fakeHistory) Delete(ctx context.Context, rec *entity.UploadRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteLocked(ctx, rec)
	return nil
}

func (f *fakeHistory) deleteLocked(ctx context.Context, rec *entity.UploadRecord) {
	delete(f.records, rec.ID)
	if f.blobs != nil && rec.BlobKey != "" {
		_ = f.blobs.DeleteBlob(ctx, rec.BlobKey)
	}
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeUsers struct {
	mu         sync.Mutex
	byUsername map[string]*entity.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byUsername: make(map[string]*entity.User)}
}

func (f *fakeUsers) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUsername[user.Username]; ok {
		return fmt.Errorf("duplicate username")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	f.byUsername[user.Username] = &clone
	return nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byUsername[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byUsername[username]
	return ok, nil
}

type fakeEvents struct {
	mu        sync.Mutex
	committed []produce.UploadCommittedMessage
	evicted   []produce.UploadEvictedMessage
}

func (f *fakeEvents) PublishCommitted(ctx context.Context, msg produce.UploadCommittedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msg)
	return nil
}

func (f *fakeEvents) PublishEvicted(ctx context.Context, msg produce.UploadEvictedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicted = append(f.evicted, msg)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = payload
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	payload, ok := f.entries[key]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("cache miss")
	}
	return json.Unmarshal(payload, dest)
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

type testEnv struct {
	svc     *Service
	users   *fakeUsers
	history *fakeHistory
	blobs   *fakeBlobs
	events  *fakeEvents
	cache   *fakeCache
}

func newTestEnv(withCache bool) *testEnv {
	env := &testEnv{
		users:  newFakeUsers(),
		blobs:  newFakeBlobs(),
		events: &fakeEvents{},
	}
	env.history = newFakeHistory(env.blobs)

	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Expire = 3600

	dep := Dependency{
		Config:  cfg,
		Users:   env.users,
		History: env.history,
		Blobs:   env.blobs,
		Events:  env.events,
	}
	if withCache {
		env.cache = newFakeCache()
		dep.Cache = env.cache
	}
	env.svc = New(dep)
	return env
}
