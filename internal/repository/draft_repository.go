package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-console/pkg/errors"
)

// RedisDraftRepository persists in-progress form drafts in Redis as JSON.
type RedisDraftRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisDraftRepository constructs a Redis backed draft store.
func NewRedisDraftRepository(client *redis.Client, logger *zap.Logger) *RedisDraftRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDraftRepository{client: client, logger: logger}
}

// Load unmarshals the draft stored under key into dest.
func (r *RedisDraftRepository) Load(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal draft for %s: %w", key, err)
	}
	return nil
}

// Save marshals value and stores it with the given TTL. A zero TTL keeps it forever.
func (r *RedisDraftRepository) Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal draft for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear removes the draft stored under key.
func (r *RedisDraftRepository) Clear(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisDraftRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

type memoryDraft struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryDraftRepository keeps drafts in process memory. Drafts do not survive restarts.
type MemoryDraftRepository struct {
	mu     sync.Mutex
	drafts map[string]memoryDraft
	now    func() time.Time
}

// NewMemoryDraftRepository constructs an in-memory draft store.
func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{drafts: make(map[string]memoryDraft), now: time.Now}
}

// Load unmarshals the draft stored under key into dest.
func (r *MemoryDraftRepository) Load(_ context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	draft, ok := r.drafts[key]
	if ok && !draft.expiresAt.IsZero() && !r.now().Before(draft.expiresAt) {
		delete(r.drafts, key)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(draft.payload, dest); err != nil {
		return fmt.Errorf("unmarshal draft for %s: %w", key, err)
	}
	return nil
}

// Save stores value under key. A zero TTL keeps it until cleared.
func (r *MemoryDraftRepository) Save(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal draft for %s: %w", key, err)
	}
	draft := memoryDraft{payload: payload}
	if ttl > 0 {
		draft.expiresAt = r.now().Add(ttl)
	}

	r.mu.Lock()
	r.drafts[key] = draft
	r.mu.Unlock()
	return nil
}

// Clear removes the draft stored under key.
func (r *MemoryDraftRepository) Clear(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.drafts, key)
	r.mu.Unlock()
	return nil
}
