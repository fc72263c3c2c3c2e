package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-console/pkg/errors"
	"github.com/noah-isme/sma-console/pkg/middleware/clientid"
)

// DraftStore persists not-yet-submitted form input under a key.
type DraftStore interface {
	Load(ctx context.Context, key string, dest interface{}) error
	Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

// DraftService wraps a DraftStore with metrics. Each browser gets its own
// draft stored under "<key>:<client id>".
type DraftService struct {
	store   DraftStore
	metrics *MetricsService
	key     string
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewDraftService constructs a draft service.
func NewDraftService(store DraftStore, metrics *MetricsService, key string, ttl time.Duration, logger *zap.Logger, enabled bool) *DraftService {
	if key == "" {
		key = "student_form_draft"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{store: store, metrics: metrics, key: key, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether drafts are active.
func (s *DraftService) Enabled() bool {
	return s != nil && s.enabled && s.store != nil
}

// keyFor returns the draft key of the client on ctx. Requests without a
// client id have no draft.
func (s *DraftService) keyFor(ctx context.Context) (string, bool) {
	id := clientid.FromContext(ctx)
	if id == "" {
		return "", false
	}
	return s.key + ":" + id, true
}

// Load restores the caller's saved draft into dest. It returns true when one existed.
func (s *DraftService) Load(ctx context.Context, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	key, ok := s.keyFor(ctx)
	if !ok {
		return false, nil
	}
	start := time.Now()
	err := s.store.Load(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordDraftLookup(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("draft load failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordDraftLookup(true, duration)
	return true, nil
}

// Save stores value as the caller's draft.
func (s *DraftService) Save(ctx context.Context, value interface{}) error {
	if !s.Enabled() {
		return nil
	}
	key, ok := s.keyFor(ctx)
	if !ok {
		s.logger.Debug("draft save skipped without client id")
		return nil
	}
	start := time.Now()
	err := s.store.Save(ctx, key, value, s.ttl)
	s.metrics.ObserveDraftWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("draft save failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Clear drops the caller's draft.
func (s *DraftService) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	key, ok := s.keyFor(ctx)
	if !ok {
		return nil
	}
	if err := s.store.Clear(ctx, key); err != nil {
		s.logger.Warn("draft clear failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
