package services

import (
	"context"
	"sync"
	"time"

	"workspace-backend/application/ports"
	"workspace-backend/domain/core/aggregates"
	pkgerrors "workspace-backend/pkg/errors"
	"workspace-backend/pkg/observability"

	"go.uber.org/zap"
)

// SyncState is the lifecycle state of a user's persistence session
type SyncState int

const (
	StateUninitialized SyncState = iota
	StateLoading
	StateReady
)

// String returns the state name
func (s SyncState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// writeTimeout bounds the background store write issued on debounce expiry
const writeTimeout = 10 * time.Second

// SyncService owns one user's in-memory aggregate and its debounced
// synchronization to the record store. Updates apply to memory immediately;
// the store write is deferred until the debounce window closes, so rapid
// successive edits coalesce into one write carrying the latest state.
type SyncService struct {
	mu          sync.Mutex
	store       ports.AppDataStore
	metrics     *observability.Metrics
	logger      *zap.Logger
	debounce    *Debouncer
	userID      string
	state       SyncState
	data        *aggregates.UserAppData
	dirty       bool
	gen         uint64
	lastSaveErr error
}

// NewSyncService creates a sync session for one user
func NewSyncService(
	userID string,
	store ports.AppDataStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
	debounceDelay time.Duration,
) *SyncService {
	return &SyncService{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		debounce: NewDebouncer(debounceDelay),
		userID:   userID,
		state:    StateUninitialized,
	}
}

// State returns the current lifecycle state
func (s *SyncService) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSaveError returns the most recent background save failure, nil once a
// save succeeds again. The UI uses this for an "unsaved changes" indicator.
func (s *SyncService) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// Load fetches the user's aggregate record, creating the default record on
// a confirmed not-found. A fetch failure is returned to the caller and the
// session stays in Loading: defaulting on a transient error would clobber
// the user's real data on the next save.
func (s *SyncService) Load(ctx context.Context) (*aggregates.UserAppData, error) {
	s.mu.Lock()
	if s.state == StateReady {
		snapshot := s.data.Clone()
		s.mu.Unlock()
		return snapshot, nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	start := time.Now()
	data, err := s.store.Get(ctx, s.userID)
	s.metrics.RecordDuration(ctx, "AppDataLoadLatency", time.Since(start))

	switch {
	case err == nil:
		// loaded
	case pkgerrors.IsNotFound(err):
		s.logger.Info("No record for user, writing default aggregate",
			zap.String("userID", s.userID),
		)
		data = aggregates.NewDefaultUserAppData()
		if insertErr := s.store.Insert(ctx, s.userID, data); insertErr != nil {
			s.metrics.IncrementCounter(ctx, "AppDataLoadFailure")
			return nil, pkgerrors.NewPersistenceError("initialize", insertErr)
		}
	default:
		s.logger.Error("Failed to load aggregate record",
			zap.Error(err),
			zap.String("userID", s.userID),
		)
		s.metrics.IncrementCounter(ctx, "AppDataLoadFailure")
		return nil, pkgerrors.NewPersistenceError("load", err)
	}

	s.mu.Lock()
	s.data = data
	s.state = StateReady
	snapshot := s.data.Clone()
	s.mu.Unlock()
	return snapshot, nil
}

// Snapshot returns a deep copy of the in-memory aggregate
func (s *SyncService) Snapshot() (*aggregates.UserAppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, pkgerrors.NewValidationError("app data is not loaded")
	}
	return s.data.Clone(), nil
}

// Update applies a partial patch to the in-memory aggregate synchronously,
// then (re)starts the debounce window. Only the window's expiry writes to
// the store, and that write carries the aggregate as of expiry time.
func (s *SyncService) Update(patch aggregates.Patch) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return pkgerrors.NewValidationError("app data is not loaded")
	}
	s.data.Apply(patch)
	s.dirty = true
	s.gen++
	s.mu.Unlock()

	s.debounce.Schedule(s.writePending)
	return nil
}

// Flush cancels any pending debounce and writes the latest aggregate
// synchronously. Called on teardown so navigation away loses nothing.
func (s *SyncService) Flush() error {
	s.debounce.Cancel()
	s.writePending()
	return s.LastSaveError()
}

// Close is Flush under the name the container expects at shutdown
func (s *SyncService) Close() error {
	return s.Flush()
}

// writePending writes the current aggregate if there are unsaved changes.
// On failure the aggregate stays dirty and the error is surfaced through
// LastSaveError; the next flush retries. The snapshot's generation is
// captured under the lock: an Update landing while the store write is in
// flight bumps the generation, so the stale write must not clear dirty or
// the newer edit would never be persisted.
func (s *SyncService) writePending() {
	s.mu.Lock()
	if !s.dirty || s.data == nil {
		s.mu.Unlock()
		return
	}
	snapshot := s.data.Clone()
	writtenGen := s.gen
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Update(ctx, s.userID, snapshot)
	s.metrics.RecordDuration(ctx, "AppDataSaveLatency", time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastSaveErr = pkgerrors.NewPersistenceError("save", err)
		s.metrics.IncrementCounter(ctx, "AppDataSaveFailure")
		s.logger.Error("Failed to save aggregate record, will retry on next flush",
			zap.Error(err),
			zap.String("userID", s.userID),
		)
		return
	}
	if s.gen == writtenGen {
		s.dirty = false
	}
	s.lastSaveErr = nil
	s.logger.Debug("Saved aggregate record",
		zap.String("userID", s.userID),
		zap.Duration("took", time.Since(start)),
	)
}
