package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/core/entities"
	pkgerrors "workspace-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingStore records every call; Get and Update can be forced to fail.
type countingStore struct {
	mu        sync.Mutex
	record    *aggregates.UserAppData
	getErr    error
	updateErr error
	gets      int
	inserts   int
	updates   int
	lastWrite *aggregates.UserAppData
}

func (s *countingStore) Get(ctx context.Context, userID string) (*aggregates.UserAppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.record == nil {
		return nil, pkgerrors.NewNotFoundError("app data")
	}
	return s.record.Clone(), nil
}

func (s *countingStore) Insert(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	s.record = data.Clone()
	return nil
}

func (s *countingStore) Update(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	s.record = data.Clone()
	s.lastWrite = data.Clone()
	return nil
}

func (s *countingStore) counts() (gets, inserts, updates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.inserts, s.updates
}

func newTestService(store *countingStore, delay time.Duration) *SyncService {
	return NewSyncService("user-1", store, nil, zap.NewNop(), delay)
}

func TestLoadInitializesDefaultOnNotFound(t *testing.T) {
	store := &countingStore{}
	svc := newTestService(store, time.Hour)

	data, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Workspaces, 1)
	assert.Equal(t, aggregates.DefaultWorkspaceName, data.Workspaces[0].Name)
	assert.Equal(t, StateReady, svc.State())

	_, inserts, _ := store.counts()
	assert.Equal(t, 1, inserts)
}

func TestLoadReturnsSnapshotWhenReady(t *testing.T) {
	store := &countingStore{}
	svc := newTestService(store, time.Hour)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	_, err = svc.Load(context.Background())
	require.NoError(t, err)

	// the second load serves memory, no second fetch
	gets, _, _ := store.counts()
	assert.Equal(t, 1, gets)
}

func TestLoadNeverDefaultsOnFetchError(t *testing.T) {
	store := &countingStore{getErr: errors.New("throttled")}
	svc := newTestService(store, time.Hour)

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypePersistence))

	// no default record was written over the (possibly existing) real one
	_, inserts, _ := store.counts()
	assert.Equal(t, 0, inserts)
	assert.Equal(t, StateLoading, svc.State())
}

func TestUpdateBeforeLoadRejected(t *testing.T) {
	svc := newTestService(&countingStore{}, time.Hour)
	err := svc.Update(aggregates.Patch{})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUpdatesCoalesceIntoOneWrite(t *testing.T) {
	store := &countingStore{}
	svc := newTestService(store, 30*time.Millisecond)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	// a burst of edits inside the debounce window
	for i := 0; i < 5; i++ {
		pages := []entities.Page{entities.NewPage("Draft", "")}
		require.NoError(t, svc.Update(aggregates.Patch{Pages: &pages}))
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	_, _, updates := store.counts()
	assert.Equal(t, 1, updates)

	// the single write carries the state as of window expiry
	store.mu.Lock()
	require.NotNil(t, store.lastWrite)
	assert.Len(t, store.lastWrite.Pages, 1)
	store.mu.Unlock()
}

func TestFlushWritesPendingSynchronously(t *testing.T) {
	store := &countingStore{}
	svc := newTestService(store, time.Hour)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	pages := []entities.Page{entities.NewPage("Draft", "")}
	require.NoError(t, svc.Update(aggregates.Patch{Pages: &pages}))

	require.NoError(t, svc.Flush())
	_, _, updates := store.counts()
	assert.Equal(t, 1, updates)

	// the debounce timer was cancelled; no second write arrives later
	time.Sleep(50 * time.Millisecond)
	_, _, updates = store.counts()
	assert.Equal(t, 1, updates)
}

func TestFlushWithNothingPendingWritesNothing(t *testing.T) {
	store := &countingStore{}
	svc := newTestService(store, time.Hour)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Flush())
	_, _, updates := store.counts()
	assert.Equal(t, 0, updates)
}

// gatedStore blocks every Update between entered and release, letting a test
// hold a store write in flight while more edits land.
type gatedStore struct {
	countingStore
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) Update(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	s.entered <- struct{}{}
	<-s.release
	return s.countingStore.Update(ctx, userID, data)
}

func TestUpdateDuringInFlightWriteIsNotLost(t *testing.T) {
	store := &gatedStore{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	svc := NewSyncService("user-1", store, nil, zap.NewNop(), 10*time.Millisecond)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	first := []entities.Page{entities.NewPage("Edit A", "")}
	require.NoError(t, svc.Update(aggregates.Patch{Pages: &first}))

	// the debounce fires and the write stalls inside the store
	<-store.entered

	// a newer edit lands while that write is still in flight
	second := []entities.Page{entities.NewPage("Edit B", "")}
	require.NoError(t, svc.Update(aggregates.Patch{Pages: &second}))

	close(store.release)
	<-store.entered // the rescheduled debounce writes again

	require.NoError(t, svc.Flush())

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotNil(t, store.lastWrite)
	require.Len(t, store.lastWrite.Pages, 1)
	assert.Equal(t, "Edit B", store.lastWrite.Pages[0].Title)
}

func TestSaveFailureKeepsDirtyAndRetries(t *testing.T) {
	store := &countingStore{updateErr: errors.New("table offline")}
	svc := newTestService(store, time.Hour)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	pages := []entities.Page{entities.NewPage("Draft", "")}
	require.NoError(t, svc.Update(aggregates.Patch{Pages: &pages}))

	err = svc.Flush()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypePersistence))
	assert.Error(t, svc.LastSaveError())

	// after recovery the retry carries the unsaved state
	store.mu.Lock()
	store.updateErr = nil
	store.mu.Unlock()

	require.NoError(t, svc.Flush())
	assert.NoError(t, svc.LastSaveError())
	store.mu.Lock()
	require.NotNil(t, store.lastWrite)
	assert.Len(t, store.lastWrite.Pages, 1)
	store.mu.Unlock()
}

func TestSyncManagerReusesSessionsAndClosesAll(t *testing.T) {
	store := &countingStore{}
	mgr := NewSyncManager(store, nil, zap.NewNop(), time.Hour)

	a := mgr.ForUser("user-a")
	assert.Same(t, a, mgr.ForUser("user-a"))
	assert.NotSame(t, a, mgr.ForUser("user-b"))

	_, err := a.Load(context.Background())
	require.NoError(t, err)
	pages := []entities.Page{entities.NewPage("Draft", "")}
	require.NoError(t, a.Update(aggregates.Patch{Pages: &pages}))

	require.NoError(t, mgr.Close())
	_, _, updates := store.counts()
	assert.Equal(t, 1, updates)
}
