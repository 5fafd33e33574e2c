package services

import (
	"sync"
	"time"

	"workspace-backend/application/ports"
	"workspace-backend/pkg/observability"

	"go.uber.org/zap"
)

// SyncManager hands out one SyncService per user and flushes them all on
// shutdown
type SyncManager struct {
	mu       sync.Mutex
	store    ports.AppDataStore
	metrics  *observability.Metrics
	logger   *zap.Logger
	delay    time.Duration
	sessions map[string]*SyncService
}

// NewSyncManager creates a manager over the given record store
func NewSyncManager(
	store ports.AppDataStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
	debounceDelay time.Duration,
) *SyncManager {
	return &SyncManager{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		delay:    debounceDelay,
		sessions: make(map[string]*SyncService),
	}
}

// ForUser returns the user's sync session, creating it on first use
func (m *SyncManager) ForUser(userID string) *SyncService {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc, ok := m.sessions[userID]; ok {
		return svc
	}
	svc := NewSyncService(userID, m.store, m.metrics, m.logger, m.delay)
	m.sessions[userID] = svc
	return svc
}

// Close flushes every session's pending write synchronously
func (m *SyncManager) Close() error {
	m.mu.Lock()
	sessions := make([]*SyncService, 0, len(m.sessions))
	for _, svc := range m.sessions {
		sessions = append(sessions, svc)
	}
	m.mu.Unlock()

	var firstErr error
	for _, svc := range sessions {
		if err := svc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
