// Package memory provides an in-memory record store for tests and local
// development.
package memory

import (
	"context"
	"sync"

	"workspace-backend/application/ports"
	"workspace-backend/domain/core/aggregates"
	pkgerrors "workspace-backend/pkg/errors"
)

// AppDataStore is a map-backed implementation of the AppDataStore port
type AppDataStore struct {
	mu      sync.RWMutex
	records map[string]*aggregates.UserAppData
}

// NewAppDataStore creates an empty in-memory store
func NewAppDataStore() *AppDataStore {
	return &AppDataStore{
		records: make(map[string]*aggregates.UserAppData),
	}
}

var _ ports.AppDataStore = (*AppDataStore)(nil)

// Get retrieves the user's aggregate record
func (s *AppDataStore) Get(ctx context.Context, userID string) (*aggregates.UserAppData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.records[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("app data")
	}
	return data.Clone(), nil
}

// Insert writes a brand-new record, failing with CONFLICT if one exists
func (s *AppDataStore) Insert(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; ok {
		return pkgerrors.NewConflictError("app data record already exists")
	}
	s.records[userID] = data.Clone()
	return nil
}

// Update replaces the user's record with the given aggregate
func (s *AppDataStore) Update(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[userID] = data.Clone()
	return nil
}
