package ports

import (
	"context"

	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/events"
)

// AppDataStore defines the interface for aggregate persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type AppDataStore interface {
	// Get retrieves a user's aggregate record. A confirmed missing record
	// returns a NOT_FOUND application error; any other failure must be
	// reported as-is so callers never mistake a transient fault for an
	// empty account.
	Get(ctx context.Context, userID string) (*aggregates.UserAppData, error)

	// Insert writes a brand-new record, failing with CONFLICT if one exists
	Insert(ctx context.Context, userID string, data *aggregates.UserAppData) error

	// Update replaces the user's record with the given aggregate
	Update(ctx context.Context, userID string, data *aggregates.UserAppData) error
}

// EventPublisher publishes domain events for advisory notifications
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
