package events

import (
	"time"

	"github.com/google/uuid"
)

// SourceBackend identifies this service on the event bus
const SourceBackend = "workspace.backend"

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past; here they back
// the advisory notifications shown after structural operations.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields. EventID lets downstream consumers
// deduplicate deliveries.
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func newBase(eventType, aggregateID, userID string) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
	}
}

// WorkspaceCreated is raised when a workspace is created
type WorkspaceCreated struct {
	BaseEvent
	Name string `json:"name"`
}

// NewWorkspaceCreated creates a WorkspaceCreated event
func NewWorkspaceCreated(workspaceID, userID, name string) WorkspaceCreated {
	return WorkspaceCreated{
		BaseEvent: newBase("workspace.created", workspaceID, userID),
		Name:      name,
	}
}

// WorkspaceDeleted is raised when a workspace and its contents are removed
type WorkspaceDeleted struct {
	BaseEvent
}

// NewWorkspaceDeleted creates a WorkspaceDeleted event
func NewWorkspaceDeleted(workspaceID, userID string) WorkspaceDeleted {
	return WorkspaceDeleted{BaseEvent: newBase("workspace.deleted", workspaceID, userID)}
}

// PageCreated is raised when a page is created
type PageCreated struct {
	BaseEvent
	Title string `json:"title"`
}

// NewPageCreated creates a PageCreated event
func NewPageCreated(pageID, userID, title string) PageCreated {
	return PageCreated{
		BaseEvent: newBase("page.created", pageID, userID),
		Title:     title,
	}
}

// PageDeleted is raised when a page is removed
type PageDeleted struct {
	BaseEvent
}

// NewPageDeleted creates a PageDeleted event
func NewPageDeleted(pageID, userID string) PageDeleted {
	return PageDeleted{BaseEvent: newBase("page.deleted", pageID, userID)}
}

// FieldDeleted is raised when a database field is removed together with its
// row values
type FieldDeleted struct {
	BaseEvent
	FieldID string `json:"field_id"`
}

// NewFieldDeleted creates a FieldDeleted event
func NewFieldDeleted(databaseID, userID, fieldID string) FieldDeleted {
	return FieldDeleted{
		BaseEvent: newBase("database.field_deleted", databaseID, userID),
		FieldID:   fieldID,
	}
}

// RowDeleted is raised when a database row is removed
type RowDeleted struct {
	BaseEvent
	RowID string `json:"row_id"`
}

// NewRowDeleted creates a RowDeleted event
func NewRowDeleted(databaseID, userID, rowID string) RowDeleted {
	return RowDeleted{
		BaseEvent: newBase("database.row_deleted", databaseID, userID),
		RowID:     rowID,
	}
}
