package entities

import (
	"time"

	"workspace-backend/domain/core/valueobjects"
)

// Workspace is a top-level container for journey forests and pages
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewWorkspace creates a workspace with a fresh identifier
func NewWorkspace(name string) Workspace {
	return Workspace{
		ID:        valueobjects.NewID("workspace"),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// DocumentMeta is an opaque reference to an uploaded document
type DocumentMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}
