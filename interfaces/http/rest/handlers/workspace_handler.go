package handlers

import (
	"encoding/json"
	"net/http"

	"workspace-backend/application/ports"
	"workspace-backend/application/services"
	"workspace-backend/domain/core/entities"
	"workspace-backend/domain/events"
	"workspace-backend/pkg/common"
	"workspace-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	sync     *services.SyncManager
	eventPub ports.EventPublisher
	logger   *zap.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(sync *services.SyncManager, eventPub ports.EventPublisher, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{sync: sync, eventPub: eventPub, logger: logger}
}

// CreateWorkspaceRequest represents the request body for creating a workspace
type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Icon string `json:"icon,omitempty" validate:"omitempty,max=16"`
}

// CreateWorkspace handles POST /workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	svc, data, userID, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	ws := entities.NewWorkspace(req.Name)
	ws.Icon = req.Icon
	data.AddWorkspace(ws)

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}

	publishEvent(r.Context(), h.eventPub, h.logger, events.NewWorkspaceCreated(ws.ID, userID, ws.Name))
	common.RespondJSON(w, http.StatusCreated, ws)
}

// DeleteWorkspace handles DELETE /workspaces/{workspaceID}. The workspace's
// journey forest, page tree and pages are removed with it.
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	svc, data, userID, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	if err := data.RemoveWorkspace(workspaceID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}

	publishEvent(r.Context(), h.eventPub, h.logger, events.NewWorkspaceDeleted(workspaceID, userID))
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": workspaceID})
}

// ListWorkspaces handles GET /workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	_, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, data.Workspaces)
}
