package handlers

import (
	"encoding/json"
	"net/http"

	"workspace-backend/application/services"
	"workspace-backend/domain/core/entities"
	"workspace-backend/pkg/common"
	"workspace-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// JourneyHandler handles journey-forest HTTP requests under a workspace
type JourneyHandler struct {
	sync   *services.SyncManager
	logger *zap.Logger
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(sync *services.SyncManager, logger *zap.Logger) *JourneyHandler {
	return &JourneyHandler{sync: sync, logger: logger}
}

// CreateNodeRequest represents the request body for creating a journey node.
// Exactly one of ParentID or AnchorID selects the gesture: child insertion
// or sibling insertion. Neither means a new top-level stage.
type CreateNodeRequest struct {
	Label     string `json:"label" validate:"required,min=1,max=200"`
	Shape     string `json:"shape,omitempty" validate:"omitempty,oneof=circle square diamond rectangle"`
	ParentID  string `json:"parentId,omitempty"`
	AnchorID  string `json:"anchorId,omitempty"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=before after"`
}

// UpdateNodeRequest represents the request body for patching a node
type UpdateNodeRequest struct {
	Label     *string                  `json:"label,omitempty" validate:"omitempty,min=1,max=200"`
	Shape     *string                  `json:"shape,omitempty" validate:"omitempty,oneof=circle square diamond rectangle"`
	Color     *string                  `json:"color,omitempty"`
	Details   *string                  `json:"details,omitempty"`
	Documents *[]string                `json:"documents,omitempty"`
	TextStyle *entities.TextStylePatch `json:"textStyle,omitempty"`
}

// AddLinkRequest represents the request body for attaching a link
type AddLinkRequest struct {
	URL   string `json:"url" validate:"required,max=2000"`
	Label string `json:"label,omitempty" validate:"omitempty,max=200"`
}

// GetForest handles GET /workspaces/{workspaceID}/journey
func (h *JourneyHandler) GetForest(w http.ResponseWriter, r *http.Request) {
	_, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	workspaceID := chi.URLParam(r, "workspaceID")
	if _, err := data.FindWorkspace(workspaceID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, data.PageData[workspaceID])
}

// CreateNode handles POST /workspaces/{workspaceID}/journey/nodes
func (h *JourneyHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	svc, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	workspaceID := chi.URLParam(r, "workspaceID")
	if _, err := data.FindWorkspace(workspaceID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	node := entities.NewTreeNode(req.Label, entities.NodeShape(req.Shape))
	forest := data.PageData[workspaceID]

	var err error
	switch {
	case req.ParentID != "":
		forest, err = entities.InsertChild(forest, req.ParentID, node)
	case req.AnchorID != "":
		direction := entities.SiblingDirection(req.Direction)
		forest, err = entities.InsertSibling(forest, req.AnchorID, node, direction)
	default:
		forest = append(entities.CloneForest(forest), node)
	}
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	data.PageData[workspaceID] = forest
	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, node)
}

// UpdateNode handles PATCH /workspaces/{workspaceID}/journey/nodes/{nodeID}
func (h *JourneyHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req UpdateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	patch := entities.NodePatch{
		Label:     req.Label,
		Color:     req.Color,
		Details:   req.Details,
		Documents: req.Documents,
		TextStyle: req.TextStyle,
	}
	if req.Shape != nil {
		shape := entities.NodeShape(*req.Shape)
		patch.Shape = &shape
	}

	h.mutateForest(w, r, func(forest []entities.TreeNode, nodeID string) ([]entities.TreeNode, error) {
		return entities.UpdateNode(forest, nodeID, patch)
	})
}

// DeleteNode handles DELETE /workspaces/{workspaceID}/journey/nodes/{nodeID}.
// The node's entire subtree goes with it.
func (h *JourneyHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	h.mutateForest(w, r, entities.DeleteSubtree)
}

// AddLink handles POST /workspaces/{workspaceID}/journey/nodes/{nodeID}/links
func (h *JourneyHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req AddLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.mutateForest(w, r, func(forest []entities.TreeNode, nodeID string) ([]entities.TreeNode, error) {
		return entities.AddLink(forest, nodeID, req.URL, req.Label)
	})
}

// RemoveLink handles DELETE /workspaces/{workspaceID}/journey/nodes/{nodeID}/links/{linkID}
func (h *JourneyHandler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	h.mutateForest(w, r, func(forest []entities.TreeNode, nodeID string) ([]entities.TreeNode, error) {
		return entities.RemoveLink(forest, nodeID, linkID)
	})
}

// mutateForest runs a forest operation against the node named in the URL
// and persists the result through the debounced update path
func (h *JourneyHandler) mutateForest(
	w http.ResponseWriter,
	r *http.Request,
	op func(forest []entities.TreeNode, nodeID string) ([]entities.TreeNode, error),
) {
	svc, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	workspaceID := chi.URLParam(r, "workspaceID")
	nodeID := chi.URLParam(r, "nodeID")
	if _, err := data.FindWorkspace(workspaceID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	forest, err := op(data.PageData[workspaceID], nodeID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	data.PageData[workspaceID] = forest
	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, forest)
}
