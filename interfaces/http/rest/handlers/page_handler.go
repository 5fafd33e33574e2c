package handlers

import (
	"encoding/json"
	"net/http"

	"workspace-backend/application/ports"
	"workspace-backend/application/services"
	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/core/entities"
	"workspace-backend/domain/events"
	"workspace-backend/pkg/common"
	"workspace-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PageHandler handles page and block HTTP requests
type PageHandler struct {
	sync     *services.SyncManager
	eventPub ports.EventPublisher
	logger   *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(sync *services.SyncManager, eventPub ports.EventPublisher, logger *zap.Logger) *PageHandler {
	return &PageHandler{sync: sync, eventPub: eventPub, logger: logger}
}

// CreatePageRequest represents the request body for creating a page
type CreatePageRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	ParentID    string `json:"parentId,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

// UpdatePageRequest represents the request body for patching page metadata
type UpdatePageRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	IsFavorite *bool   `json:"isFavorite,omitempty"`
}

// InsertBlockRequest represents the request body for inserting a block
type InsertBlockRequest struct {
	AfterBlockID string `json:"afterBlockId" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=text heading1 heading2 heading3 todo code quote divider database mindmap"`
}

// ReorderBlockRequest represents the request body for moving a block
type ReorderBlockRequest struct {
	FromIndex int `json:"fromIndex" validate:"gte=0"`
	ToIndex   int `json:"toIndex" validate:"gte=0"`
}

// ListPages handles GET /pages
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	_, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, data.Pages)
}

// GetPage handles GET /pages/{pageID}
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	_, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	idx, err := data.FindPage(chi.URLParam(r, "pageID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, data.Pages[idx])
}

// CreatePage handles POST /pages. A new page starts with one empty text
// block and, when a workspace is named, appears in that workspace's page
// tree.
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
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

	if req.WorkspaceID != "" {
		if _, err := data.FindWorkspace(req.WorkspaceID); err != nil {
			common.RespondAppError(w, err)
			return
		}
	}

	page := entities.NewPage(req.Title, req.ParentID)
	data.Pages = append(data.Pages, page)
	if req.WorkspaceID != "" {
		data.WorkspacePages[req.WorkspaceID] = append(data.WorkspacePages[req.WorkspaceID], aggregates.PageRef{
			ID:       page.ID,
			Title:    page.Title,
			ParentID: page.ParentID,
		})
	}

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}

	publishEvent(r.Context(), h.eventPub, h.logger, events.NewPageCreated(page.ID, userID, page.Title))
	common.RespondJSON(w, http.StatusCreated, page)
}

// UpdatePage handles PATCH /pages/{pageID}
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req UpdatePageRequest
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

	idx, err := data.FindPage(chi.URLParam(r, "pageID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if req.Title != nil {
		data.Pages[idx].Title = *req.Title
		// Keep sidebar references in step with the canonical title.
		for wsID, refs := range data.WorkspacePages {
			for i := range refs {
				if refs[i].ID == data.Pages[idx].ID {
					refs[i].Title = *req.Title
				}
			}
			data.WorkspacePages[wsID] = refs
		}
	}
	if req.IsFavorite != nil {
		data.Pages[idx].IsFavorite = *req.IsFavorite
	}

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, data.Pages[idx])
}

// DeletePage handles DELETE /pages/{pageID}
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	svc, data, userID, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	pageID := chi.URLParam(r, "pageID")
	if _, err := data.FindPage(pageID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	pages := make([]entities.Page, 0, len(data.Pages)-1)
	for _, p := range data.Pages {
		if p.ID != pageID {
			pages = append(pages, p)
		}
	}
	data.Pages = pages
	for wsID, refs := range data.WorkspacePages {
		kept := make([]aggregates.PageRef, 0, len(refs))
		for _, ref := range refs {
			if ref.ID != pageID {
				kept = append(kept, ref)
			}
		}
		data.WorkspacePages[wsID] = kept
	}

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}

	publishEvent(r.Context(), h.eventPub, h.logger, events.NewPageDeleted(pageID, userID))
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": pageID})
}

// InsertBlock handles POST /pages/{pageID}/blocks
func (h *PageHandler) InsertBlock(w http.ResponseWriter, r *http.Request) {
	var req InsertBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.mutatePage(w, r, func(page entities.Page) (entities.Page, error) {
		return entities.InsertBlockAfter(page, req.AfterBlockID, entities.BlockType(req.Type))
	})
}

// UpdateBlock handles PATCH /pages/{pageID}/blocks/{blockID}
func (h *PageHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	var patch entities.BlockPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	blockID := chi.URLParam(r, "blockID")
	h.mutatePage(w, r, func(page entities.Page) (entities.Page, error) {
		return entities.UpdateBlock(page, blockID, patch)
	})
}

// DeleteBlock handles DELETE /pages/{pageID}/blocks/{blockID}. A page never
// ends up empty: deleting the last block re-inserts an empty text block.
func (h *PageHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	h.mutatePage(w, r, func(page entities.Page) (entities.Page, error) {
		return entities.DeleteBlock(page, blockID)
	})
}

// ReorderBlock handles POST /pages/{pageID}/blocks/reorder
func (h *PageHandler) ReorderBlock(w http.ResponseWriter, r *http.Request) {
	var req ReorderBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.mutatePage(w, r, func(page entities.Page) (entities.Page, error) {
		return entities.ReorderBlock(page, req.FromIndex, req.ToIndex)
	})
}

// mutatePage applies a page operation to the page named in the URL and
// persists the result through the debounced update path
func (h *PageHandler) mutatePage(
	w http.ResponseWriter,
	r *http.Request,
	op func(page entities.Page) (entities.Page, error),
) {
	svc, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	idx, err := data.FindPage(chi.URLParam(r, "pageID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	page, err := op(data.Pages[idx])
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	data.Pages[idx] = page

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}
