package handlers

import (
	"encoding/json"
	"net/http"

	"workspace-backend/application/ports"
	"workspace-backend/application/projections"
	"workspace-backend/application/services"
	"workspace-backend/domain/core/entities"
	"workspace-backend/domain/events"
	"workspace-backend/pkg/common"
	pkgerrors "workspace-backend/pkg/errors"
	"workspace-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DatabaseHandler handles database-block HTTP requests. A database lives
// inline on its block, so every route is scoped to a page and block.
type DatabaseHandler struct {
	sync     *services.SyncManager
	eventPub ports.EventPublisher
	logger   *zap.Logger
}

// NewDatabaseHandler creates a new database handler
func NewDatabaseHandler(sync *services.SyncManager, eventPub ports.EventPublisher, logger *zap.Logger) *DatabaseHandler {
	return &DatabaseHandler{sync: sync, eventPub: eventPub, logger: logger}
}

// AddFieldRequest represents the request body for adding a field
type AddFieldRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Type string `json:"type" validate:"required,oneof=text number select multiselect status date person checkbox url email phone files"`
}

// SetCellRequest represents the request body for writing a cell. The value
// is not validated against the field's declared type; see SetCellValue.
type SetCellRequest struct {
	Value interface{} `json:"value"`
}

// AddOptionRequest represents the request body for adding a select option
type AddOptionRequest struct {
	Option string `json:"option" validate:"required,min=1,max=100"`
}

// UpdateDatabaseRequest represents the request body for database settings
type UpdateDatabaseRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	CurrentView  *string `json:"currentView,omitempty" validate:"omitempty,oneof=table board calendar gallery list"`
	BoardGroupBy *string `json:"boardGroupBy,omitempty"`
}

// GetDatabase handles GET /pages/{pageID}/blocks/{blockID}/database.
// The optional ?view= parameter selects a read-only projection.
func (h *DatabaseHandler) GetDatabase(w http.ResponseWriter, r *http.Request) {
	_, data, _, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	schema, _, _, err := h.locate(data.Pages, r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = string(schema.CurrentView)
	}

	switch entities.ViewKind(view) {
	case entities.ViewBoard:
		columns, err := projections.BoardView(*schema)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, columns)
	case entities.ViewCalendar:
		days, err := projections.CalendarView(*schema)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, days)
	case entities.ViewGallery:
		common.RespondJSON(w, http.StatusOK, projections.GalleryView(*schema))
	case entities.ViewList:
		common.RespondJSON(w, http.StatusOK, projections.ListView(*schema))
	default:
		common.RespondJSON(w, http.StatusOK, schema)
	}
}

// UpdateDatabase handles PATCH /pages/{pageID}/blocks/{blockID}/database
func (h *DatabaseHandler) UpdateDatabase(w http.ResponseWriter, r *http.Request) {
	var req UpdateDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.mutateSchema(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		if req.Name != nil {
			schema.Name = *req.Name
		}
		if req.CurrentView != nil {
			schema.CurrentView = entities.ViewKind(*req.CurrentView)
		}
		if req.BoardGroupBy != nil {
			if *req.BoardGroupBy != "" {
				if _, err := entities.FindField(schema, *req.BoardGroupBy); err != nil {
					return entities.DatabaseSchema{}, err
				}
			}
			schema.BoardGroupBy = *req.BoardGroupBy
		}
		return schema, nil
	})
}

// AddField handles POST /pages/{pageID}/blocks/{blockID}/database/fields
func (h *DatabaseHandler) AddField(w http.ResponseWriter, r *http.Request) {
	var req AddFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	h.mutateSchema(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		return entities.AddField(schema, req.Name, entities.FieldType(req.Type))
	})
}

// DeleteField handles DELETE .../database/fields/{fieldID}. The field's
// values are stripped from every row with it.
func (h *DatabaseHandler) DeleteField(w http.ResponseWriter, r *http.Request) {
	fieldID := chi.URLParam(r, "fieldID")
	h.mutateSchemaWithEvent(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		return entities.DeleteField(schema, fieldID)
	}, func(databaseID, userID string) events.DomainEvent {
		return events.NewFieldDeleted(databaseID, userID, fieldID)
	})
}

// AddRow handles POST .../database/rows
func (h *DatabaseHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	h.mutateSchema(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		return entities.AddRow(schema), nil
	})
}

// DeleteRow handles DELETE .../database/rows/{rowID}
func (h *DatabaseHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "rowID")
	h.mutateSchemaWithEvent(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		return entities.DeleteRow(schema, rowID)
	}, func(databaseID, userID string) events.DomainEvent {
		return events.NewRowDeleted(databaseID, userID, rowID)
	})
}

// SetCell handles PUT .../database/rows/{rowID}/cells/{fieldID}
func (h *DatabaseHandler) SetCell(w http.ResponseWriter, r *http.Request) {
	var req SetCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	rowID := chi.URLParam(r, "rowID")
	fieldID := chi.URLParam(r, "fieldID")
	h.mutateSchema(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		return entities.SetCellValue(schema, rowID, fieldID, req.Value)
	})
}

// AddOption handles POST .../database/fields/{fieldID}/options
func (h *DatabaseHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	var req AddOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	fieldID := chi.URLParam(r, "fieldID")
	h.mutateSchema(w, r, func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error) {
		return entities.AddFieldOption(schema, fieldID, req.Option)
	})
}

// locate resolves the database schema on the block named in the URL
func (h *DatabaseHandler) locate(pages []entities.Page, r *http.Request) (schema *entities.DatabaseSchema, pageIdx, blockIdx int, err error) {
	pageID := chi.URLParam(r, "pageID")
	blockID := chi.URLParam(r, "blockID")

	pageIdx = -1
	for i := range pages {
		if pages[i].ID == pageID {
			pageIdx = i
			break
		}
	}
	if pageIdx < 0 {
		return nil, 0, 0, pkgerrors.NewNotFoundError("page")
	}

	blockIdx = -1
	for i := range pages[pageIdx].Blocks {
		if pages[pageIdx].Blocks[i].ID == blockID {
			blockIdx = i
			break
		}
	}
	if blockIdx < 0 {
		return nil, 0, 0, pkgerrors.NewNotFoundError("block")
	}

	block := &pages[pageIdx].Blocks[blockIdx]
	if block.Type != entities.BlockDatabase || block.DatabaseData == nil {
		return nil, 0, 0, pkgerrors.NewNotFoundError("database")
	}
	return block.DatabaseData, pageIdx, blockIdx, nil
}

func (h *DatabaseHandler) mutateSchema(
	w http.ResponseWriter,
	r *http.Request,
	op func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error),
) {
	h.mutateSchemaWithEvent(w, r, op, nil)
}

func (h *DatabaseHandler) mutateSchemaWithEvent(
	w http.ResponseWriter,
	r *http.Request,
	op func(schema entities.DatabaseSchema) (entities.DatabaseSchema, error),
	makeEvent func(databaseID, userID string) events.DomainEvent,
) {
	svc, data, userID, ok := session(w, r, h.sync)
	if !ok {
		return
	}

	schema, pageIdx, blockIdx, err := h.locate(data.Pages, r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	updated, err := op(*schema)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	data.Pages[pageIdx].Blocks[blockIdx].DatabaseData = &updated

	if err := svc.Update(patchAll(data)); err != nil {
		common.RespondAppError(w, err)
		return
	}

	if makeEvent != nil {
		publishEvent(r.Context(), h.eventPub, h.logger, makeEvent(updated.ID, userID))
	}
	common.RespondJSON(w, http.StatusOK, updated)
}
