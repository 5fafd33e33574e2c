package handlers

import (
	"net/http"

	"workspace-backend/application/services"
	"workspace-backend/pkg/auth"
	"workspace-backend/pkg/common"

	"go.uber.org/zap"
)

// AppDataHandler serves the whole-aggregate load and sync-status endpoints
type AppDataHandler struct {
	sync   *services.SyncManager
	logger *zap.Logger
}

// NewAppDataHandler creates a new app data handler
func NewAppDataHandler(sync *services.SyncManager, logger *zap.Logger) *AppDataHandler {
	return &AppDataHandler{sync: sync, logger: logger}
}

// GetAppData handles GET /appdata. It runs the load-or-initialize path: a
// confirmed missing record yields a freshly written default aggregate, while
// a fetch failure is surfaced as-is so the client never renders defaults in
// place of the user's real data.
func (h *AppDataHandler) GetAppData(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	data, err := h.sync.ForUser(user.UserID).Load(r.Context())
	if err != nil {
		h.logger.Error("App data load failed",
			zap.Error(err),
			zap.String("userID", user.UserID),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, data)
}

// GetSyncStatus handles GET /appdata/sync. It reports the session state and
// the most recent background save failure, backing the client's "unsaved
// changes" indicator.
func (h *AppDataHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	svc := h.sync.ForUser(user.UserID)
	status := map[string]interface{}{
		"state": svc.State().String(),
		"saved": svc.LastSaveError() == nil,
	}
	if err := svc.LastSaveError(); err != nil {
		status["lastSaveError"] = err.Error()
	}
	common.RespondJSON(w, http.StatusOK, status)
}
