package handlers

import (
	"context"
	"net/http"

	"workspace-backend/application/ports"
	"workspace-backend/application/services"
	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/events"
	"workspace-backend/pkg/auth"
	"workspace-backend/pkg/common"

	"go.uber.org/zap"
)

// session resolves the authenticated user's sync session and a snapshot of
// their aggregate, loading the record on first touch. On failure the HTTP
// response is already written and ok is false.
func session(
	w http.ResponseWriter,
	r *http.Request,
	sync *services.SyncManager,
) (svc *services.SyncService, data *aggregates.UserAppData, userID string, ok bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return nil, nil, "", false
	}

	svc = sync.ForUser(user.UserID)
	data, err = svc.Snapshot()
	if err != nil {
		// First request for this user; run the load-or-initialize path.
		data, err = svc.Load(r.Context())
		if err != nil {
			common.RespondAppError(w, err)
			return nil, nil, "", false
		}
	}
	return svc, data, user.UserID, true
}

// patchAll turns a mutated snapshot into a whole-aggregate patch
func patchAll(data *aggregates.UserAppData) aggregates.Patch {
	return aggregates.Patch{
		Workspaces:     &data.Workspaces,
		PageData:       &data.PageData,
		Pages:          &data.Pages,
		WorkspacePages: &data.WorkspacePages,
		Documents:      &data.Documents,
	}
}

// publishEvent emits an advisory notification event; failures are logged,
// never surfaced, since notifications are not part of the correctness
// contract
func publishEvent(ctx context.Context, pub ports.EventPublisher, logger *zap.Logger, event events.DomainEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish notification event",
			zap.Error(err),
			zap.String("eventType", event.GetEventType()),
		)
	}
}
