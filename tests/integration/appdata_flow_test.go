package integration

import (
	"context"
	"testing"
	"time"

	"workspace-backend/application/services"
	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/core/entities"
	"workspace-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestFirstLoadThenEditThenReload walks the full session lifecycle against
// the in-memory store: first load writes the default record, edits coalesce
// through the debounce window, and a fresh session sees the saved state.
func TestFirstLoadThenEditThenReload(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAppDataStore()
	logger := zap.NewNop()

	mgr := services.NewSyncManager(store, nil, logger, 20*time.Millisecond)
	svc := mgr.ForUser("user-1")

	data, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Len(t, data.Workspaces, 1)
	wsID := data.Workspaces[0].ID

	// build a journey and a page the way the HTTP layer does: mutate the
	// snapshot, then patch the whole aggregate back
	stage := entities.NewTreeNode("Research", entities.ShapeCircle)
	data.PageData[wsID] = append(data.PageData[wsID], stage)

	page := entities.NewPage("Notes", "")
	data.Pages = append(data.Pages, page)
	data.WorkspacePages[wsID] = append(data.WorkspacePages[wsID], aggregates.PageRef{ID: page.ID, Title: page.Title})

	require.NoError(t, svc.Update(aggregates.Patch{
		PageData:       &data.PageData,
		Pages:          &data.Pages,
		WorkspacePages: &data.WorkspacePages,
	}))

	// let the debounce window close and the background write land
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, svc.LastSaveError())

	// a second session for the same user, over the same store
	mgr2 := services.NewSyncManager(store, nil, logger, 20*time.Millisecond)
	svc2 := mgr2.ForUser("user-1")

	reloaded, err := svc2.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.PageData[wsID], 1)
	assert.Equal(t, "Research", reloaded.PageData[wsID][0].Label)
	require.Len(t, reloaded.Pages, 1)
	assert.Equal(t, "Notes", reloaded.Pages[0].Title)
	require.Len(t, reloaded.WorkspacePages[wsID], 1)
	assert.Equal(t, page.ID, reloaded.WorkspacePages[wsID][0].ID)
}

// TestShutdownFlushLosesNothing verifies that closing the manager before the
// debounce window expires still persists the pending edit.
func TestShutdownFlushLosesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAppDataStore()
	logger := zap.NewNop()

	mgr := services.NewSyncManager(store, nil, logger, time.Hour)
	svc := mgr.ForUser("user-1")

	data, err := svc.Load(ctx)
	require.NoError(t, err)
	data.Pages = append(data.Pages, entities.NewPage("Unsaved draft", ""))
	require.NoError(t, svc.Update(aggregates.Patch{Pages: &data.Pages}))

	require.NoError(t, mgr.Close())

	reloaded, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, reloaded.Pages, 1)
	assert.Equal(t, "Unsaved draft", reloaded.Pages[0].Title)
}
