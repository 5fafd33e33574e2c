package aggregates

import (
	"testing"

	"workspace-backend/domain/core/entities"
	pkgerrors "workspace-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultUserAppData(t *testing.T) {
	data := NewDefaultUserAppData()

	require.Len(t, data.Workspaces, 1)
	ws := data.Workspaces[0]
	assert.Equal(t, DefaultWorkspaceName, ws.Name)

	// every section exists, keyed on the default workspace where applicable
	require.Contains(t, data.PageData, ws.ID)
	assert.Empty(t, data.PageData[ws.ID])
	require.Contains(t, data.WorkspacePages, ws.ID)
	assert.Empty(t, data.WorkspacePages[ws.ID])
	assert.NotNil(t, data.Pages)
	assert.NotNil(t, data.Documents)
}

func TestApplyReplacesOnlyCarriedSections(t *testing.T) {
	data := NewDefaultUserAppData()
	wsID := data.Workspaces[0].ID
	original := data.Workspaces

	pages := []entities.Page{entities.NewPage("Notes", "")}
	data.Apply(Patch{Pages: &pages})

	assert.Len(t, data.Pages, 1)
	assert.Equal(t, original, data.Workspaces)
	assert.Contains(t, data.PageData, wsID)
}

func TestCloneIsIndependent(t *testing.T) {
	data := NewDefaultUserAppData()
	wsID := data.Workspaces[0].ID
	data.PageData[wsID] = []entities.TreeNode{entities.NewTreeNode("Stage", "")}
	data.Pages = []entities.Page{entities.NewPage("Notes", "")}
	data.WorkspacePages[wsID] = []PageRef{{ID: data.Pages[0].ID, Title: "Notes"}}

	clone := data.Clone()
	clone.PageData[wsID][0].Label = "mutated"
	clone.Pages[0].Title = "mutated"
	clone.WorkspacePages[wsID][0].Title = "mutated"
	clone.Workspaces[0].Name = "mutated"

	assert.Equal(t, "Stage", data.PageData[wsID][0].Label)
	assert.Equal(t, "Notes", data.Pages[0].Title)
	assert.Equal(t, "Notes", data.WorkspacePages[wsID][0].Title)
	assert.Equal(t, DefaultWorkspaceName, data.Workspaces[0].Name)
}

func TestAddAndRemoveWorkspace(t *testing.T) {
	data := NewDefaultUserAppData()
	ws := entities.NewWorkspace("Second")
	data.AddWorkspace(ws)

	require.Len(t, data.Workspaces, 2)
	assert.Contains(t, data.PageData, ws.ID)
	assert.Contains(t, data.WorkspacePages, ws.ID)

	// give the workspace a page, then remove the workspace
	page := entities.NewPage("Doomed", "")
	data.Pages = append(data.Pages, page)
	data.WorkspacePages[ws.ID] = []PageRef{{ID: page.ID, Title: page.Title}}

	require.NoError(t, data.RemoveWorkspace(ws.ID))
	assert.Len(t, data.Workspaces, 1)
	assert.NotContains(t, data.PageData, ws.ID)
	assert.NotContains(t, data.WorkspacePages, ws.ID)
	// the workspace's pages go with it
	_, err := data.FindPage(page.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	err = data.RemoveWorkspace("missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestFindWorkspaceAndPage(t *testing.T) {
	data := NewDefaultUserAppData()
	wsID := data.Workspaces[0].ID

	ws, err := data.FindWorkspace(wsID)
	require.NoError(t, err)
	assert.Equal(t, wsID, ws.ID)

	_, err = data.FindWorkspace("missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	page := entities.NewPage("Notes", "")
	data.Pages = append(data.Pages, page)
	idx, err := data.FindPage(page.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
