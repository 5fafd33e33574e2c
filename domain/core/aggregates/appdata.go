package aggregates

import (
	"workspace-backend/domain/core/entities"
	pkgerrors "workspace-backend/pkg/errors"
)

// PageRef is the lightweight page entry kept in a workspace's sidebar tree
type PageRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parentId,omitempty"`
}

// UserAppData is the single persisted aggregate holding all of a user's
// workspace, journey, page and document state. No sub-entity exists
// independently of this aggregate in storage.
type UserAppData struct {
	Workspaces     []entities.Workspace             `json:"workspaces"`
	PageData       map[string][]entities.TreeNode   `json:"pageData"`
	Pages          []entities.Page                  `json:"pages"`
	WorkspacePages map[string][]PageRef             `json:"workspacePages"`
	Documents      []entities.DocumentMeta          `json:"documents"`
}

// Patch is a partial replacement of the aggregate. Nil fields leave the
// current value untouched.
type Patch struct {
	Workspaces     *[]entities.Workspace           `json:"workspaces,omitempty"`
	PageData       *map[string][]entities.TreeNode `json:"pageData,omitempty"`
	Pages          *[]entities.Page                `json:"pages,omitempty"`
	WorkspacePages *map[string][]PageRef           `json:"workspacePages,omitempty"`
	Documents      *[]entities.DocumentMeta        `json:"documents,omitempty"`
}

// DefaultWorkspaceName is given to the workspace created on first load
const DefaultWorkspaceName = "My Workspace"

// NewDefaultUserAppData builds the aggregate written on first use: a single
// default workspace with an empty journey forest and page tree
func NewDefaultUserAppData() *UserAppData {
	ws := entities.NewWorkspace(DefaultWorkspaceName)
	return &UserAppData{
		Workspaces:     []entities.Workspace{ws},
		PageData:       map[string][]entities.TreeNode{ws.ID: {}},
		Pages:          []entities.Page{},
		WorkspacePages: map[string][]PageRef{ws.ID: {}},
		Documents:      []entities.DocumentMeta{},
	}
}

// Apply merges a partial patch into the aggregate, replacing only the
// sections the patch carries
func (d *UserAppData) Apply(patch Patch) {
	if patch.Workspaces != nil {
		d.Workspaces = *patch.Workspaces
	}
	if patch.PageData != nil {
		d.PageData = *patch.PageData
	}
	if patch.Pages != nil {
		d.Pages = *patch.Pages
	}
	if patch.WorkspacePages != nil {
		d.WorkspacePages = *patch.WorkspacePages
	}
	if patch.Documents != nil {
		d.Documents = *patch.Documents
	}
}

// Clone deep-copies the aggregate
func (d *UserAppData) Clone() *UserAppData {
	clone := &UserAppData{
		Workspaces:     append([]entities.Workspace(nil), d.Workspaces...),
		PageData:       make(map[string][]entities.TreeNode, len(d.PageData)),
		Pages:          make([]entities.Page, len(d.Pages)),
		WorkspacePages: make(map[string][]PageRef, len(d.WorkspacePages)),
		Documents:      append([]entities.DocumentMeta(nil), d.Documents...),
	}
	for wsID, forest := range d.PageData {
		clone.PageData[wsID] = entities.CloneForest(forest)
	}
	for i := range d.Pages {
		clone.Pages[i] = entities.ClonePage(d.Pages[i])
	}
	for wsID, refs := range d.WorkspacePages {
		clone.WorkspacePages[wsID] = append([]PageRef(nil), refs...)
	}
	return clone
}

// FindWorkspace returns the workspace matching workspaceID
func (d *UserAppData) FindWorkspace(workspaceID string) (entities.Workspace, error) {
	for _, ws := range d.Workspaces {
		if ws.ID == workspaceID {
			return ws, nil
		}
	}
	return entities.Workspace{}, pkgerrors.NewNotFoundError("workspace")
}

// FindPage returns the index of the page matching pageID in Pages
func (d *UserAppData) FindPage(pageID string) (int, error) {
	for i := range d.Pages {
		if d.Pages[i].ID == pageID {
			return i, nil
		}
	}
	return -1, pkgerrors.NewNotFoundError("page")
}

// AddWorkspace appends a workspace and initializes its journey forest and
// page tree entries
func (d *UserAppData) AddWorkspace(ws entities.Workspace) {
	d.Workspaces = append(d.Workspaces, ws)
	if d.PageData == nil {
		d.PageData = map[string][]entities.TreeNode{}
	}
	if d.WorkspacePages == nil {
		d.WorkspacePages = map[string][]PageRef{}
	}
	d.PageData[ws.ID] = []entities.TreeNode{}
	d.WorkspacePages[ws.ID] = []PageRef{}
}

// RemoveWorkspace removes a workspace together with its journey forest and
// page tree; the workspace's pages are removed from Pages as well
func (d *UserAppData) RemoveWorkspace(workspaceID string) error {
	if _, err := d.FindWorkspace(workspaceID); err != nil {
		return err
	}
	workspaces := make([]entities.Workspace, 0, len(d.Workspaces)-1)
	for _, ws := range d.Workspaces {
		if ws.ID != workspaceID {
			workspaces = append(workspaces, ws)
		}
	}
	d.Workspaces = workspaces

	removed := map[string]bool{}
	for _, ref := range d.WorkspacePages[workspaceID] {
		removed[ref.ID] = true
	}
	pages := make([]entities.Page, 0, len(d.Pages))
	for _, p := range d.Pages {
		if !removed[p.ID] {
			pages = append(pages, p)
		}
	}
	d.Pages = pages

	delete(d.PageData, workspaceID)
	delete(d.WorkspacePages, workspaceID)
	return nil
}
