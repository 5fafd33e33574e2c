package entities

import (
	"testing"

	pkgerrors "workspace-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockIDs(page Page) []string {
	ids := make([]string, len(page.Blocks))
	for i, b := range page.Blocks {
		ids[i] = b.ID
	}
	return ids
}

func TestNewPageStartsWithEmptyTextBlock(t *testing.T) {
	page := NewPage("Notes", "")
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, BlockText, page.Blocks[0].Type)
	assert.Empty(t, page.Blocks[0].Content)
	assert.False(t, page.CreatedAt.IsZero())
}

func TestEnsureNonEmptyRestoresSingleTextBlock(t *testing.T) {
	page := NewPage("Notes", "")
	page.Blocks = nil

	page = EnsureNonEmpty(page)
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, BlockText, page.Blocks[0].Type)
	assert.Empty(t, page.Blocks[0].Content)
}

func TestInsertBlockAfter(t *testing.T) {
	page := NewPage("Notes", "")
	first := page.Blocks[0].ID

	page, err := InsertBlockAfter(page, first, BlockHeading1)
	require.NoError(t, err)
	require.Len(t, page.Blocks, 2)
	assert.Equal(t, first, page.Blocks[0].ID)
	assert.Equal(t, BlockHeading1, page.Blocks[1].Type)

	_, err = InsertBlockAfter(page, "missing", BlockText)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestInsertDatabaseBlockCarriesSchema(t *testing.T) {
	page := NewPage("Notes", "")
	page, err := InsertBlockAfter(page, page.Blocks[0].ID, BlockDatabase)
	require.NoError(t, err)

	db := page.Blocks[1]
	require.NotNil(t, db.DatabaseData)
	assert.Equal(t, "Untitled", db.DatabaseData.Name)
	require.NotEmpty(t, db.DatabaseData.Fields)
	assert.Equal(t, FieldText, db.DatabaseData.Fields[0].Type)
}

func TestInsertMindmapBlockCarriesEmptyForest(t *testing.T) {
	page := NewPage("Notes", "")
	page, err := InsertBlockAfter(page, page.Blocks[0].ID, BlockMindmap)
	require.NoError(t, err)

	mm := page.Blocks[1]
	assert.Equal(t, "Mindmap", mm.Content)
	assert.NotNil(t, mm.MindmapData)
	assert.Empty(t, mm.MindmapData)
}

func TestUpdateLastBlockAppendsTrailingText(t *testing.T) {
	page := NewPage("Notes", "")
	content := "hello"
	page, err := UpdateBlock(page, page.Blocks[0].ID, BlockPatch{Content: &content})
	require.NoError(t, err)

	// typing into the last block yields a fresh empty text block after it
	require.Len(t, page.Blocks, 2)
	assert.Equal(t, "hello", page.Blocks[0].Content)
	assert.Equal(t, BlockText, page.Blocks[1].Type)
	assert.Empty(t, page.Blocks[1].Content)
}

func TestUpdateLastBlockWhitespaceDoesNotAppend(t *testing.T) {
	page := NewPage("Notes", "")
	content := "   "
	page, err := UpdateBlock(page, page.Blocks[0].ID, BlockPatch{Content: &content})
	require.NoError(t, err)
	assert.Len(t, page.Blocks, 1)
}

func TestUpdateLastBlockTypeChangeAppends(t *testing.T) {
	page := NewPage("Notes", "")
	divider := BlockDivider
	page, err := UpdateBlock(page, page.Blocks[0].ID, BlockPatch{Type: &divider})
	require.NoError(t, err)

	require.Len(t, page.Blocks, 2)
	assert.Equal(t, BlockDivider, page.Blocks[0].Type)
	assert.Equal(t, BlockText, page.Blocks[1].Type)
}

func TestUpdateSelfContainedBlockSuppressesAppend(t *testing.T) {
	page := NewPage("Notes", "")
	mindmap := BlockMindmap
	page, err := UpdateBlock(page, page.Blocks[0].ID, BlockPatch{Type: &mindmap})
	require.NoError(t, err)
	assert.Len(t, page.Blocks, 1)

	// editing the embedded forest still does not grow the page
	forest := []TreeNode{NewTreeNode("Idea", "")}
	page, err = UpdateBlock(page, page.Blocks[0].ID, BlockPatch{MindmapData: &forest})
	require.NoError(t, err)
	assert.Len(t, page.Blocks, 1)
}

func TestUpdateNonLastBlockNeverAppends(t *testing.T) {
	page := NewPage("Notes", "")
	page, err := InsertBlockAfter(page, page.Blocks[0].ID, BlockText)
	require.NoError(t, err)

	content := "first of two"
	page, err = UpdateBlock(page, page.Blocks[0].ID, BlockPatch{Content: &content})
	require.NoError(t, err)
	assert.Len(t, page.Blocks, 2)
}

func TestDeleteBlockKeepsPageNonEmpty(t *testing.T) {
	page := NewPage("Notes", "")
	only := page.Blocks[0].ID

	page, err := DeleteBlock(page, only)
	require.NoError(t, err)
	require.Len(t, page.Blocks, 1)
	assert.NotEqual(t, only, page.Blocks[0].ID)
	assert.Equal(t, BlockText, page.Blocks[0].Type)
}

func TestReorderBlock(t *testing.T) {
	page := NewPage("Notes", "")
	page, err := InsertBlockAfter(page, page.Blocks[0].ID, BlockHeading1)
	require.NoError(t, err)
	page, err = InsertBlockAfter(page, page.Blocks[1].ID, BlockQuote)
	require.NoError(t, err)

	ids := blockIDs(page)
	moved, err := ReorderBlock(page, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, blockIDs(moved))

	// moving a block onto itself changes nothing
	same, err := ReorderBlock(page, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, ids, blockIDs(same))

	_, err = ReorderBlock(page, 0, 5)
	assert.True(t, pkgerrors.IsValidation(err))
	_, err = ReorderBlock(page, -1, 0)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestClonePageIsIndependent(t *testing.T) {
	page := NewPage("Notes", "")
	page, err := InsertBlockAfter(page, page.Blocks[0].ID, BlockDatabase)
	require.NoError(t, err)

	clone := ClonePage(page)
	clone.Blocks[0].Content = "mutated"
	clone.Blocks[1].DatabaseData.Name = "mutated"

	assert.Empty(t, page.Blocks[0].Content)
	assert.Equal(t, "Untitled", page.Blocks[1].DatabaseData.Name)
}
