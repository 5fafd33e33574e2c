package entities

import (
	"strings"
	"time"

	"workspace-backend/domain/core/valueobjects"
	pkgerrors "workspace-backend/pkg/errors"
)

// BlockType enumerates the content units a page can hold
type BlockType string

const (
	BlockText     BlockType = "text"
	BlockHeading1 BlockType = "heading1"
	BlockHeading2 BlockType = "heading2"
	BlockHeading3 BlockType = "heading3"
	BlockTodo     BlockType = "todo"
	BlockCode     BlockType = "code"
	BlockQuote    BlockType = "quote"
	BlockDivider  BlockType = "divider"
	BlockDatabase BlockType = "database"
	BlockMindmap  BlockType = "mindmap"
)

// IsSelfContained reports whether the type embeds its own sub-model.
// Self-contained blocks suppress the editor's auto-append behavior so
// embedded-widget edits cannot trigger runaway block creation.
func (t BlockType) IsSelfContained() bool {
	return t == BlockMindmap || t == BlockDatabase
}

// Block is one typed content unit of a page
type Block struct {
	ID           string          `json:"id"`
	Type         BlockType       `json:"type"`
	Content      string          `json:"content"`
	Checked      bool            `json:"checked,omitempty"`
	MindmapData  []TreeNode      `json:"mindmapData,omitempty"`
	DatabaseData *DatabaseSchema `json:"databaseData,omitempty"`
	DatabaseID   string          `json:"databaseId,omitempty"`
}

// Page is an ordered sequence of blocks. A page is never empty: every
// mutation path re-establishes at least one block.
type Page struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Blocks     []Block   `json:"blocks"`
	ParentID   string    `json:"parentId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	IsFavorite bool      `json:"isFavorite,omitempty"`
}

// BlockPatch is a partial update of a block. Nil fields are left unchanged.
type BlockPatch struct {
	Type         *BlockType      `json:"type,omitempty"`
	Content      *string         `json:"content,omitempty"`
	Checked      *bool           `json:"checked,omitempty"`
	MindmapData  *[]TreeNode     `json:"mindmapData,omitempty"`
	DatabaseData *DatabaseSchema `json:"databaseData,omitempty"`
	DatabaseID   *string         `json:"databaseId,omitempty"`
}

// NewPage creates a page with a single empty text block
func NewPage(title, parentID string) Page {
	now := time.Now().UTC()
	return Page{
		ID:        valueobjects.NewID("page"),
		Title:     title,
		Blocks:    []Block{newBlock(BlockText)},
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EnsureNonEmpty appends one default empty text block if the page has none.
// Invoked after every deletion.
func EnsureNonEmpty(page Page) Page {
	if len(page.Blocks) > 0 {
		return page
	}
	page.Blocks = []Block{newBlock(BlockText)}
	return page
}

// InsertBlockAfter splices a new block of blockType immediately after the
// block matching afterBlockID
func InsertBlockAfter(page Page, afterBlockID string, blockType BlockType) (Page, error) {
	idx := blockIndex(page.Blocks, afterBlockID)
	if idx < 0 {
		return Page{}, pkgerrors.NewNotFoundError("block")
	}
	blocks := make([]Block, 0, len(page.Blocks)+1)
	blocks = append(blocks, page.Blocks[:idx+1]...)
	blocks = append(blocks, newBlock(blockType))
	blocks = append(blocks, page.Blocks[idx+1:]...)
	page.Blocks = blocks
	page.UpdatedAt = time.Now().UTC()
	return page, nil
}

// UpdateBlock merges patch into the block matching blockID. When the last
// block of the page gains non-empty content, or changes to a non-text type,
// a fresh trailing empty text block is appended so the editor always has a
// place to type next. Self-contained types suppress that append.
func UpdateBlock(page Page, blockID string, patch BlockPatch) (Page, error) {
	idx := blockIndex(page.Blocks, blockID)
	if idx < 0 {
		return Page{}, pkgerrors.NewNotFoundError("block")
	}

	blocks := cloneBlocks(page.Blocks)
	typeChanged := patch.Type != nil && *patch.Type != blocks[idx].Type
	blocks[idx] = applyBlockPatch(blocks[idx], patch)

	last := idx == len(blocks)-1
	filled := strings.TrimSpace(blocks[idx].Content) != ""
	becameNonText := typeChanged && blocks[idx].Type != BlockText
	if last && (filled || becameNonText) && !blocks[idx].Type.IsSelfContained() {
		blocks = append(blocks, newBlock(BlockText))
	}

	page.Blocks = blocks
	page.UpdatedAt = time.Now().UTC()
	return page, nil
}

// DeleteBlock removes the block matching blockID, then re-establishes the
// non-empty invariant
func DeleteBlock(page Page, blockID string) (Page, error) {
	idx := blockIndex(page.Blocks, blockID)
	if idx < 0 {
		return Page{}, pkgerrors.NewNotFoundError("block")
	}
	blocks := make([]Block, 0, len(page.Blocks)-1)
	blocks = append(blocks, page.Blocks[:idx]...)
	blocks = append(blocks, page.Blocks[idx+1:]...)
	page.Blocks = blocks
	page.UpdatedAt = time.Now().UTC()
	return EnsureNonEmpty(page), nil
}

// ReorderBlock moves the block at fromIndex to toIndex. Moving a block onto
// its own index is a no-op, which keeps incremental drag-over reordering
// idempotent.
func ReorderBlock(page Page, fromIndex, toIndex int) (Page, error) {
	n := len(page.Blocks)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return Page{}, pkgerrors.NewValidationError("block index out of range")
	}
	if fromIndex == toIndex {
		return page, nil
	}
	blocks := cloneBlocks(page.Blocks)
	moved := blocks[fromIndex]
	blocks = append(blocks[:fromIndex], blocks[fromIndex+1:]...)
	rest := make([]Block, 0, n)
	rest = append(rest, blocks[:toIndex]...)
	rest = append(rest, moved)
	rest = append(rest, blocks[toIndex:]...)
	page.Blocks = rest
	page.UpdatedAt = time.Now().UTC()
	return page, nil
}

// ClonePage deep-copies a page
func ClonePage(page Page) Page {
	page.Blocks = cloneBlocks(page.Blocks)
	return page
}

func newBlock(blockType BlockType) Block {
	b := Block{
		ID:   valueobjects.NewID("block"),
		Type: blockType,
	}
	if blockType == BlockMindmap {
		b.Content = "Mindmap"
		b.MindmapData = []TreeNode{}
	}
	if blockType == BlockDatabase {
		schema := NewDatabaseSchema("Untitled")
		b.DatabaseData = &schema
	}
	return b
}

func applyBlockPatch(b Block, patch BlockPatch) Block {
	if patch.Type != nil {
		b.Type = *patch.Type
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if patch.Checked != nil {
		b.Checked = *patch.Checked
	}
	if patch.MindmapData != nil {
		b.MindmapData = CloneForest(*patch.MindmapData)
	}
	if patch.DatabaseData != nil {
		schema := CloneSchema(*patch.DatabaseData)
		b.DatabaseData = &schema
	}
	if patch.DatabaseID != nil {
		b.DatabaseID = *patch.DatabaseID
	}
	return b
}

func blockIndex(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	result := make([]Block, len(blocks))
	for i := range blocks {
		result[i] = blocks[i]
		result[i].MindmapData = CloneForest(blocks[i].MindmapData)
		if blocks[i].DatabaseData != nil {
			schema := CloneSchema(*blocks[i].DatabaseData)
			result[i].DatabaseData = &schema
		}
	}
	return result
}
