package entities

import (
	"workspace-backend/domain/core/valueobjects"
	pkgerrors "workspace-backend/pkg/errors"
)

// NodeShape is a semantic visual tag; it carries no layout implication.
type NodeShape string

const (
	ShapeCircle    NodeShape = "circle"
	ShapeSquare    NodeShape = "square"
	ShapeDiamond   NodeShape = "diamond"
	ShapeRectangle NodeShape = "rectangle"
)

// TextStyle holds per-node text presentation hints
type TextStyle struct {
	FontSizePt int  `json:"fontSizePt,omitempty"`
	Bold       bool `json:"bold,omitempty"`
	Italic     bool `json:"italic,omitempty"`
}

// NodeLink is an external link attached to a journey node
type NodeLink struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Label string `json:"label"`
}

// TreeNode is one element of a journey forest. Children are owned
// exclusively by their parent; the forest is acyclic by construction
// because mutations only ever append children, never back-references.
type TreeNode struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Shape     NodeShape  `json:"shape"`
	Color     string     `json:"color,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
	Details   string     `json:"details,omitempty"`
	Links     []NodeLink `json:"links,omitempty"`
	Documents []string   `json:"documents,omitempty"`
	Children  []TreeNode `json:"children,omitempty"`
}

// NewTreeNode creates a node with a fresh identifier
func NewTreeNode(label string, shape NodeShape) TreeNode {
	if shape == "" {
		shape = ShapeRectangle
	}
	return TreeNode{
		ID:    valueobjects.NewID("node"),
		Label: label,
		Shape: shape,
	}
}

// SiblingDirection describes the gesture that created a sibling. It only
// affects where the new node lands in its sibling sequence; the caller owns
// on-screen placement.
type SiblingDirection string

const (
	SiblingBefore SiblingDirection = "before"
	SiblingAfter  SiblingDirection = "after"
)

// TextStylePatch updates individual style fields without resetting the rest
type TextStylePatch struct {
	FontSizePt *int  `json:"fontSizePt,omitempty"`
	Bold       *bool `json:"bold,omitempty"`
	Italic     *bool `json:"italic,omitempty"`
}

// NodePatch is a partial update of a node's own fields. Nil fields are
// left unchanged. TextStyle merges field-wise rather than wholesale.
type NodePatch struct {
	Label     *string         `json:"label,omitempty"`
	Shape     *NodeShape      `json:"shape,omitempty"`
	Color     *string         `json:"color,omitempty"`
	TextStyle *TextStylePatch `json:"textStyle,omitempty"`
	Details   *string         `json:"details,omitempty"`
	Documents *[]string       `json:"documents,omitempty"`
}

// InsertChild returns a new forest with node appended to the children of
// parentID. The input forest is never mutated.
func InsertChild(forest []TreeNode, parentID string, node TreeNode) ([]TreeNode, error) {
	result, found := rewriteNode(forest, parentID, func(n TreeNode) TreeNode {
		n.Children = append(cloneNodes(n.Children), node)
		return n
	})
	if !found {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return result, nil
}

// InsertSibling returns a new forest with node inserted adjacent to anchorID
// in the anchor's own sibling sequence. The tree structure gains no new
// depth; direction decides before/after within the sequence.
func InsertSibling(forest []TreeNode, anchorID string, node TreeNode, direction SiblingDirection) ([]TreeNode, error) {
	result, found := insertAdjacent(forest, anchorID, node, direction)
	if !found {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return result, nil
}

// UpdateNode returns a new forest with patch merged into the node matching id
func UpdateNode(forest []TreeNode, id string, patch NodePatch) ([]TreeNode, error) {
	result, found := rewriteNode(forest, id, func(n TreeNode) TreeNode {
		return applyNodePatch(n, patch)
	})
	if !found {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return result, nil
}

// DeleteSubtree returns a new forest with the node matching id and its
// entire subtree removed
func DeleteSubtree(forest []TreeNode, id string) ([]TreeNode, error) {
	result, found := removeNode(forest, id)
	if !found {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return result, nil
}

// AddLink returns a new forest with a link appended to the node matching id
func AddLink(forest []TreeNode, id, url, label string) ([]TreeNode, error) {
	link := NodeLink{ID: valueobjects.NewID("link"), URL: url, Label: label}
	result, found := rewriteNode(forest, id, func(n TreeNode) TreeNode {
		n.Links = append(cloneLinks(n.Links), link)
		return n
	})
	if !found {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return result, nil
}

// RemoveLink returns a new forest with the link matching linkID removed from
// the node matching id
func RemoveLink(forest []TreeNode, id, linkID string) ([]TreeNode, error) {
	linkFound := false
	result, found := rewriteNode(forest, id, func(n TreeNode) TreeNode {
		links := make([]NodeLink, 0, len(n.Links))
		for _, l := range n.Links {
			if l.ID == linkID {
				linkFound = true
				continue
			}
			links = append(links, l)
		}
		n.Links = links
		return n
	})
	if !found {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	if !linkFound {
		return nil, pkgerrors.NewNotFoundError("link")
	}
	return result, nil
}

// FindNode returns a copy of the node matching id, searching depth-first
func FindNode(forest []TreeNode, id string) (TreeNode, error) {
	for i := range forest {
		if forest[i].ID == id {
			return cloneNode(forest[i]), nil
		}
		if n, err := FindNode(forest[i].Children, id); err == nil {
			return n, nil
		}
	}
	return TreeNode{}, pkgerrors.NewNotFoundError("node")
}

// CollectNodeIDs returns every id in the forest in depth-first order
func CollectNodeIDs(forest []TreeNode) []string {
	var ids []string
	for i := range forest {
		ids = append(ids, forest[i].ID)
		ids = append(ids, CollectNodeIDs(forest[i].Children)...)
	}
	return ids
}

// rewriteNode copies the forest, applying fn to the node matching id.
// Subtrees that do not contain the target are shared, not copied.
func rewriteNode(forest []TreeNode, id string, fn func(TreeNode) TreeNode) ([]TreeNode, bool) {
	found := false
	result := make([]TreeNode, len(forest))
	for i := range forest {
		if found {
			result[i] = forest[i]
			continue
		}
		if forest[i].ID == id {
			result[i] = fn(cloneNode(forest[i]))
			found = true
			continue
		}
		children, ok := rewriteNode(forest[i].Children, id, fn)
		if ok {
			result[i] = forest[i]
			result[i].Children = children
			found = true
			continue
		}
		result[i] = forest[i]
	}
	return result, found
}

func removeNode(forest []TreeNode, id string) ([]TreeNode, bool) {
	found := false
	result := make([]TreeNode, 0, len(forest))
	for i := range forest {
		if !found && forest[i].ID == id {
			found = true
			continue
		}
		if !found {
			if children, ok := removeNode(forest[i].Children, id); ok {
				n := forest[i]
				n.Children = children
				result = append(result, n)
				found = true
				continue
			}
		}
		result = append(result, forest[i])
	}
	return result, found
}

func insertAdjacent(forest []TreeNode, anchorID string, node TreeNode, direction SiblingDirection) ([]TreeNode, bool) {
	for i := range forest {
		if forest[i].ID == anchorID {
			at := i
			if direction != SiblingBefore {
				at = i + 1
			}
			result := make([]TreeNode, 0, len(forest)+1)
			result = append(result, forest[:at]...)
			result = append(result, node)
			result = append(result, forest[at:]...)
			return result, true
		}
	}
	for i := range forest {
		if children, ok := insertAdjacent(forest[i].Children, anchorID, node, direction); ok {
			result := make([]TreeNode, len(forest))
			copy(result, forest)
			result[i].Children = children
			return result, true
		}
	}
	return nil, false
}

func applyNodePatch(n TreeNode, patch NodePatch) TreeNode {
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.Shape != nil {
		n.Shape = *patch.Shape
	}
	if patch.Color != nil {
		n.Color = *patch.Color
	}
	if patch.Details != nil {
		n.Details = *patch.Details
	}
	if patch.Documents != nil {
		n.Documents = append([]string(nil), (*patch.Documents)...)
	}
	if patch.TextStyle != nil {
		style := TextStyle{}
		if n.TextStyle != nil {
			style = *n.TextStyle
		}
		if patch.TextStyle.FontSizePt != nil {
			style.FontSizePt = *patch.TextStyle.FontSizePt
		}
		if patch.TextStyle.Bold != nil {
			style.Bold = *patch.TextStyle.Bold
		}
		if patch.TextStyle.Italic != nil {
			style.Italic = *patch.TextStyle.Italic
		}
		n.TextStyle = &style
	}
	return n
}

func cloneNode(n TreeNode) TreeNode {
	clone := n
	clone.Links = cloneLinks(n.Links)
	clone.Documents = append([]string(nil), n.Documents...)
	clone.Children = cloneNodes(n.Children)
	if n.TextStyle != nil {
		style := *n.TextStyle
		clone.TextStyle = &style
	}
	return clone
}

// CloneForest deep-copies a journey forest
func CloneForest(forest []TreeNode) []TreeNode {
	return cloneNodes(forest)
}

func cloneNodes(nodes []TreeNode) []TreeNode {
	if nodes == nil {
		return nil
	}
	result := make([]TreeNode, len(nodes))
	for i := range nodes {
		result[i] = cloneNode(nodes[i])
	}
	return result
}

func cloneLinks(links []NodeLink) []NodeLink {
	if links == nil {
		return nil
	}
	result := make([]NodeLink, len(links))
	copy(result, links)
	return result
}
