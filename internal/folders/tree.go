package folders

import (
	"fmt"

	"github.com/Arnav55278/study-vault/internal/models"
)

// TreeNode is one entry of the nested folder tree rendered by the dashboard
// sidebar. Children keep the order of the source listing.
type TreeNode struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Icon     string     `json:"icon"`
	URL      string     `json:"url"`
	Children []TreeNode `json:"children"`
}

func folderURL(id int64) string {
	return fmt.Sprintf("/folders/%d", id)
}

const (
	iconPrivateFolder = "bi bi-folder-fill text-warning"
	iconPublicFolder  = "bi bi-folder2-open text-success"
	iconLockedFolder  = "bi bi-folder-x text-danger"
)

func nodeIcon(f models.Folder) string {
	switch {
	case f.HasPassword():
		return iconLockedFolder
	case f.IsPublic:
		return iconPublicFolder
	default:
		return iconPrivateFolder
	}
}

// BuildTree turns a flat folder listing into a forest rooted at the folders
// without a parent. Folders whose parent is not part of the input (for
// example a filtered listing) are dropped rather than promoted to roots.
func BuildTree(all []models.Folder) []TreeNode {
	byParent := make(map[int64][]models.Folder)
	var roots []models.Folder
	for _, f := range all {
		if f.ParentID == nil {
			roots = append(roots, f)
			continue
		}
		byParent[*f.ParentID] = append(byParent[*f.ParentID], f)
	}

	var attach func(f models.Folder) TreeNode
	attach = func(f models.Folder) TreeNode {
		node := TreeNode{
			ID:       f.ID,
			Name:     f.Name,
			Icon:     nodeIcon(f),
			URL:      folderURL(f.ID),
			Children: []TreeNode{},
		}
		for _, child := range byParent[f.ID] {
			node.Children = append(node.Children, attach(child))
		}
		return node
	}

	tree := make([]TreeNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, attach(root))
	}
	return tree
}
