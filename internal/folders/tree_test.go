package folders

import (
	"testing"

	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestBuildTree_Forest(t *testing.T) {
	hash := "notempty"
	all := []models.Folder{
		{ID: 1, Name: "Maths", IsPublic: true},
		{ID: 2, Name: "Physics"},
		{ID: 3, Name: "Algebra", ParentID: ptr(1), IsPublic: true},
		{ID: 4, Name: "Geometry", ParentID: ptr(1), IsPublic: true, PasswordHash: &hash},
		{ID: 5, Name: "Euclid", ParentID: ptr(4), IsPublic: true},
	}

	tree := BuildTree(all)
	require.Len(t, tree, 2)

	maths := tree[0]
	require.Equal(t, int64(1), maths.ID)
	require.Equal(t, "/folders/1", maths.URL)
	require.Equal(t, iconPublicFolder, maths.Icon)
	require.Len(t, maths.Children, 2)
	require.Equal(t, "Algebra", maths.Children[0].Name)

	geometry := maths.Children[1]
	require.Equal(t, iconLockedFolder, geometry.Icon)
	require.Len(t, geometry.Children, 1)
	require.Equal(t, "Euclid", geometry.Children[0].Name)

	physics := tree[1]
	require.Equal(t, iconPrivateFolder, physics.Icon)
	require.Empty(t, physics.Children)
}

func TestBuildTree_DropsOrphans(t *testing.T) {
	all := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 9, Name: "Orphan", ParentID: ptr(42)},
	}

	tree := BuildTree(all)
	require.Len(t, tree, 1)
	require.Equal(t, "Root", tree[0].Name)
}

func TestBuildTree_Empty(t *testing.T) {
	tree := BuildTree(nil)
	require.NotNil(t, tree)
	require.Empty(t, tree)
}

func TestBuildTree_LeafChildrenNotNil(t *testing.T) {
	tree := BuildTree([]models.Folder{{ID: 1, Name: "Solo"}})
	require.Len(t, tree, 1)
	require.NotNil(t, tree[0].Children, "leaves serialize as [] rather than null")
}
