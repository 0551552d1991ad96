package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateFolder_MissingParent(t *testing.T) {
	ownerID := createTestUser(t)
	missing := int64(999999999)

	_, err := testStore.CreateFolder(context.Background(), CreateFolderParams{
		Name:     "orphan",
		ParentID: &missing,
		OwnerID:  ownerID,
	})
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestGetFolderByID_NotFound(t *testing.T) {
	folder, err := testStore.GetFolderByID(context.Background(), 999999999)
	require.NoError(t, err)
	require.Nil(t, folder)
}

// Builds root -> mid -> leaf and checks the breadcrumb comes back ordered
// root first, the folder itself last.
func TestGetFolderPath(t *testing.T) {
	ownerID := createTestUser(t)
	rootID := createTestFolder(t, ownerID, "root", nil)
	midID := createTestFolder(t, ownerID, "mid", &rootID)
	leafID := createTestFolder(t, ownerID, "leaf", &midID)

	path, err := testStore.GetFolderPath(context.Background(), leafID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	require.Equal(t, rootID, path[0].ID)
	require.Equal(t, midID, path[1].ID)
	require.Equal(t, leafID, path[2].ID)

	rootPath, err := testStore.GetFolderPath(context.Background(), rootID)
	require.NoError(t, err)
	require.Len(t, rootPath, 1)
	require.Equal(t, rootID, rootPath[0].ID)
}

func TestIsDescendantOf(t *testing.T) {
	ownerID := createTestUser(t)
	rootID := createTestFolder(t, ownerID, "root", nil)
	childID := createTestFolder(t, ownerID, "child", &rootID)
	grandchildID := createTestFolder(t, ownerID, "grandchild", &childID)
	siblingID := createTestFolder(t, ownerID, "sibling", nil)

	tests := []struct {
		name      string
		folder    int64
		candidate int64
		want      bool
	}{
		{"self", rootID, rootID, true},
		{"direct child", rootID, childID, true},
		{"grandchild", rootID, grandchildID, true},
		{"unrelated sibling", rootID, siblingID, false},
		{"reverse direction", childID, rootID, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := testStore.IsDescendantOf(context.Background(), tc.folder, tc.candidate)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestListDescendantFolderIDs(t *testing.T) {
	ownerID := createTestUser(t)
	rootID := createTestFolder(t, ownerID, "root", nil)
	childID := createTestFolder(t, ownerID, "child", &rootID)
	grandchildID := createTestFolder(t, ownerID, "grandchild", &childID)
	createTestFolder(t, ownerID, "outside", nil)

	ids, err := testStore.ListDescendantFolderIDs(context.Background(), rootID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{rootID, childID, grandchildID}, ids)
}

// Deleting folder B inside tree A -> B -> C must remove B and C with their
// files and engagement rows, while A and an unrelated tree X stay intact.
func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	ownerID := createTestUser(t)
	readerID := createTestUser(t)

	aID := createTestFolder(t, ownerID, "A", nil)
	bID := createTestFolder(t, ownerID, "B", &aID)
	cID := createTestFolder(t, ownerID, "C", &bID)
	xID := createTestFolder(t, ownerID, "X", nil)

	fileInA := createTestFile(t, aID, ownerID, "keep.pdf")
	fileInB := createTestFile(t, bID, ownerID, "gone_b.pdf")
	fileInC := createTestFile(t, cID, ownerID, "gone_c.pdf")
	fileInX := createTestFile(t, xID, ownerID, "keep_x.pdf")

	_, err := testStore.AddFavourite(ctx, readerID, "folder", bID)
	require.NoError(t, err)
	_, err = testStore.AddFavourite(ctx, readerID, "file", fileInC)
	require.NoError(t, err)
	_, err = testStore.AddFavourite(ctx, readerID, "file", fileInA)
	require.NoError(t, err)

	_, err = testStore.CreateComment(ctx, CreateCommentParams{
		Content: "nice notes", FileID: fileInB, UserID: readerID,
	})
	require.NoError(t, err)
	_, err = testStore.UpsertRating(ctx, fileInC, readerID, 5)
	require.NoError(t, err)

	subtree, err := testStore.CollectFolderSubtree(ctx, bID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{bID, cID}, subtree.FolderIDs)
	require.Equal(t, "B", subtree.RootName)
	require.Len(t, subtree.Files, 2)

	require.NoError(t, testStore.DeleteFolderTree(ctx, subtree, &ownerID))

	// B and C are gone, A and X survive.
	for id, wantGone := range map[int64]bool{aID: false, bID: true, cID: true, xID: false} {
		folder, err := testStore.GetFolderByID(ctx, id)
		require.NoError(t, err)
		if wantGone {
			require.Nil(t, folder)
		} else {
			require.NotNil(t, folder)
		}
	}

	for id, wantGone := range map[int64]bool{fileInA: false, fileInB: true, fileInC: true, fileInX: false} {
		file, err := testStore.GetFileByID(ctx, id)
		require.NoError(t, err)
		if wantGone {
			require.Nil(t, file)
		} else {
			require.NotNil(t, file)
		}
	}

	// Engagement rows pointing into the deleted subtree are purged; the
	// favourite of the surviving file remains.
	fav, err := testStore.GetFavourite(ctx, readerID, "folder", bID)
	require.NoError(t, err)
	require.Nil(t, fav)
	fav, err = testStore.GetFavourite(ctx, readerID, "file", fileInC)
	require.NoError(t, err)
	require.Nil(t, fav)
	fav, err = testStore.GetFavourite(ctx, readerID, "file", fileInA)
	require.NoError(t, err)
	require.NotNil(t, fav)

	// The activity entry keeps the folder's name, since the row is gone.
	var description string
	err = testStore.GetPool().QueryRow(ctx,
		`SELECT description FROM activity_logs WHERE action = 'folder_deleted' AND folder_id = $1`,
		bID).Scan(&description)
	require.NoError(t, err)
	require.Equal(t, "Deleted folder: B", description)
}

func TestCollectFolderSubtree_MissingFolder(t *testing.T) {
	_, err := testStore.CollectFolderSubtree(context.Background(), 999999999)
	require.ErrorIs(t, err, ErrFolderNotFound)
}

func TestUpdateFolder_OwnershipEnforced(t *testing.T) {
	ownerID := createTestUser(t)
	otherID := createTestUser(t)
	folderID := createTestFolder(t, ownerID, "mine", nil)

	ok, err := testStore.UpdateFolder(context.Background(), UpdateFolderParams{
		ID:      folderID,
		OwnerID: otherID,
		Name:    "hijacked",
	})
	require.NoError(t, err)
	require.False(t, ok)

	folder, err := testStore.GetFolderByID(context.Background(), folderID)
	require.NoError(t, err)
	require.Equal(t, "mine", folder.Name)
}

func TestShareTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	ownerID := createTestUser(t)
	folderID := createTestFolder(t, ownerID, "shared", nil)

	require.NoError(t, testStore.SetFolderShareToken(ctx, folderID, "tok_folders_123"))

	folder, err := testStore.GetFolderByShareToken(ctx, "tok_folders_123")
	require.NoError(t, err)
	require.NotNil(t, folder)
	require.Equal(t, folderID, folder.ID)

	require.NoError(t, testStore.ClearFolderShareToken(ctx, folderID))
	folder, err = testStore.GetFolderByShareToken(ctx, "tok_folders_123")
	require.NoError(t, err)
	require.Nil(t, folder)
}
