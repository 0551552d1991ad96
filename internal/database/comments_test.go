package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommentThreadDelete(t *testing.T) {
	ctx := context.Background()
	uploaderID := createTestUser(t)
	commenterID := createTestUser(t)
	folderID := createTestFolder(t, uploaderID, "discussed", nil)
	fileID := createTestFile(t, folderID, uploaderID, "discussed.pdf")

	top, err := testStore.CreateComment(ctx, CreateCommentParams{
		Content: "Great notes!",
		FileID:  fileID,
		UserID:  commenterID,
	})
	require.NoError(t, err)

	reply, err := testStore.CreateComment(ctx, CreateCommentParams{
		Content:  "Thanks",
		FileID:   fileID,
		UserID:   uploaderID,
		ParentID: &top.ID,
	})
	require.NoError(t, err)

	nested, err := testStore.CreateComment(ctx, CreateCommentParams{
		Content:  "You are welcome",
		FileID:   fileID,
		UserID:   commenterID,
		ParentID: &reply.ID,
	})
	require.NoError(t, err)

	other, err := testStore.CreateComment(ctx, CreateCommentParams{
		Content: "Unrelated thread",
		FileID:  fileID,
		UserID:  commenterID,
	})
	require.NoError(t, err)

	require.NoError(t, testStore.DeleteCommentWithReplies(ctx, top.ID))

	for _, id := range []int64{top.ID, reply.ID, nested.ID} {
		gone, err := testStore.GetCommentByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, gone)
	}

	survivor, err := testStore.GetCommentByID(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor)
}

func TestCreateComment_MissingFile(t *testing.T) {
	commenterID := createTestUser(t)
	_, err := testStore.CreateComment(context.Background(), CreateCommentParams{
		Content: "Ghost",
		FileID:  999999999,
		UserID:  commenterID,
	})
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestUpdateComment_AuthorOnly(t *testing.T) {
	ctx := context.Background()
	uploaderID := createTestUser(t)
	authorID := createTestUser(t)
	intruderID := createTestUser(t)
	folderID := createTestFolder(t, uploaderID, "edited", nil)
	fileID := createTestFile(t, folderID, uploaderID, "edited.pdf")

	comment, err := testStore.CreateComment(ctx, CreateCommentParams{
		Content: "Original",
		FileID:  fileID,
		UserID:  authorID,
	})
	require.NoError(t, err)

	ok, err := testStore.UpdateComment(ctx, comment.ID, intruderID, "Hijacked")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = testStore.UpdateComment(ctx, comment.ID, authorID, "Revised")
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := testStore.GetCommentByID(ctx, comment.ID)
	require.NoError(t, err)
	require.Equal(t, "Revised", updated.Content)
	require.True(t, updated.IsEdited)
}

func TestGetOrCreateTag_Idempotent(t *testing.T) {
	ctx := context.Background()

	first, err := testStore.GetOrCreateTag(ctx, "Quantum Physics", "quantum-physics")
	require.NoError(t, err)
	second, err := testStore.GetOrCreateTag(ctx, "quantum physics", "quantum-physics")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "same slug must resolve to one tag")
	require.Equal(t, "Quantum Physics", second.Name, "the first spelling wins")
}

func TestSetFileTags_Replaces(t *testing.T) {
	ctx := context.Background()
	uploaderID := createTestUser(t)
	folderID := createTestFolder(t, uploaderID, "tagged", nil)
	fileID := createTestFile(t, folderID, uploaderID, "tagged.pdf")

	alpha, err := testStore.GetOrCreateTag(ctx, "Alpha", "alpha")
	require.NoError(t, err)
	beta, err := testStore.GetOrCreateTag(ctx, "Beta", "beta")
	require.NoError(t, err)

	require.NoError(t, testStore.SetFileTags(ctx, fileID, []int64{alpha.ID}))
	tags, err := testStore.ListTagsForFile(ctx, fileID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "alpha", tags[0].Slug)

	require.NoError(t, testStore.SetFileTags(ctx, fileID, []int64{beta.ID}))
	tags, err = testStore.ListTagsForFile(ctx, fileID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "beta", tags[0].Slug)
}
