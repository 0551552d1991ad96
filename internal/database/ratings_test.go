package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsertRating_ReplacesEarlier(t *testing.T) {
	ctx := context.Background()
	uploaderID := createTestUser(t)
	raterID := createTestUser(t)
	folderID := createTestFolder(t, uploaderID, "rated", nil)
	fileID := createTestFile(t, folderID, uploaderID, "rated.pdf")

	first, err := testStore.UpsertRating(ctx, fileID, raterID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, first.Rating)

	second, err := testStore.UpsertRating(ctx, fileID, raterID, 5)
	require.NoError(t, err)
	require.Equal(t, 5, second.Rating)
	require.Equal(t, first.ID, second.ID, "re-rating must update the same row")

	summary, err := testStore.GetRatingSummary(ctx, fileID)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.Count)
	require.InDelta(t, 5.0, summary.Average, 0.001)
}

func TestUpsertRating_MissingFile(t *testing.T) {
	raterID := createTestUser(t)
	_, err := testStore.UpsertRating(context.Background(), 999999999, raterID, 3)
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestGetRatingSummary_Empty(t *testing.T) {
	uploaderID := createTestUser(t)
	folderID := createTestFolder(t, uploaderID, "unrated", nil)
	fileID := createTestFile(t, folderID, uploaderID, "unrated.pdf")

	summary, err := testStore.GetRatingSummary(context.Background(), fileID)
	require.NoError(t, err)
	require.Equal(t, int64(0), summary.Count)
	require.InDelta(t, 0.0, summary.Average, 0.001)
}
