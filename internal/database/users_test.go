package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()

	user, err := testStore.CreateUser(ctx, CreateUserParams{
		Username:     "dup_user",
		Email:        "dup_user@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	_, err = testStore.CreateUser(ctx, CreateUserParams{
		Username:     "dup_user",
		Email:        "other@example.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := createTestUser(t)

	err := testStore.CreateSession(ctx, CreateSessionParams{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: "refresh_token_alive",
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	user, err := testStore.GetUserByRefreshToken(ctx, "refresh_token_alive")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, userID, user.ID)

	// An expired session does not resolve.
	err = testStore.CreateSession(ctx, CreateSessionParams{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: "refresh_token_expired",
		ExpiresAt:    time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	user, err = testStore.GetUserByRefreshToken(ctx, "refresh_token_expired")
	require.NoError(t, err)
	require.Nil(t, user)

	require.NoError(t, testStore.DeleteSessionByRefreshToken(ctx, "refresh_token_alive"))
	user, err = testStore.GetUserByRefreshToken(ctx, "refresh_token_alive")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestResetTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := createTestUser(t)

	require.NoError(t, testStore.SetResetToken(ctx, userID, "reset_tok_1", time.Now().Add(time.Hour)))

	user, err := testStore.GetUserByResetToken(ctx, "reset_tok_1")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, userID, user.ID)

	require.NoError(t, testStore.ClearResetToken(ctx, userID))
	user, err = testStore.GetUserByResetToken(ctx, "reset_tok_1")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestGetUserAggregates(t *testing.T) {
	ctx := context.Background()
	userID := createTestUser(t)
	folderID := createTestFolder(t, userID, "agg", nil)
	createTestFile(t, folderID, userID, "a.pdf")
	createTestFile(t, folderID, userID, "b.pdf")

	agg, err := testStore.GetUserAggregates(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(2), agg.TotalUploads)
	require.Equal(t, int64(1), agg.TotalFolders)
	require.Equal(t, int64(2468), agg.StorageUsedBytes)
}
