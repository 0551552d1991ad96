package folders

import (
	"testing"

	"github.com/Arnav55278/study-vault/internal/auth"
	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)

	private := &models.Folder{ID: 1, OwnerID: 7}
	public := &models.Folder{ID: 2, OwnerID: 7, IsPublic: true}
	locked := &models.Folder{ID: 3, OwnerID: 7, IsPublic: true, PasswordHash: &hash}

	owner := &Requester{UserID: 7}
	visitor := &Requester{UserID: 8}

	tests := []struct {
		name      string
		folder    *models.Folder
		requester *Requester
		unlocked  bool
		want      Decision
	}{
		{"private owner", private, owner, false, Allow},
		{"private other user", private, visitor, false, Deny},
		{"private anonymous", private, nil, false, Deny},
		{"public anyone", public, nil, false, Allow},
		{"public other user", public, visitor, false, Allow},
		{"locked owner skips prompt", locked, owner, false, Allow},
		{"locked other user", locked, visitor, false, PasswordPrompt},
		{"locked anonymous", locked, nil, false, PasswordPrompt},
		{"locked unlocked session", locked, visitor, true, Allow},
		{"locked anonymous unlocked", locked, nil, true, Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Evaluate(tt.folder, tt.requester, tt.unlocked))
		})
	}
}

func TestEvaluate_UnlockDoesNotOpenPrivate(t *testing.T) {
	// An unlock only clears the password gate; it never turns a private
	// folder visible.
	private := &models.Folder{ID: 1, OwnerID: 7}
	require.Equal(t, Deny, Evaluate(private, &Requester{UserID: 8}, true))
}

func TestCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	locked := &models.Folder{PasswordHash: &hash}

	require.True(t, CheckPassword(locked, "hunter2"))
	require.False(t, CheckPassword(locked, "wrong"))
}

func TestCheckPassword_NoGate(t *testing.T) {
	empty := ""
	require.True(t, CheckPassword(&models.Folder{}, "anything"))
	require.True(t, CheckPassword(&models.Folder{PasswordHash: &empty}, "anything"))
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "allow", Allow.String())
	require.Equal(t, "password_prompt", PasswordPrompt.String())
	require.Equal(t, "deny", Deny.String())
}
