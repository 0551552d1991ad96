package folders

import (
	"github.com/Arnav55278/study-vault/internal/auth"
	"github.com/Arnav55278/study-vault/internal/models"
)

// Decision is the outcome of an access check on a folder.
type Decision int

const (
	// Allow grants the requester full read access to the folder.
	Allow Decision = iota
	// PasswordPrompt means the folder is reachable but the requester has to
	// supply its password first.
	PasswordPrompt
	// Deny hides the folder from the requester entirely.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case PasswordPrompt:
		return "password_prompt"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// Requester identifies who is asking. A nil Requester is an anonymous visitor.
type Requester struct {
	UserID int64
}

func (r *Requester) isOwner(f *models.Folder) bool {
	return r != nil && r.UserID == f.OwnerID
}

// Evaluate decides whether the requester may read the folder. The rules apply
// in order: a private folder is owner-only; a password-protected folder asks
// non-owners for its password unless their session already unlocked this
// folder id; everything else is allowed. The owner never sees the prompt.
func Evaluate(f *models.Folder, requester *Requester, unlocked bool) Decision {
	if !f.IsPublic {
		if requester.isOwner(f) {
			return Allow
		}
		return Deny
	}

	if f.HasPassword() && !requester.isOwner(f) {
		if unlocked {
			return Allow
		}
		return PasswordPrompt
	}

	return Allow
}

// CheckPassword verifies a submitted folder password against the stored hash.
// A folder without a password accepts anything, matching the original
// semantics of an unset password gate.
func CheckPassword(f *models.Folder, password string) bool {
	if !f.HasPassword() {
		return true
	}
	return auth.CheckPasswordHash(password, *f.PasswordHash)
}
