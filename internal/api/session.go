package api

import (
	"fmt"
	"net/http"
)

const unlockSessionName = "folder_access"

// Folder unlocks live in a cookie session keyed by folder id, so entering one
// folder's password never opens a sibling. The unlock survives until the
// browser session ends.

func unlockKey(folderID int64) string {
	return fmt.Sprintf("folder_%d", folderID)
}

func (s *Server) isFolderUnlocked(r *http.Request, folderID int64) bool {
	session, err := s.cookies.Get(r, unlockSessionName)
	if err != nil {
		return false
	}
	unlocked, ok := session.Values[unlockKey(folderID)].(bool)
	return ok && unlocked
}

func (s *Server) markFolderUnlocked(w http.ResponseWriter, r *http.Request, folderID int64) error {
	session, _ := s.cookies.Get(r, unlockSessionName)
	session.Values[unlockKey(folderID)] = true
	return session.Save(r, w)
}
