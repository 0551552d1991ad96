package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Share links carry an unguessable token that makes a folder reachable
// regardless of its visibility; the password gate still applies, so a locked
// folder asks the link's visitor for its password like any other.

// @Summary      Create or return a folder share link
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Param        folderId  path  int  true  "Folder ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {string}  string "Folder not found"
// @Router       /folders/{folderId}/share [post]
func (s *Server) ShareFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	folderID, err := urlParamInt64(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	folder, err := s.store.GetFolderByID(r.Context(), folderID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if folder == nil || folder.OwnerID != claims.UserID {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}

	token := folder.ShareToken
	if token == nil {
		newToken, err := newShareToken()
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if err := s.store.SetFolderShareToken(r.Context(), folder.ID, newToken); err != nil {
			log.Printf("ERROR: Failed to store share token for folder %d: %v", folder.ID, err)
			http.Error(w, "Failed to create share link", http.StatusInternalServerError)
			return
		}
		token = &newToken
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"share_token": *token,
		"url":         fmt.Sprintf("%s/shared/folders/%s", s.config.AppHost, *token),
	})
}

// @Summary      Revoke a folder share link
// @Tags         shares
// @Security     BearerAuth
// @Param        folderId  path  int  true  "Folder ID"
// @Success      204  {null}    nil "Revoked"
// @Failure      404  {string}  string "Folder not found"
// @Router       /folders/{folderId}/share [delete]
func (s *Server) RevokeFolderShareHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	folderID, err := urlParamInt64(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	folder, err := s.store.GetFolderByID(r.Context(), folderID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if folder == nil || folder.OwnerID != claims.UserID {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}

	if err := s.store.ClearFolderShareToken(r.Context(), folder.ID); err != nil {
		http.Error(w, "Failed to revoke share link", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Open a shared folder
// @Description  Resolves a folder share token and returns the folder with its visible contents. A password-protected folder answers 403 until the visitor unlocks it.
// @Tags         shares
// @Produce      json
// @Param        token  path  string  true  "Share token"
// @Success      200  {object}  FolderViewResponse
// @Failure      403  {object}  map[string]interface{} "Password required"
// @Failure      404  {string}  string "Share link is invalid"
// @Router       /shared/folders/{token} [get]
func (s *Server) GetSharedFolderHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	folder, err := s.store.GetFolderByShareToken(r.Context(), token)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if folder == nil {
		http.Error(w, "Share link is invalid", http.StatusNotFound)
		return
	}

	claims := GetUserFromContext(r.Context())
	isOwner := claims != nil && claims.UserID == folder.OwnerID
	if folder.HasPassword() && !isOwner && !s.isFolderUnlocked(r, folder.ID) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"password_required": true,
			"folder_id":         folder.ID,
			"name":              folder.Name,
		})
		return
	}

	children, err := s.store.ListChildFolders(r.Context(), folder.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	files, err := s.store.ListFilesInFolder(r.Context(), folder.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.IncrementFolderViewCount(r.Context(), folder.ID); err != nil {
		log.Printf("WARN: Failed to bump view count for folder %d: %v", folder.ID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FolderViewResponse{
		Folder:   folder,
		Children: children,
		Files:    files,
	})
}

// @Summary      Create or return a file share link
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Param        fileId  path  int  true  "File ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId}/share [post]
func (s *Server) ShareFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	fileID, err := urlParamInt64(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := s.store.GetFileByID(r.Context(), fileID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if file == nil || file.UploadedBy != claims.UserID {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	token := file.ShareToken
	if token == nil {
		newToken, err := newShareToken()
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if err := s.store.SetFileShareToken(r.Context(), file.ID, newToken); err != nil {
			log.Printf("ERROR: Failed to store share token for file %d: %v", file.ID, err)
			http.Error(w, "Failed to create share link", http.StatusInternalServerError)
			return
		}
		token = &newToken
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"share_token": *token,
		"url":         fmt.Sprintf("%s/shared/files/%s", s.config.AppHost, *token),
	})
}

// @Summary      Download a shared file
// @Description  Resolves a file share token and streams the file as an attachment.
// @Tags         shares
// @Produce      octet-stream
// @Param        token  path  string  true  "Share token"
// @Success      200  {file}    file
// @Failure      404  {string}  string "Share link is invalid"
// @Router       /shared/files/{token} [get]
func (s *Server) GetSharedFileHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	file, err := s.store.GetFileByShareToken(r.Context(), token)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if file == nil {
		http.Error(w, "Share link is invalid", http.StatusNotFound)
		return
	}

	stream, err := s.uploads.Get(file.StoredFilename)
	if err != nil {
		http.Error(w, "File not found on storage", http.StatusInternalServerError)
		return
	}
	defer stream.Close()

	s.recordDownload(r, file)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if file.MimeType != nil && *file.MimeType != "" {
		w.Header().Set("Content-Type", *file.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", file.SizeBytes))

	io.Copy(w, stream)
}
