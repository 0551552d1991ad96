package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Arnav55278/study-vault/internal/database"
)

type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

// @Summary      Comment on a file
// @Description  Adds a comment, optionally as a reply to another comment on the same file. The content is sanitized before storing. The uploader gets a notification.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        fileId                path  int                   true  "File ID"
// @Param        createCommentRequest  body  CreateCommentRequest  true  "Comment"
// @Success      201  {object}  models.Comment
// @Failure      400  {string}  string "Empty comment or bad parent"
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId}/comments [post]
func (s *Server) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	fileID, err := urlParamInt64(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		http.Error(w, "Comment cannot be empty", http.StatusBadRequest)
		return
	}

	file, err := s.store.GetFileByID(r.Context(), fileID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if file == nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	allowed, err := s.canAccessFile(r, file)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !allowed {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	if req.ParentID != nil {
		parent, err := s.store.GetCommentByID(r.Context(), *req.ParentID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if parent == nil || parent.FileID != file.ID {
			http.Error(w, "Parent comment does not belong to this file", http.StatusBadRequest)
			return
		}
	}

	comment, err := s.store.CreateComment(r.Context(), database.CreateCommentParams{
		Content:  content,
		FileID:   file.ID,
		UserID:   claims.UserID,
		ParentID: req.ParentID,
	})
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to create comment: %v", err)
		http.Error(w, "Failed to create comment", http.StatusInternalServerError)
		return
	}

	if claims.UserID != file.UploadedBy {
		link := fmt.Sprintf("/files/%d", file.ID)
		if _, err := s.store.CreateNotification(r.Context(), database.CreateNotificationParams{
			UserID:  file.UploadedBy,
			Title:   "New comment",
			Message: fmt.Sprintf("%s commented on %s", claims.Username, file.Filename),
			Link:    &link,
			Icon:    "bi-chat",
			Type:    "comment",
		}); err != nil {
			log.Printf("WARN: Failed to notify uploader of file %d: %v", file.ID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// @Summary      Edit a comment
// @Description  Edits the author's own comment and marks it as edited.
// @Tags         comments
// @Accept       json
// @Security     BearerAuth
// @Param        commentId             path  int                   true  "Comment ID"
// @Param        updateCommentRequest  body  UpdateCommentRequest  true  "New content"
// @Success      204  {null}    nil "Edited"
// @Failure      400  {string}  string "Empty comment"
// @Failure      404  {string}  string "Comment not found"
// @Router       /comments/{commentId} [put]
func (s *Server) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	commentID, err := urlParamInt64(r, "commentId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		http.Error(w, "Comment cannot be empty", http.StatusBadRequest)
		return
	}

	ok, err := s.store.UpdateComment(r.Context(), commentID, claims.UserID, content)
	if err != nil {
		http.Error(w, "Failed to update comment", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Delete a comment
// @Description  Removes a comment and its whole reply thread. Allowed for the comment's author, the file's uploader and admins.
// @Tags         comments
// @Security     BearerAuth
// @Param        commentId  path  int  true  "Comment ID"
// @Success      204  {null}    nil "Deleted"
// @Failure      404  {string}  string "Comment not found"
// @Router       /comments/{commentId} [delete]
func (s *Server) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	commentID, err := urlParamInt64(r, "commentId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := s.store.GetCommentByID(r.Context(), commentID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if comment == nil {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}

	if comment.UserID != claims.UserID && !claims.IsAdmin {
		file, err := s.store.GetFileByID(r.Context(), comment.FileID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if file == nil || file.UploadedBy != claims.UserID {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
	}

	if err := s.store.DeleteCommentWithReplies(r.Context(), comment.ID); err != nil {
		http.Error(w, "Failed to delete comment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
