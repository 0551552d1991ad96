package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Arnav55278/study-vault/internal/database"
)

type RateFileRequest struct {
	Rating int `json:"rating" example:"4"`
}

// @Summary      Rate a file
// @Description  Records a 1-5 star rating. Rating the same file again replaces the earlier rating.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        fileId           path  int              true  "File ID"
// @Param        rateFileRequest  body  RateFileRequest  true  "Stars"
// @Success      200  {object}  database.RatingSummary
// @Failure      400  {string}  string "Rating must be between 1 and 5"
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId}/rating [put]
func (s *Server) RateFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	fileID, err := urlParamInt64(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req RateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
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

	previous, err := s.store.GetUserRating(r.Context(), file.ID, claims.UserID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := s.store.UpsertRating(r.Context(), file.ID, claims.UserID, req.Rating); err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to store rating: %v", err)
		http.Error(w, "Failed to store rating", http.StatusInternalServerError)
		return
	}

	// Only the first rating of a file triggers a notification.
	if previous == nil && claims.UserID != file.UploadedBy {
		link := fmt.Sprintf("/files/%d", file.ID)
		if _, err := s.store.CreateNotification(r.Context(), database.CreateNotificationParams{
			UserID:  file.UploadedBy,
			Title:   "New rating",
			Message: fmt.Sprintf("%s rated %s %d/5", claims.Username, file.Filename, req.Rating),
			Link:    &link,
			Icon:    "bi-star",
			Type:    "rating",
		}); err != nil {
			log.Printf("WARN: Failed to notify uploader of file %d: %v", file.ID, err)
		}
	}

	summary, err := s.store.GetRatingSummary(r.Context(), file.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// @Summary      Remove own rating
// @Tags         ratings
// @Security     BearerAuth
// @Param        fileId  path  int  true  "File ID"
// @Success      204  {null}    nil "Removed"
// @Failure      404  {string}  string "No rating to remove"
// @Router       /files/{fileId}/rating [delete]
func (s *Server) DeleteRatingHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	fileID, err := urlParamInt64(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := s.store.DeleteRating(r.Context(), fileID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to remove rating", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "No rating to remove", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
