package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Arnav55278/study-vault/internal/database"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// @Summary      Get current user profile
// @Description  Retrieves the full profile of the currently authenticated user, including upload and storage aggregates.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}

	aggregates, err := s.store.GetUserAggregates(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve user stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"stats": aggregates,
	})
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
	Instagram *string `json:"instagram"`
	Twitter   *string `json:"twitter"`
	YouTube   *string `json:"youtube"`
}

// @Summary      Update profile
// @Description  Updates the editable profile fields of the logged-in user. The bio is sanitized before storing.
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        updateProfileRequest  body  UpdateProfileRequest  true  "Profile fields"
// @Success      204  {null}    nil "No Content"
// @Failure      400  {string}  string "Invalid request body"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [put]
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Bio != nil {
		clean := s.sanitizer.Sanitize(*req.Bio)
		req.Bio = &clean
	}

	err := s.store.UpdateProfile(r.Context(), database.UpdateProfileParams{
		UserID:    claims.UserID,
		FullName:  req.FullName,
		Bio:       req.Bio,
		Location:  req.Location,
		Website:   req.Website,
		Instagram: req.Instagram,
		Twitter:   req.Twitter,
		YouTube:   req.YouTube,
	})
	if err != nil {
		log.Printf("ERROR: Failed to update profile for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Upload avatar
// @Description  Replaces the avatar of the logged-in user. Accepts png/jpg/webp up to 5 MB.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200  {object}  map[string]string
// @Failure      400  {string}  string "Invalid avatar file"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me/avatar [post]
func (s *Server) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		http.Error(w, "Avatar too large", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		http.Error(w, "Unsupported avatar format", http.StatusBadRequest)
		return
	}

	avatarKey := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if _, err := s.avatars.Save(avatarKey, file); err != nil {
		http.Error(w, "Failed to save avatar", http.StatusInternalServerError)
		return
	}

	if err := s.store.UpdateUserAvatar(r.Context(), claims.UserID, avatarKey); err != nil {
		http.Error(w, "Failed to update avatar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"avatar": avatarKey})
}

// @Summary      Get a public profile
// @Description  Retrieves the public profile of any user by username, together with their public folders and aggregates.
// @Tags         users
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {string}  string "User not found"
// @Router       /users/{username} [get]
func (s *Server) GetPublicProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !user.IsActive {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	publicFolders, err := s.store.ListPublicFoldersByOwner(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	aggregates, err := s.store.GetUserAggregates(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Strip contact details from the public view.
	user.Email = ""

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"folders": publicFolders,
		"stats":   aggregates,
	})
}

// @Summary      Get download history
// @Description  Lists the files the logged-in user downloaded, most recent first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.DownloadRecord
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me/downloads [get]
func (s *Server) GetDownloadHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	limit, offset := parsePagination(r, 25)

	records, err := s.store.ListDownloadHistory(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to retrieve download history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// @Summary      List own files
// @Description  Lists every file the logged-in user has uploaded.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.File
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me/files [get]
func (s *Server) ListOwnFilesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	limit, offset := parsePagination(r, 25)

	files, err := s.store.ListFilesByUploader(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}
