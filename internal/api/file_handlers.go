package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/folders"
	"github.com/Arnav55278/study-vault/internal/models"

	"github.com/google/uuid"
)

const maxUploadBytes = 1 << 30

// canAccessFile runs the folder access check for the folder containing the
// file. Files inherit visibility from their folder.
func (s *Server) canAccessFile(r *http.Request, file *models.File) (bool, error) {
	folder, err := s.store.GetFolderByID(r.Context(), file.FolderID)
	if err != nil {
		return false, err
	}
	if folder == nil {
		return false, nil
	}

	claims := GetUserFromContext(r.Context())
	decision := folders.Evaluate(folder, requesterFromClaims(claims), s.isFolderUnlocked(r, folder.ID))
	return decision == folders.Allow, nil
}

// @Summary      Upload a file
// @Description  Stores a file in one of the user's folders. Accepts an optional description and a comma-separated tag list.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file         formData  file    true   "The file"
// @Param        folder_id    formData  int     true   "Destination folder"
// @Param        description  formData  string  false  "Description"
// @Param        tags         formData  string  false  "Comma-separated tags"
// @Success      201  {object}  models.File
// @Failure      400  {string}  string "Bad upload"
// @Failure      403  {string}  string "Folder belongs to another user"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /files [post]
func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if _, ok := fileTypeByExt[ext]; !ok {
		http.Error(w, "File type is not allowed", http.StatusBadRequest)
		return
	}

	folderID, err := parseFormInt64(r, "folder_id")
	if err != nil {
		http.Error(w, "folder_id is required", http.StatusBadRequest)
		return
	}

	folder, err := s.store.GetFolderByID(r.Context(), folderID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if folder == nil {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}
	if folder.OwnerID != claims.UserID {
		http.Error(w, "You can only upload into your own folders", http.StatusForbidden)
		return
	}

	storedFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	written, err := s.uploads.Save(storedFilename, file)
	if err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	mimeType := handler.Header.Get("Content-Type")

	created, err := s.store.CreateFile(r.Context(), database.CreateFileParams{
		Filename:       handler.Filename,
		StoredFilename: storedFilename,
		FileType:       fileTypeFromName(handler.Filename),
		MimeType:       optionalString(mimeType),
		Description:    optionalString(r.FormValue("description")),
		FolderID:       folder.ID,
		UploadedBy:     claims.UserID,
		SizeBytes:      written,
	})
	if err != nil {
		// Keep the disk consistent with the database.
		if rmErr := s.uploads.Delete(storedFilename); rmErr != nil {
			log.Printf("WARN: Failed to remove orphaned artifact %s: %v", storedFilename, rmErr)
		}
		log.Printf("ERROR: Failed to create file record: %v", err)
		http.Error(w, "Failed to create file record", http.StatusInternalServerError)
		return
	}

	if rawTags := r.FormValue("tags"); rawTags != "" {
		if err := s.applyTags(r, created.ID, rawTags); err != nil {
			log.Printf("WARN: Failed to tag file %d: %v", created.ID, err)
		}
	}

	if err := s.store.LogActivity(r.Context(), database.LogActivityParams{
		UserID:    &claims.UserID,
		Action:    "file_uploaded",
		FileID:    &created.ID,
		FolderID:  &folder.ID,
		IPAddress: clientIP(r),
	}); err != nil {
		log.Printf("WARN: Failed to log upload: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (s *Server) applyTags(r *http.Request, fileID int64, rawTags string) error {
	var tagIDs []int64
	for _, name := range parseTagNames(rawTags) {
		tag, err := s.store.GetOrCreateTag(r.Context(), name, slugify(name))
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	return s.store.SetFileTags(r.Context(), fileID, tagIDs)
}

// @Summary      Get file details
// @Description  Returns a file's metadata together with its tags, rating summary and comments.
// @Tags         files
// @Produce      json
// @Param        fileId  path  int  true  "File ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId} [get]
func (s *Server) GetFileHandler(w http.ResponseWriter, r *http.Request) {
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

	tags, err := s.store.ListTagsForFile(r.Context(), file.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	ratingSummary, err := s.store.GetRatingSummary(r.Context(), file.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	comments, err := s.store.ListCommentsForFile(r.Context(), file.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.IncrementFileViewCount(r.Context(), file.ID); err != nil {
		log.Printf("WARN: Failed to bump view count for file %d: %v", file.ID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"file":     file,
		"tags":     tags,
		"rating":   ratingSummary,
		"comments": comments,
	})
}

// @Summary      Download a file
// @Description  Streams the file as an attachment, records the download and notifies the uploader.
// @Tags         files
// @Produce      octet-stream
// @Param        fileId  path  int  true  "File ID"
// @Success      200  {file}    file
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId}/download [get]
func (s *Server) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, false)
}

// @Summary      Preview a file
// @Description  Streams the file inline when its type can be rendered by the browser.
// @Tags         files
// @Param        fileId  path  int  true  "File ID"
// @Success      200  {file}    file
// @Failure      404  {string}  string "File not found"
// @Failure      415  {string}  string "File type cannot be previewed"
// @Router       /files/{fileId}/preview [get]
func (s *Server) PreviewFileHandler(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, true)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, inline bool) {
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

	if inline && !previewableTypes[file.FileType] {
		http.Error(w, "File type cannot be previewed", http.StatusUnsupportedMediaType)
		return
	}

	stream, err := s.uploads.Get(file.StoredFilename)
	if err != nil {
		http.Error(w, "File not found on storage", http.StatusInternalServerError)
		return
	}
	defer stream.Close()

	if !inline {
		s.recordDownload(r, file)
	}

	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Filename))
	if file.MimeType != nil && *file.MimeType != "" {
		w.Header().Set("Content-Type", *file.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", file.SizeBytes))

	io.Copy(w, stream)
}

func (s *Server) recordDownload(r *http.Request, file *models.File) {
	claims := GetUserFromContext(r.Context())

	var userID *int64
	if claims != nil {
		userID = &claims.UserID
	}

	if err := s.store.IncrementFileDownloadCount(r.Context(), file.ID); err != nil {
		log.Printf("WARN: Failed to bump download count for file %d: %v", file.ID, err)
	}
	if err := s.store.RecordDownload(r.Context(), userID, file.ID, clientIP(r)); err != nil {
		log.Printf("WARN: Failed to record download of file %d: %v", file.ID, err)
	}

	// Do not notify uploaders about their own downloads.
	if claims == nil || claims.UserID == file.UploadedBy {
		return
	}

	link := fmt.Sprintf("/files/%d", file.ID)
	if _, err := s.store.CreateNotification(r.Context(), database.CreateNotificationParams{
		UserID:  file.UploadedBy,
		Title:   "File downloaded",
		Message: fmt.Sprintf("%s downloaded %s", claims.Username, file.Filename),
		Link:    &link,
		Icon:    "bi-download",
		Type:    "download",
	}); err != nil {
		log.Printf("WARN: Failed to notify uploader of file %d: %v", file.ID, err)
	}
}

type UpdateFileRequest struct {
	Filename    string  `json:"filename"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

// @Summary      Edit file metadata
// @Description  Renames a file, updates its description and optionally replaces its tag list.
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        fileId             path  int                true  "File ID"
// @Param        updateFileRequest  body  UpdateFileRequest  true  "New metadata"
// @Success      200  {object}  models.File
// @Failure      400  {string}  string "Validation failed"
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId} [put]
func (s *Server) UpdateFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	fileID, err := urlParamInt64(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		http.Error(w, "Filename cannot be empty", http.StatusBadRequest)
		return
	}

	file, err := s.store.GetFileByID(r.Context(), fileID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if file == nil || (file.UploadedBy != claims.UserID && !claims.IsAdmin) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	ok, err := s.store.UpdateFile(r.Context(), database.UpdateFileParams{
		ID:          file.ID,
		Filename:    req.Filename,
		Description: req.Description,
	})
	if err != nil || !ok {
		http.Error(w, "Failed to update file", http.StatusInternalServerError)
		return
	}

	if req.Tags != nil {
		if err := s.applyTags(r, file.ID, *req.Tags); err != nil {
			log.Printf("WARN: Failed to retag file %d: %v", file.ID, err)
		}
	}

	updated, err := s.store.GetFileByID(r.Context(), file.ID)
	if err != nil || updated == nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// @Summary      Delete a file
// @Description  Removes the file's artifact from storage, then its row together with the comments, ratings and favourites pointing at it.
// @Tags         files
// @Security     BearerAuth
// @Param        fileId  path  int  true  "File ID"
// @Success      204  {null}    nil "Deleted"
// @Failure      404  {string}  string "File not found"
// @Router       /files/{fileId} [delete]
func (s *Server) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
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
	if file == nil || (file.UploadedBy != claims.UserID && !claims.IsAdmin) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	if err := s.uploads.Delete(file.StoredFilename); err != nil {
		log.Printf("WARN: Failed to remove artifact %s: %v", file.StoredFilename, err)
	}

	if err := s.store.DeleteFileDeep(r.Context(), file, &claims.UserID); err != nil {
		log.Printf("ERROR: Failed to delete file %d: %v", file.ID, err)
		http.Error(w, "Failed to delete file", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
