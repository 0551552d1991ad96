package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Arnav55278/study-vault/internal/auth"
	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/folders"
	"github.com/Arnav55278/study-vault/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateFolderRequest struct {
	Name        string  `json:"name" example:"Physics Notes"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parent_id"`
	CategoryID  *int64  `json:"category_id"`
	IsPublic    bool    `json:"is_public"`
	Password    *string `json:"password"`
	Subject     *string `json:"subject" example:"physics"`
	ClassLevel  *string `json:"class_level" example:"grade-11"`
}

func (r CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Length(4, 128)),
	)
}

// @Summary      Create a folder
// @Description  Creates a folder, optionally nested under a parent the user owns. A password may only be set on public folders.
// @Tags         folders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createFolderRequest  body      CreateFolderRequest  true  "Folder details"
// @Success      201  {object}  models.Folder
// @Failure      400  {string}  string "Validation failed or parent missing"
// @Failure      403  {string}  string "Parent belongs to another user"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /folders [post]
func (s *Server) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "Folder name cannot be empty", http.StatusBadRequest)
		return
	}

	if req.ParentID != nil {
		parent, err := s.store.GetFolderByID(r.Context(), *req.ParentID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if parent == nil {
			http.Error(w, "Parent folder does not exist", http.StatusBadRequest)
			return
		}
		if parent.OwnerID != claims.UserID {
			http.Error(w, "You can only create folders inside your own folders", http.StatusForbidden)
			return
		}
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		passwordHash = &hash
	}

	slug := slugify(req.Name)

	folder, err := s.store.CreateFolder(r.Context(), database.CreateFolderParams{
		Name:         req.Name,
		Slug:         &slug,
		Description:  req.Description,
		ParentID:     req.ParentID,
		OwnerID:      claims.UserID,
		CategoryID:   req.CategoryID,
		IsPublic:     req.IsPublic,
		PasswordHash: passwordHash,
		Subject:      req.Subject,
		ClassLevel:   req.ClassLevel,
	})
	if err != nil {
		if errors.Is(err, database.ErrParentNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to create folder: %v", err)
		http.Error(w, "Failed to create folder", http.StatusInternalServerError)
		return
	}

	if err := s.store.LogActivity(r.Context(), database.LogActivityParams{
		UserID:    &claims.UserID,
		Action:    "folder_created",
		FolderID:  &folder.ID,
		IPAddress: clientIP(r),
	}); err != nil {
		log.Printf("WARN: Failed to log folder creation: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(folder)
}

type FolderViewResponse struct {
	Folder     *models.Folder  `json:"folder"`
	Breadcrumb []models.Folder `json:"breadcrumb"`
	Children   []models.Folder `json:"children"`
	Files      []models.File   `json:"files"`
	IsOwner    bool            `json:"is_owner"`
}

// @Summary      Browse a folder
// @Description  Returns a folder with its breadcrumb, visible subfolders and files. Private folders are only visible to their owner; password-protected folders answer 403 until unlocked.
// @Tags         folders
// @Produce      json
// @Param        folderId  path  int  true  "Folder ID"
// @Success      200  {object}  FolderViewResponse
// @Failure      403  {object}  map[string]interface{} "Password required"
// @Failure      404  {string}  string "Folder not found"
// @Router       /folders/{folderId} [get]
func (s *Server) GetFolderHandler(w http.ResponseWriter, r *http.Request) {
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
	if folder == nil {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}

	claims := GetUserFromContext(r.Context())
	requester := requesterFromClaims(claims)

	switch folders.Evaluate(folder, requester, s.isFolderUnlocked(r, folder.ID)) {
	case folders.Deny:
		// A hidden folder looks exactly like a missing one.
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	case folders.PasswordPrompt:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"password_required": true,
			"folder_id":         folder.ID,
			"name":              folder.Name,
		})
		return
	}

	breadcrumb, err := s.store.GetFolderPath(r.Context(), folder.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	children, err := s.store.ListChildFolders(r.Context(), folder.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	isOwner := claims != nil && claims.UserID == folder.OwnerID
	if !isOwner {
		// Non-owners only see subfolders that would not be denied outright.
		visible := children[:0]
		for i := range children {
			child := &children[i]
			if folders.Evaluate(child, requester, s.isFolderUnlocked(r, child.ID)) != folders.Deny {
				visible = append(visible, *child)
			}
		}
		children = visible
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
		Folder:     folder,
		Breadcrumb: breadcrumb,
		Children:   children,
		Files:      files,
		IsOwner:    isOwner,
	})
}

type UnlockFolderRequest struct {
	Password string `json:"password"`
}

// @Summary      Unlock a password-protected folder
// @Description  Verifies the folder password and remembers the unlock in the visitor's cookie session. The unlock is scoped to this folder only.
// @Tags         folders
// @Accept       json
// @Param        folderId             path  int                  true  "Folder ID"
// @Param        unlockFolderRequest  body  UnlockFolderRequest  true  "Folder password"
// @Success      204  {null}    nil "Unlocked"
// @Failure      401  {string}  string "Wrong password"
// @Failure      404  {string}  string "Folder not found"
// @Router       /folders/{folderId}/unlock [post]
func (s *Server) UnlockFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID, err := urlParamInt64(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UnlockFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	folder, err := s.store.GetFolderByID(r.Context(), folderID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	// Unlockable means reachable: public, or private but shared by token.
	if folder == nil || (!folder.IsPublic && folder.ShareToken == nil) {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}

	if !folders.CheckPassword(folder, req.Password) {
		http.Error(w, "Wrong password", http.StatusUnauthorized)
		return
	}

	if err := s.markFolderUnlocked(w, r, folder.ID); err != nil {
		http.Error(w, "Failed to store unlock", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type UpdateFolderRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	ParentID     *int64  `json:"parent_id"`
	CategoryID   *int64  `json:"category_id"`
	IsPublic     bool    `json:"is_public"`
	Password     *string `json:"password"`
	KeepPassword bool    `json:"keep_password"`
	Subject      *string `json:"subject"`
	ClassLevel   *string `json:"class_level"`
}

// @Summary      Update a folder
// @Description  Rewrites a folder's properties. Moving a folder under itself or one of its descendants is rejected. Setting KeepPassword leaves the password gate untouched; otherwise the password field replaces or clears it.
// @Tags         folders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        folderId             path  int                  true  "Folder ID"
// @Param        updateFolderRequest  body  UpdateFolderRequest  true  "New folder properties"
// @Success      200  {object}  models.Folder
// @Failure      400  {string}  string "Validation failed"
// @Failure      403  {string}  string "Folder belongs to another user"
// @Failure      404  {string}  string "Folder not found"
// @Failure      409  {string}  string "Move would create a cycle"
// @Router       /folders/{folderId} [put]
func (s *Server) UpdateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	folderID, err := urlParamInt64(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "Folder name cannot be empty", http.StatusBadRequest)
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
		// A folder the requester could not see stays indistinguishable from a
		// missing one; a visible folder owned by someone else is a plain 403.
		if folders.Evaluate(folder, requesterFromClaims(claims), s.isFolderUnlocked(r, folder.ID)) == folders.Deny {
			http.Error(w, "Folder not found", http.StatusNotFound)
		} else {
			http.Error(w, "You do not own this folder", http.StatusForbidden)
		}
		return
	}

	if req.ParentID != nil {
		parent, err := s.store.GetFolderByID(r.Context(), *req.ParentID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if parent == nil || parent.OwnerID != claims.UserID {
			http.Error(w, "Parent folder does not exist", http.StatusBadRequest)
			return
		}

		isDescendant, err := s.store.IsDescendantOf(r.Context(), folder.ID, *req.ParentID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if isDescendant {
			http.Error(w, database.ErrFolderCycle.Error(), http.StatusConflict)
			return
		}
	}

	passwordHash := folder.PasswordHash
	if !req.KeepPassword {
		passwordHash = nil
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			passwordHash = &hash
		}
	}

	slug := slugify(req.Name)

	ok, err := s.store.UpdateFolder(r.Context(), database.UpdateFolderParams{
		ID:           folder.ID,
		OwnerID:      claims.UserID,
		Name:         req.Name,
		Slug:         &slug,
		Description:  req.Description,
		ParentID:     req.ParentID,
		CategoryID:   req.CategoryID,
		IsPublic:     req.IsPublic,
		PasswordHash: passwordHash,
		Subject:      req.Subject,
		ClassLevel:   req.ClassLevel,
	})
	if err != nil {
		if errors.Is(err, database.ErrParentNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to update folder %d: %v", folder.ID, err)
		http.Error(w, "Failed to update folder", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}

	updated, err := s.store.GetFolderByID(r.Context(), folder.ID)
	if err != nil || updated == nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// @Summary      Delete a folder and everything under it
// @Description  Removes the folder, all of its descendant folders, their files, and the engagement rows (comments, ratings, favourites) that point at them. Stored artifacts are removed first, best effort; the database rows go in one transaction.
// @Tags         folders
// @Security     BearerAuth
// @Param        folderId  path  int  true  "Folder ID"
// @Success      204  {null}    nil "Deleted"
// @Failure      403  {string}  string "Folder belongs to another user"
// @Failure      404  {string}  string "Folder not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /folders/{folderId} [delete]
func (s *Server) DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
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
	if folder == nil {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}
	if folder.OwnerID != claims.UserID && !claims.IsAdmin {
		if folders.Evaluate(folder, requesterFromClaims(claims), s.isFolderUnlocked(r, folder.ID)) == folders.Deny {
			http.Error(w, "Folder not found", http.StatusNotFound)
		} else {
			http.Error(w, "You do not own this folder", http.StatusForbidden)
		}
		return
	}

	subtree, err := s.store.CollectFolderSubtree(r.Context(), folder.ID)
	if err != nil {
		http.Error(w, "Failed to collect folder contents", http.StatusInternalServerError)
		return
	}

	// Artifacts go first. A failure here only leaks disk space; the rows are
	// still removed below.
	for _, f := range subtree.Files {
		if err := s.uploads.Delete(f.StoredFilename); err != nil {
			log.Printf("WARN: Failed to remove artifact %s: %v", f.StoredFilename, err)
		}
	}

	if err := s.store.DeleteFolderTree(r.Context(), subtree, &claims.UserID); err != nil {
		log.Printf("ERROR: Cascade delete of folder %d failed: %v", folder.ID, err)
		http.Error(w, "Failed to delete folder", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Get own folder tree
// @Description  Returns the logged-in user's folders as a nested tree for the sidebar.
// @Tags         folders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   folders.TreeNode
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me/folders/tree [get]
func (s *Server) GetFolderTreeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	owned, err := s.store.ListFoldersByOwner(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folders.BuildTree(owned))
}

// @Summary      List own folders
// @Tags         folders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Folder
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me/folders [get]
func (s *Server) ListOwnFoldersHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	owned, err := s.store.ListFoldersByOwner(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(owned)
}
