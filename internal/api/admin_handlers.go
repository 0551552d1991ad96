package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Arnav55278/study-vault/internal/database"
)

// @Summary      List users (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q     query  string  false  "Search by username or e-mail"
// @Param        page  query  int     false  "Page number"
// @Success      200  {array}   models.User
// @Failure      403  {string}  string "Admin privileges required"
// @Router       /admin/users [get]
func (s *Server) AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 25)

	users, err := s.store.ListUsers(r.Context(), r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

type AdminUpdateUserRequest struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FullName   *string `json:"full_name"`
	IsActive   bool    `json:"is_active"`
	IsAdmin    bool    `json:"is_admin"`
	IsVerified bool    `json:"is_verified"`
}

// @Summary      Update a user (admin)
// @Description  Rewrites account fields including the active, admin and verified flags. Admins cannot strip their own admin flag.
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        userId                  path  int                     true  "User ID"
// @Param        adminUpdateUserRequest  body  AdminUpdateUserRequest  true  "Account fields"
// @Success      204  {null}    nil "Updated"
// @Failure      400  {string}  string "Cannot demote yourself"
// @Failure      409  {string}  string "Username or email already taken"
// @Router       /admin/users/{userId} [put]
func (s *Server) AdminUpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	userID, err := urlParamInt64(r, "userId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if userID == claims.UserID && !req.IsAdmin {
		http.Error(w, "Cannot remove your own admin privileges", http.StatusBadRequest)
		return
	}

	err = s.store.UpdateUserAdmin(r.Context(), database.UpdateUserAdminParams{
		UserID:     userID,
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		IsActive:   req.IsActive,
		IsAdmin:    req.IsAdmin,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      List reports (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {array}   models.Report
// @Failure      403  {string}  string "Admin privileges required"
// @Router       /admin/reports [get]
func (s *Server) AdminListReportsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 25)

	reports, err := s.store.ListReports(r.Context(), optionalString(r.URL.Query().Get("status")), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

type ResolveReportRequest struct {
	Status     string  `json:"status" example:"resolved"`
	AdminNotes *string `json:"admin_notes"`
}

// @Summary      Resolve a report (admin)
// @Description  Moves a report into a terminal status and notifies the reporter.
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        reportId              path  int                   true  "Report ID"
// @Param        resolveReportRequest  body  ResolveReportRequest  true  "Resolution"
// @Success      204  {null}    nil "Resolved"
// @Failure      400  {string}  string "Unknown status"
// @Failure      404  {string}  string "Report not found"
// @Router       /admin/reports/{reportId} [put]
func (s *Server) AdminResolveReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID, err := urlParamInt64(r, "reportId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status != "resolved" && req.Status != "dismissed" {
		http.Error(w, "Status must be resolved or dismissed", http.StatusBadRequest)
		return
	}

	report, err := s.store.GetReportByID(r.Context(), reportID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	ok, err := s.store.ResolveReport(r.Context(), reportID, req.Status, req.AdminNotes)
	if err != nil || !ok {
		http.Error(w, "Failed to resolve report", http.StatusInternalServerError)
		return
	}

	if _, err := s.store.CreateNotification(r.Context(), database.CreateNotificationParams{
		UserID:  report.ReporterID,
		Title:   "Report reviewed",
		Message: "Your report has been " + req.Status,
		Icon:    "bi-shield-check",
		Type:    "moderation",
	}); err != nil {
		log.Printf("WARN: Failed to notify reporter %d: %v", report.ReporterID, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

type FeatureFolderRequest struct {
	Featured bool `json:"featured"`
}

// @Summary      Feature a folder (admin)
// @Description  Marks a public folder as featured on the landing page, or clears the flag.
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        folderId              path  int                   true  "Folder ID"
// @Param        featureFolderRequest  body  FeatureFolderRequest  true  "Flag"
// @Success      204  {null}    nil "Updated"
// @Failure      404  {string}  string "Folder not found or not public"
// @Router       /admin/folders/{folderId}/feature [put]
func (s *Server) AdminFeatureFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID, err := urlParamInt64(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req FeatureFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ok, err := s.store.SetFolderFeatured(r.Context(), folderID, req.Featured)
	if err != nil {
		http.Error(w, "Failed to update folder", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Folder not found or not public", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CreateAnnouncementRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Type      string  `json:"type" example:"info"`
	IsPinned  bool    `json:"is_pinned"`
	ExpiresAt *string `json:"expires_at" example:"2026-12-31T23:59:59Z"`
}

// @Summary      Publish an announcement (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createAnnouncementRequest  body  CreateAnnouncementRequest  true  "Announcement"
// @Success      201  {object}  models.Announcement
// @Failure      400  {string}  string "Missing title or content"
// @Router       /admin/announcements [post]
func (s *Server) AdminCreateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Content == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	announcement, err := s.store.CreateAnnouncement(r.Context(), database.CreateAnnouncementParams{
		Title:     req.Title,
		Content:   req.Content,
		Type:      req.Type,
		IsPinned:  req.IsPinned,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		log.Printf("ERROR: Failed to create announcement: %v", err)
		http.Error(w, "Failed to create announcement", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(announcement)
}

// @Summary      Retire an announcement (admin)
// @Tags         admin
// @Security     BearerAuth
// @Param        announcementId  path  int  true  "Announcement ID"
// @Success      204  {null}    nil "Retired"
// @Failure      404  {string}  string "Announcement not found"
// @Router       /admin/announcements/{announcementId} [delete]
func (s *Server) AdminDeactivateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	announcementID, err := urlParamInt64(r, "announcementId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := s.store.DeactivateAnnouncement(r.Context(), announcementID)
	if err != nil {
		http.Error(w, "Failed to retire announcement", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Announcement not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Recent activity (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.ActivityLog
// @Failure      403  {string}  string "Admin privileges required"
// @Router       /admin/activity [get]
func (s *Server) AdminRecentActivityHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.ListRecentActivity(r.Context(), 100)
	if err != nil {
		http.Error(w, "Failed to list activity", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}
