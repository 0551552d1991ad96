package api

import (
	"encoding/json"
	"net/http"
)

// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /notifications [get]
func (s *Server) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	limit, offset := parsePagination(r, 20)

	notifications, err := s.store.ListNotifications(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}

	unread, err := s.store.CountUnreadNotifications(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to count notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// @Summary      Mark a notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Param        notificationId  path  int  true  "Notification ID"
// @Success      204  {null}    nil "Marked"
// @Failure      404  {string}  string "Notification not found"
// @Router       /notifications/{notificationId}/read [post]
func (s *Server) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	notificationID, err := urlParamInt64(r, "notificationId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := s.store.MarkNotificationRead(r.Context(), notificationID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to mark notification", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Mark all notifications as read
// @Tags         notifications
// @Security     BearerAuth
// @Success      204  {null}    nil "Marked"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /notifications/read_all [post]
func (s *Server) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	if err := s.store.MarkAllNotificationsRead(r.Context(), claims.UserID); err != nil {
		http.Error(w, "Failed to mark notifications", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Delete a notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        notificationId  path  int  true  "Notification ID"
// @Success      204  {null}    nil "Deleted"
// @Failure      404  {string}  string "Notification not found"
// @Router       /notifications/{notificationId} [delete]
func (s *Server) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	notificationID, err := urlParamInt64(r, "notificationId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := s.store.DeleteNotification(r.Context(), notificationID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
