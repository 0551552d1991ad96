package models

import "time"

type ActivityLog struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Action      string    `json:"action"`
	Description *string   `json:"description,omitempty"`
	FileID      *int64    `json:"file_id,omitempty"`
	FolderID    *int64    `json:"folder_id,omitempty"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	UserAgent   *string   `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type DownloadRecord struct {
	ID           int64     `json:"id"`
	UserID       *int64    `json:"user_id,omitempty"`
	FileID       int64     `json:"file_id"`
	IPAddress    *string   `json:"ip_address,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at"`
}
