package models

import "time"

type File struct {
	ID             int64     `json:"id"`
	Filename       string    `json:"filename"`
	StoredFilename string    `json:"-"`
	FileType       string    `json:"file_type"`
	MimeType       *string   `json:"mime_type,omitempty"`
	Description    *string   `json:"description,omitempty"`
	FolderID       int64     `json:"folder_id"`
	UploadedBy     int64     `json:"uploaded_by"`
	SizeBytes      int64     `json:"size_bytes"`
	DownloadCount  int64     `json:"download_count"`
	ViewCount      int64     `json:"view_count"`
	ShareToken     *string   `json:"share_token,omitempty"`
	UploadedAt     time.Time `json:"uploaded_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
