package models

import "time"

type Folder struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         *string   `json:"slug,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ParentID     *int64    `json:"parent_id"`
	OwnerID      int64     `json:"owner_id"`
	CategoryID   *int64    `json:"category_id,omitempty"`
	IsPublic     bool      `json:"is_public"`
	IsFeatured   bool      `json:"is_featured"`
	PasswordHash *string   `json:"-"`
	Subject      *string   `json:"subject,omitempty"`
	ClassLevel   *string   `json:"class_level,omitempty"`
	ViewCount    int64     `json:"view_count"`
	ShareToken   *string   `json:"share_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the folder is password protected.
func (f *Folder) HasPassword() bool {
	return f.PasswordHash != nil && *f.PasswordHash != ""
}
