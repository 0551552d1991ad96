package models

import "time"

type Comment struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	FileID     int64     `json:"file_id"`
	UserID     int64     `json:"user_id"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	IsApproved bool      `json:"is_approved"`
	IsEdited   bool      `json:"is_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
