package models

import "time"

type Announcement struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	AnnouncementType string     `json:"announcement_type"`
	IsActive         bool       `json:"is_active"`
	IsPinned         bool       `json:"is_pinned"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}
