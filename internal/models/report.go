package models

import "time"

type Report struct {
	ID          int64      `json:"id"`
	ReporterID  int64      `json:"reporter_id"`
	ItemType    ItemType   `json:"item_type"`
	ItemID      int64      `json:"item_id"`
	Reason      string     `json:"reason"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	AdminNotes  *string    `json:"admin_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
