package models

import "time"

// ItemType discriminates the target of a favourite or a report. The target is
// a (kind, id) pair instead of one nullable foreign key per kind.
type ItemType string

const (
	ItemTypeFile    ItemType = "file"
	ItemTypeFolder  ItemType = "folder"
	ItemTypeComment ItemType = "comment"
	ItemTypeUser    ItemType = "user"
)

type Favourite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemType  ItemType  `json:"item_type"`
	ItemID    int64     `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}
