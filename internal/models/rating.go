package models

import "time"

type Rating struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	FileID    int64     `json:"file_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
