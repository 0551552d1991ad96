package models

import "time"

type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     *string    `json:"full_name,omitempty" db:"full_name"`
	Bio          *string    `json:"bio,omitempty" db:"bio"`
	Avatar       string     `json:"avatar" db:"avatar"`
	Location     *string    `json:"location,omitempty" db:"location"`
	Website      *string    `json:"website,omitempty" db:"website"`
	Instagram    *string    `json:"instagram,omitempty" db:"instagram"`
	Twitter      *string    `json:"twitter,omitempty" db:"twitter"`
	YouTube      *string    `json:"youtube,omitempty" db:"youtube"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}
