package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID       string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UserSummary is the only user shape that leaves the service.
type UserSummary struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
	}
}

type Post struct {
	PostID          string         `json:"id" db:"id"`
	UserID          string         `json:"userId" db:"user_id"`
	PostName        string         `json:"postName" db:"post_name"`
	Description     string         `json:"description" db:"description"`
	Tags            pq.StringArray `json:"tags" db:"tags"`
	ImagePath       *string        `json:"imagePath" db:"image_path"`
	UploadTimestamp time.Time      `json:"uploadTimestamp" db:"upload_timestamp"`
}

// PostFilters is the validated form of a listing query.
type PostFilters struct {
	SearchText     string
	UploadedFrom   *time.Time
	UploadedBefore *time.Time
	Tags           []string
	Limit          int
	Offset         int
}

type PostPage struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
	Limit int    `json:"limit"`
}
