package models

import "time"

// Document is an owned text document. FolderID nil means root level;
// when set it must reference a folder owned by the same owner.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	FolderID  *string   `json:"folder_id" db:"folder_id"`
	IsPublic  bool      `json:"isPublic" db:"is_public"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
