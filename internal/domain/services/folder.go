package services

import (
	"context"

	"collabradoc/internal/domain/models"
	"collabradoc/internal/httputil"
)

// FolderService handles folder business logic. Every operation takes
// the caller id; ownership and tree integrity are enforced here.
type FolderService interface {
	// CreateFolder creates a new folder for the caller
	CreateFolder(ctx context.Context, callerID string, req *CreateFolderRequest) (*models.Folder, error)

	// ListFolders lists the caller's folders, name ascending
	ListFolders(ctx context.Context, callerID string) ([]models.Folder, error)

	// GetFolder retrieves one of the caller's folders
	GetFolder(ctx context.Context, callerID, folderID string) (*models.Folder, error)

	// UpdateFolder renames and/or moves a folder
	UpdateFolder(ctx context.Context, callerID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder removes a folder that has no child folders and no
	// documents
	DeleteFolder(ctx context.Context, callerID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest represents a folder update request.
// ParentID is tri-state: absent leaves the parent alone, null moves the
// folder to root, a value moves it under that folder.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id,omitempty"`
}
