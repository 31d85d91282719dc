package repositories

import (
	"context"

	"collabradoc/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID regardless of owner
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByNameAndParent finds an owner's folder by name under the given
	// parent (nil for root). Returns (nil, nil) when absent.
	GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error)

	// ListByOwner lists all folders owned by a user, name ascending
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// Update persists name, parent and updated_at changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder by ID
	Delete(ctx context.Context, id string) error

	// HasChildFolders reports whether any folder has this id as parent
	HasChildFolders(ctx context.Context, id string) (bool, error)
}
