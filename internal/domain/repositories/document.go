package repositories

import (
	"context"

	"collabradoc/internal/domain/models"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create creates a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID regardless of owner
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// ListVisible lists documents owned by the caller or public,
	// updated_at descending.
	ListVisible(ctx context.Context, callerID string) ([]models.Document, error)

	// SearchVisible applies the same visibility filter intersected with
	// a case-insensitive substring match on title or content. An empty
	// query matches everything.
	SearchVisible(ctx context.Context, callerID, query string) ([]models.Document, error)

	// Update persists title, content, folder, visibility and updated_at
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document by ID
	Delete(ctx context.Context, id string) error

	// ExistsInFolder reports whether any document references the folder
	ExistsInFolder(ctx context.Context, folderID string) (bool, error)
}
