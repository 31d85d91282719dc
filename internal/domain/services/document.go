package services

import (
	"context"

	"collabradoc/internal/domain/models"
	"collabradoc/internal/httputil"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument creates a new document owned by the caller
	CreateDocument(ctx context.Context, callerID string, req *CreateDocumentRequest) (*models.Document, error)

	// ListDocuments lists documents visible to the caller (owned or
	// public), updated_at descending
	ListDocuments(ctx context.Context, callerID string) ([]models.Document, error)

	// SearchDocuments filters the visible set by a case-insensitive
	// substring match on title or content. An empty query matches all.
	SearchDocuments(ctx context.Context, callerID, query string) ([]models.Document, error)

	// GetDocument retrieves a document the caller may read
	GetDocument(ctx context.Context, callerID, documentID string) (*models.Document, error)

	// UpdateDocument applies a partial update; owner only
	UpdateDocument(ctx context.Context, callerID, documentID string, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes a document and its comments; owner only
	DeleteDocument(ctx context.Context, callerID, documentID string) error
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	FolderID *string `json:"folder_id,omitempty"`
	IsPublic bool    `json:"isPublic"`
}

// UpdateDocumentRequest represents a partial document update.
// Absent fields are left untouched. FolderID is tri-state: null clears
// the folder assignment.
type UpdateDocumentRequest struct {
	Title    *string                 `json:"title,omitempty"`
	Content  *string                 `json:"content,omitempty"`
	IsPublic *bool                   `json:"isPublic,omitempty"`
	FolderID httputil.OptionalString `json:"folder_id,omitempty"`
}
