package repositories

import (
	"context"

	"collabradoc/internal/domain/models"
)

// CommentRepository defines data access operations for comments.
// Comments are stored flat; threads are assembled by the service.
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID retrieves a comment by ID (replies not attached)
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListTopLevelByDocument lists comments with no parent for a
	// document, created_at descending.
	ListTopLevelByDocument(ctx context.Context, documentID string) ([]models.Comment, error)

	// ListReplies lists the replies of a top-level comment, created_at
	// ascending.
	ListReplies(ctx context.Context, parentID string) ([]models.Comment, error)

	// Update persists content, resolved and updated_at changes
	Update(ctx context.Context, comment *models.Comment) error

	// DeleteThread removes a comment together with every reply pointing
	// at it, as one atomic multi-record delete. For a reply this removes
	// only the reply itself.
	DeleteThread(ctx context.Context, id string) error

	// DeleteByDocument removes every comment on a document
	DeleteByDocument(ctx context.Context, documentID string) error
}
