package services

import (
	"context"

	"collabradoc/internal/domain/models"
)

// CommentService handles comment-thread business logic. The caller is
// passed as a full identity because creation snapshots the author's
// display fields.
type CommentService interface {
	// CreateComment adds a comment or reply to a document the caller
	// can read
	CreateComment(ctx context.Context, caller *models.Identity, req *CreateCommentRequest) (*models.Comment, error)

	// ListCommentsForDocument returns top-level comments newest first,
	// each with its replies oldest first
	ListCommentsForDocument(ctx context.Context, callerID, documentID string) ([]models.Comment, error)

	// GetComment retrieves a comment with its replies attached
	GetComment(ctx context.Context, callerID, commentID string) (*models.Comment, error)

	// UpdateComment edits content and/or toggles resolved; author only
	UpdateComment(ctx context.Context, callerID, commentID string, req *UpdateCommentRequest) (*models.Comment, error)

	// DeleteComment removes a comment; deleting a top-level comment
	// cascades to its replies. Author or document owner only.
	DeleteComment(ctx context.Context, callerID, commentID string) error
}

// CreateCommentRequest represents a comment creation request
type CreateCommentRequest struct {
	DocumentID string                `json:"document_id"`
	Content    string                `json:"content"`
	ParentID   *string               `json:"parent_id,omitempty"`
	Selection  *models.TextSelection `json:"selection,omitempty"`
	Position   map[string]any        `json:"position,omitempty"`
}

// UpdateCommentRequest represents a comment update. Content and
// resolved may change independently.
type UpdateCommentRequest struct {
	Content  *string `json:"content,omitempty"`
	Resolved *bool   `json:"resolved,omitempty"`
}
