package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"collabradoc/internal/config"
	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/policy"
	"collabradoc/internal/domain/repositories"
	"collabradoc/internal/domain/services"
)

type commentService struct {
	commentRepo repositories.CommentRepository
	docRepo     repositories.DocumentRepository
	limits      config.Limits
	logger      *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	docRepo repositories.DocumentRepository,
	limits config.Limits,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		docRepo:     docRepo,
		limits:      limits,
		logger:      logger,
	}
}

// CreateComment adds a comment or reply to a document the caller can
// read. Anyone with read access may comment, not just the owner.
func (s *commentService) CreateComment(ctx context.Context, caller *models.Identity, req *services.CreateCommentRequest) (*models.Comment, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.loadReadableDocument(ctx, caller.UserID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if err := validateID(*req.ParentID, "parent comment"); err != nil {
			return nil, err
		}
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			// Missing parent is a malformed request, not a lookup miss:
			// the thread being replied to does not exist
			return nil, fmt.Errorf("parent comment does not exist: %w", domain.ErrValidation)
		}
		if parent.DocumentID != doc.ID {
			return nil, fmt.Errorf("parent comment belongs to another document: %w", domain.ErrValidation)
		}
		// Thread depth is capped at two levels: replies cannot be
		// replied to
		if parent.IsReply() {
			return nil, fmt.Errorf("cannot reply to a reply: %w", domain.ErrValidation)
		}
	}

	comment := &models.Comment{
		DocumentID: doc.ID,
		Content:    req.Content,
		// Author snapshot taken at creation time; deliberately not
		// synced with later profile edits
		Author: models.CommentAuthor{
			ID:     caller.UserID,
			Name:   caller.Name,
			Email:  caller.Email,
			Avatar: caller.Avatar,
		},
		Selection: req.Selection,
		Position:  req.Position,
		ParentID:  req.ParentID,
		Replies:   []models.Comment{},
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"id", comment.ID,
		"document_id", doc.ID,
		"author_id", caller.UserID,
		"parent_id", comment.ParentID,
	)

	return comment, nil
}

// ListCommentsForDocument returns top-level comments newest first, each
// with its replies oldest first
func (s *commentService) ListCommentsForDocument(ctx context.Context, callerID, documentID string) ([]models.Comment, error) {
	doc, err := s.loadReadableDocument(ctx, callerID, documentID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListTopLevelByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	for i := range comments {
		if err := s.attachReplies(ctx, &comments[i]); err != nil {
			return nil, err
		}
	}

	return comments, nil
}

// GetComment retrieves a comment with its replies attached
func (s *commentService) GetComment(ctx context.Context, callerID, commentID string) (*models.Comment, error) {
	comment, _, err := s.loadCommentWithDocument(ctx, commentID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, comment.DocumentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadDocument(callerID, doc) {
		return nil, fmt.Errorf("comment %s: %w", comment.ID, domain.ErrForbidden)
	}

	if err := s.attachReplies(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// UpdateComment edits content and/or toggles resolved; author only
func (s *commentService) UpdateComment(ctx context.Context, callerID, commentID string, req *services.UpdateCommentRequest) (*models.Comment, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	comment, _, err := s.loadCommentWithDocument(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !policy.CanModifyComment(callerID, comment) {
		return nil, fmt.Errorf("comment %s: %w", comment.ID, domain.ErrForbidden)
	}

	if req.Content != nil {
		comment.Content = *req.Content
	}
	if req.Resolved != nil {
		comment.Resolved = *req.Resolved
	}
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.attachReplies(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment updated", "id", comment.ID, "resolved", comment.Resolved)

	return comment, nil
}

// DeleteComment removes a comment; the author or the document's owner
// may delete. Deleting a top-level comment removes its replies in the
// same atomic statement.
func (s *commentService) DeleteComment(ctx context.Context, callerID, commentID string) error {
	comment, doc, err := s.loadCommentWithDocument(ctx, commentID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteComment(callerID, comment, doc) {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrForbidden)
	}

	if err := s.commentRepo.DeleteThread(ctx, comment.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		"id", comment.ID,
		"document_id", comment.DocumentID,
		"cascade", !comment.IsReply(),
	)

	return nil
}

// loadReadableDocument loads a document and requires read access
func (s *commentService) loadReadableDocument(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	if err := validateID(documentID, "document"); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if !policy.CanReadDocument(callerID, doc) {
		return nil, fmt.Errorf("document %s: %w", doc.ID, domain.ErrForbidden)
	}

	return doc, nil
}

// loadCommentWithDocument loads a comment and the document it sits on
func (s *commentService) loadCommentWithDocument(ctx context.Context, commentID string) (*models.Comment, *models.Document, error) {
	if err := validateID(commentID, "comment"); err != nil {
		return nil, nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, comment.DocumentID)
	if err != nil {
		return nil, nil, err
	}

	return comment, doc, nil
}

// attachReplies populates Replies for top-level comments. Replies keep
// an empty slice so the JSON shape is stable.
func (s *commentService) attachReplies(ctx context.Context, comment *models.Comment) error {
	comment.Replies = []models.Comment{}
	if comment.IsReply() {
		return nil
	}

	replies, err := s.commentRepo.ListReplies(ctx, comment.ID)
	if err != nil {
		return err
	}
	for i := range replies {
		replies[i].Replies = []models.Comment{}
	}
	if replies != nil {
		comment.Replies = replies
	}

	return nil
}

// validateCreateRequest validates a comment creation request
func (s *commentService) validateCreateRequest(req *services.CreateCommentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.Content,
			validation.Required,
			validation.Length(1, s.limits.MaxCommentContentLen),
		),
	)
}

// validateUpdateRequest validates a comment update
func (s *commentService) validateUpdateRequest(req *services.UpdateCommentRequest) error {
	if req.Content == nil && req.Resolved == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Content != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Content,
				validation.Required,
				validation.Length(1, s.limits.MaxCommentContentLen),
			),
		)
	}

	return nil
}
