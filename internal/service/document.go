package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"collabradoc/internal/config"
	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/policy"
	"collabradoc/internal/domain/repositories"
	"collabradoc/internal/domain/services"
)

type documentService struct {
	docRepo     repositories.DocumentRepository
	folderRepo  repositories.FolderRepository
	commentRepo repositories.CommentRepository
	txManager   repositories.TransactionManager
	limits      config.Limits
	logger      *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	commentRepo repositories.CommentRepository,
	txManager repositories.TransactionManager,
	limits config.Limits,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		folderRepo:  folderRepo,
		commentRepo: commentRepo,
		txManager:   txManager,
		limits:      limits,
		logger:      logger,
	}
}

// CreateDocument creates a new document owned by the caller
func (s *documentService) CreateDocument(ctx context.Context, callerID string, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	if req.FolderID != nil {
		if err := s.resolveOwnedFolder(ctx, callerID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	doc := &models.Document{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		FolderID: req.FolderID,
		IsPublic: req.IsPublic,
		OwnerID:  callerID,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"owner_id", callerID,
		"folder_id", doc.FolderID,
		"is_public", doc.IsPublic,
	)

	return doc, nil
}

// ListDocuments lists documents visible to the caller, updated_at
// descending
func (s *documentService) ListDocuments(ctx context.Context, callerID string) ([]models.Document, error) {
	return s.docRepo.ListVisible(ctx, callerID)
}

// SearchDocuments filters the visible set by a case-insensitive
// substring match on title or content. An empty query matches all
// visible documents.
func (s *documentService) SearchDocuments(ctx context.Context, callerID, query string) ([]models.Document, error) {
	return s.docRepo.SearchVisible(ctx, callerID, query)
}

// GetDocument retrieves a document the caller may read
func (s *documentService) GetDocument(ctx context.Context, callerID, documentID string) (*models.Document, error) {
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

// UpdateDocument applies a partial update; owner only
func (s *documentService) UpdateDocument(ctx context.Context, callerID, documentID string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	doc, err := s.loadOwnedDocument(ctx, callerID, documentID)
	if err != nil {
		return nil, err
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.Title != nil {
		doc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	if req.IsPublic != nil {
		doc.IsPublic = *req.IsPublic
	}

	// Tri-state folder assignment: null clears, a value re-validates
	// folder ownership exactly like creation
	if req.FolderID.Present {
		if req.FolderID.Value != nil && *req.FolderID.Value != "" {
			if err := s.resolveOwnedFolder(ctx, callerID, *req.FolderID.Value); err != nil {
				return nil, err
			}
			doc.FolderID = req.FolderID.Value
		} else {
			doc.FolderID = nil
		}
	}

	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "id", doc.ID, "title", doc.Title)

	return doc, nil
}

// DeleteDocument removes a document and its comments; owner only.
// Both deletes run inside one transaction so a comment can never
// outlive its document.
func (s *documentService) DeleteDocument(ctx context.Context, callerID, documentID string) error {
	doc, err := s.loadOwnedDocument(ctx, callerID, documentID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.commentRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		return s.docRepo.Delete(txCtx, doc.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", doc.ID, "title", doc.Title, "owner_id", callerID)

	return nil
}

// loadOwnedDocument loads a document and enforces write ownership:
// absent documents are NotFound, documents owned by someone else are
// Forbidden.
func (s *documentService) loadOwnedDocument(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	if err := validateID(documentID, "document"); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if !policy.CanWriteDocument(callerID, doc) {
		return nil, fmt.Errorf("document %s: %w", doc.ID, domain.ErrForbidden)
	}

	return doc, nil
}

// resolveOwnedFolder checks that a folder id resolves to a folder owned
// by the caller. A folder owned by someone else reads as NotFound so a
// create/move cannot be used to probe another user's folder ids.
func (s *documentService) resolveOwnedFolder(ctx context.Context, callerID, folderID string) error {
	if err := validateID(folderID, "folder"); err != nil {
		return err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if !policy.CanWriteFolder(callerID, folder) {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}

	return nil
}

// validateCreateRequest validates a document creation request
func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, s.limits.MaxDocumentTitleLen),
		),
		validation.Field(&req.Content,
			validation.Length(0, s.limits.MaxDocumentContentLen),
		),
	)
}

// validateUpdateRequest validates a partial document update
func (s *documentService) validateUpdateRequest(req *services.UpdateDocumentRequest) error {
	if req.Title == nil && req.Content == nil && req.IsPublic == nil && !req.FolderID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	var rules []*validation.FieldRules
	if req.Title != nil {
		rules = append(rules, validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, s.limits.MaxDocumentTitleLen),
		))
	}
	if req.Content != nil {
		rules = append(rules, validation.Field(&req.Content,
			validation.Length(0, s.limits.MaxDocumentContentLen),
		))
	}

	return validation.ValidateStruct(req, rules...)
}
