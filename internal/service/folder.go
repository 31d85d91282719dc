package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"collabradoc/internal/config"
	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/policy"
	"collabradoc/internal/domain/repositories"
	"collabradoc/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	limits     config.Limits
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	limits config.Limits,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		limits:     limits,
		logger:     logger,
	}
}

// CreateFolder creates a new folder for the caller
func (s *folderService) CreateFolder(ctx context.Context, callerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if req.ParentID != nil {
		if err := validateID(*req.ParentID, "parent folder"); err != nil {
			return nil, err
		}
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
		if !policy.CanWriteFolder(callerID, parent) {
			return nil, fmt.Errorf("parent folder %s: %w", parent.ID, domain.ErrForbidden)
		}
	}

	name := strings.TrimSpace(req.Name)

	// Sibling uniqueness: (name, parent_id, owner_id)
	existing, err := s.folderRepo.GetByNameAndParent(ctx, callerID, name, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("check for duplicate names: %w", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder := &models.Folder{
		Name:     name,
		ParentID: req.ParentID,
		OwnerID:  callerID,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", callerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// ListFolders lists the caller's folders, name ascending
func (s *folderService) ListFolders(ctx context.Context, callerID string) ([]models.Folder, error) {
	return s.folderRepo.ListByOwner(ctx, callerID)
}

// GetFolder retrieves one of the caller's folders
func (s *folderService) GetFolder(ctx context.Context, callerID, folderID string) (*models.Folder, error) {
	folder, err := s.loadOwnedFolder(ctx, callerID, folderID)
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// UpdateFolder renames and/or moves a folder
func (s *folderService) UpdateFolder(ctx context.Context, callerID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	folder, err := s.loadOwnedFolder(ctx, callerID, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}

	// Tri-state: only touch the parent when the field was present
	if req.ParentID.Present {
		if req.ParentID.Value != nil && *req.ParentID.Value != "" {
			newParentID := *req.ParentID.Value
			if err := validateID(newParentID, "parent folder"); err != nil {
				return nil, err
			}
			parent, err := s.folderRepo.GetByID(ctx, newParentID)
			if err != nil {
				return nil, fmt.Errorf("parent folder: %w", err)
			}
			if !policy.CanWriteFolder(callerID, parent) {
				return nil, fmt.Errorf("parent folder %s: %w", parent.ID, domain.ErrForbidden)
			}
			if err := s.checkNoCycle(ctx, folder.ID, parent); err != nil {
				return nil, err
			}
			folder.ParentID = &parent.ID
		} else {
			// null = move to root
			folder.ParentID = nil
		}
	}

	// Re-check sibling uniqueness in the target location
	existing, err := s.folderRepo.GetByNameAndParent(ctx, callerID, folder.Name, folder.ParentID)
	if err != nil {
		return nil, fmt.Errorf("check for duplicate names: %w", err)
	}
	if existing != nil && existing.ID != folder.ID {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder removes a folder that has no child folders and no
// documents
func (s *folderService) DeleteFolder(ctx context.Context, callerID, folderID string) error {
	folder, err := s.loadOwnedFolder(ctx, callerID, folderID)
	if err != nil {
		return err
	}

	hasChildren, err := s.folderRepo.HasChildFolders(ctx, folder.ID)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("folder has subfolders: %w", domain.ErrConflict)
	}

	hasDocs, err := s.docRepo.ExistsInFolder(ctx, folder.ID)
	if err != nil {
		return err
	}
	if hasDocs {
		return fmt.Errorf("folder contains documents: %w", domain.ErrConflict)
	}

	if err := s.folderRepo.Delete(ctx, folder.ID); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folder.ID, "name", folder.Name, "owner_id", callerID)

	return nil
}

// loadOwnedFolder loads a folder and enforces ownership: absent folders
// are NotFound, folders owned by someone else are Forbidden.
func (s *folderService) loadOwnedFolder(ctx context.Context, callerID, folderID string) (*models.Folder, error) {
	if err := validateID(folderID, "folder"); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if !policy.CanWriteFolder(callerID, folder) {
		return nil, fmt.Errorf("folder %s: %w", folder.ID, domain.ErrForbidden)
	}

	return folder, nil
}

// checkNoCycle rejects a move that would make the folder an ancestor of
// itself: the target parent's chain is walked to the root and must not
// contain the folder being moved.
func (s *folderService) checkNoCycle(ctx context.Context, folderID string, newParent *models.Folder) error {
	if newParent.ID == folderID {
		return fmt.Errorf("folder cannot be its own parent: %w", domain.ErrConflict)
	}

	current := newParent
	for current.ParentID != nil {
		if *current.ParentID == folderID {
			return fmt.Errorf("folder cannot be moved under its own descendant: %w", domain.ErrConflict)
		}
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return err
		}
		current = parent
	}

	return nil
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, s.limits.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && !req.ParentID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, s.limits.MaxFolderNameLength),
				validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
			),
		)
	}

	return nil
}

// validateID rejects malformed identifiers before they reach the store
func validateID(id, resource string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("invalid %s ID format: %w", resource, domain.ErrValidation)
	}
	return nil
}
