package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, folder_id, is_public, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		doc.Title,
		doc.Content,
		doc.FolderID,
		doc.IsPublic,
		doc.OwnerID,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID regardless of owner
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, folder_id, is_public, owner_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	var doc models.Document
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.FolderID,
		&doc.IsPublic,
		&doc.OwnerID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// ListVisible lists documents owned by the caller or public,
// updated_at descending
func (r *PostgresDocumentRepository) ListVisible(ctx context.Context, callerID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, folder_id, is_public, owner_id, created_at, updated_at
		FROM %s
		WHERE owner_id = $1 OR is_public = TRUE
		ORDER BY updated_at DESC
	`, r.tables.Documents)

	return r.queryMany(ctx, query, callerID)
}

// SearchVisible applies the visibility filter intersected with a
// case-insensitive substring match on title or content. An empty query
// matches everything.
func (r *PostgresDocumentRepository) SearchVisible(ctx context.Context, callerID, query string) ([]models.Document, error) {
	sql := fmt.Sprintf(`
		SELECT id, title, content, folder_id, is_public, owner_id, created_at, updated_at
		FROM %s
		WHERE (owner_id = $1 OR is_public = TRUE)
		  AND (title ILIKE $2 OR content ILIKE $2)
		ORDER BY updated_at DESC
	`, r.tables.Documents)

	pattern := "%" + escapeLike(query) + "%"
	return r.queryMany(ctx, sql, callerID, pattern)
}

// escapeLike escapes LIKE metacharacters so the query text is matched
// literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// Update persists title, content, folder, visibility and updated_at
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, folder_id = $3, is_public = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.FolderID,
		doc.IsPublic,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a document by ID
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ExistsInFolder reports whether any document references the folder
func (r *PostgresDocumentRepository) ExistsInFolder(ctx context.Context, folderID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE folder_id = $1)
	`, r.tables.Documents)

	var exists bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, folderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check documents in folder: %w", err)
	}

	return exists, nil
}

func (r *PostgresDocumentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Content,
			&doc.FolderID,
			&doc.IsPublic,
			&doc.OwnerID,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
