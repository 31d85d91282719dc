package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/repositories"
)

// PostgresCommentRepository implements the CommentRepository interface.
// Comments are stored flat; the selection span and editor position are
// JSONB columns.
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	selection, err := marshalNullable(comment.Selection)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	position, err := marshalNullable(comment.Position)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, content, author_id, author_name, author_email, author_avatar,
		                resolved, selection, position, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, r.tables.Comments)

	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		comment.DocumentID,
		comment.Content,
		comment.Author.ID,
		comment.Author.Name,
		comment.Author.Email,
		comment.Author.Avatar,
		comment.Resolved,
		selection,
		position,
		comment.ParentID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID (replies not attached)
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, content, author_id, author_name, author_email, author_avatar,
		       resolved, selection, position, parent_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Comments)

	comment, err := scanComment(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return comment, nil
}

// ListTopLevelByDocument lists comments with no parent for a document,
// created_at descending
func (r *PostgresCommentRepository) ListTopLevelByDocument(ctx context.Context, documentID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, content, author_id, author_name, author_email, author_avatar,
		       resolved, selection, position, parent_id, created_at, updated_at
		FROM %s
		WHERE document_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC
	`, r.tables.Comments)

	return r.queryMany(ctx, query, documentID)
}

// ListReplies lists the replies of a top-level comment, created_at
// ascending
func (r *PostgresCommentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, content, author_id, author_name, author_email, author_avatar,
		       resolved, selection, position, parent_id, created_at, updated_at
		FROM %s
		WHERE parent_id = $1
		ORDER BY created_at ASC
	`, r.tables.Comments)

	return r.queryMany(ctx, query, parentID)
}

// Update persists content, resolved and updated_at changes
func (r *PostgresCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, resolved = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		comment.Content,
		comment.Resolved,
		comment.UpdatedAt,
		comment.ID,
	)

	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}

	return nil
}

// DeleteThread removes a comment and every reply pointing at it in one
// statement, so no reader can observe a reply whose parent is gone.
func (r *PostgresCommentRepository) DeleteThread(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 OR parent_id = $1
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment thread: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByDocument removes every comment on a document
func (r *PostgresCommentRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.Comments)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete comments for document: %w", err)
	}

	return nil
}

func (r *PostgresCommentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Comment, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var selection, position []byte

	err := row.Scan(
		&comment.ID,
		&comment.DocumentID,
		&comment.Content,
		&comment.Author.ID,
		&comment.Author.Name,
		&comment.Author.Email,
		&comment.Author.Avatar,
		&comment.Resolved,
		&selection,
		&position,
		&comment.ParentID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if selection != nil {
		if err := json.Unmarshal(selection, &comment.Selection); err != nil {
			return nil, fmt.Errorf("decode selection: %w", err)
		}
	}
	if position != nil {
		if err := json.Unmarshal(position, &comment.Position); err != nil {
			return nil, fmt.Errorf("decode position: %w", err)
		}
	}

	return &comment, nil
}

// marshalNullable encodes a value as JSONB, keeping SQL NULL for absent
// values rather than the JSON literal null.
func marshalNullable(v any) ([]byte, error) {
	switch val := v.(type) {
	case *models.TextSelection:
		if val == nil {
			return nil, nil
		}
	case map[string]any:
		if val == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
