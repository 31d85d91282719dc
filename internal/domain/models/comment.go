package models

import "time"

// TextSelection anchors a comment to a span of document text.
type TextSelection struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Text      string  `json:"text"`
	ElementID *string `json:"element_id,omitempty"`
}

// CommentAuthor is a snapshot of the author's identity taken at creation
// time. It is deliberately not kept in sync with later profile edits:
// comments are historical records.
type CommentAuthor struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
}

// Comment is a note on a document. Threads are two levels deep: a
// top-level comment (ParentID nil) and flat replies pointing at it.
// Replies are assembled at read time, never stored nested.
type Comment struct {
	ID         string         `json:"id" db:"id"`
	DocumentID string         `json:"document_id" db:"document_id"`
	Content    string         `json:"content" db:"content"`
	Author     CommentAuthor  `json:"author"`
	Resolved   bool           `json:"resolved" db:"resolved"`
	Selection  *TextSelection `json:"selection,omitempty"`
	Position   map[string]any `json:"position,omitempty"`
	ParentID   *string        `json:"parent_id" db:"parent_id"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`

	// Replies is populated on reads of top-level comments, ordered by
	// created_at ascending. Always empty for replies themselves.
	Replies []Comment `json:"replies"`
}

// IsReply reports whether the comment belongs to a thread rather than
// starting one.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
