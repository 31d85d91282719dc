// Package policy holds the access decisions shared by the folder,
// document, and comment managers. Every function is a pure predicate
// over entity snapshots: callers load the entities first and pass them
// in, so a decision is always made against the state that was read.
package policy

import "collabradoc/internal/domain/models"

// CanReadDocument reports whether the caller may read the document:
// public documents are readable by any authenticated caller, private
// ones only by their owner.
func CanReadDocument(callerID string, doc *models.Document) bool {
	return doc.IsPublic || callerID == doc.OwnerID
}

// CanWriteDocument reports whether the caller may mutate or delete the
// document. Only the owner may, regardless of visibility.
func CanWriteDocument(callerID string, doc *models.Document) bool {
	return callerID == doc.OwnerID
}

// CanWriteFolder reports whether the caller may mutate or delete the
// folder.
func CanWriteFolder(callerID string, folder *models.Folder) bool {
	return callerID == folder.OwnerID
}

// CanModifyComment reports whether the caller may edit a comment's
// content or toggle its resolved flag. Only the original author may.
func CanModifyComment(callerID string, comment *models.Comment) bool {
	return callerID == comment.Author.ID
}

// CanDeleteComment reports whether the caller may delete the comment:
// the comment's author, or the owner of the document it sits on.
func CanDeleteComment(callerID string, comment *models.Comment, doc *models.Document) bool {
	return CanModifyComment(callerID, comment) || callerID == doc.OwnerID
}
