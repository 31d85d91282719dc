package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"collabradoc/internal/domain"
	"collabradoc/internal/domain/services"
	"collabradoc/internal/httputil"
)

func TestCreateDocument(t *testing.T) {
	ctx := context.Background()
	owner := newUserID()
	stranger := newUserID()

	env := newTestEnv()
	folder, err := env.folderSvc.CreateFolder(ctx, owner, &services.CreateFolderRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	foreign, err := env.folderSvc.CreateFolder(ctx, stranger, &services.CreateFolderRequest{Name: "Theirs"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	tests := []struct {
		name    string
		req     *services.CreateDocumentRequest
		wantErr error
	}{
		{
			name: "private by default",
			req:  &services.CreateDocumentRequest{Title: "Notes", Content: "hello"},
		},
		{
			name: "public document in folder",
			req:  &services.CreateDocumentRequest{Title: "Spec", FolderID: &folder.ID, IsPublic: true},
		},
		{
			name:    "missing title",
			req:     &services.CreateDocumentRequest{Content: "body"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "oversize title",
			req:     &services.CreateDocumentRequest{Title: strings.Repeat("x", 300)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing folder",
			req:     &services.CreateDocumentRequest{Title: "X", FolderID: strPtr(uuid.New().String())},
			wantErr: domain.ErrNotFound,
		},
		{
			// A foreign folder reads as NotFound so ids cannot be probed
			name:    "folder owned by someone else",
			req:     &services.CreateDocumentRequest{Title: "X", FolderID: &foreign.ID},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := env.docSvc.CreateDocument(ctx, owner, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateDocument() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateDocument() error = %v", err)
			}
			if doc.OwnerID != owner {
				t.Errorf("CreateDocument() owner = %q, want %q", doc.OwnerID, owner)
			}
			if doc.IsPublic != tt.req.IsPublic {
				t.Errorf("CreateDocument() isPublic = %v, want %v", doc.IsPublic, tt.req.IsPublic)
			}
		})
	}
}

func TestDocumentVisibility(t *testing.T) {
	ctx := context.Background()
	owner := newUserID()
	reader := newUserID()
	env := newTestEnv()

	private, _ := env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Private"})
	public, _ := env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Public", IsPublic: true})

	// Owner reads both
	for _, id := range []string{private.ID, public.ID} {
		if _, err := env.docSvc.GetDocument(ctx, owner, id); err != nil {
			t.Errorf("GetDocument() as owner error = %v", err)
		}
	}

	// Reader sees only the public one
	if _, err := env.docSvc.GetDocument(ctx, reader, public.ID); err != nil {
		t.Errorf("GetDocument() public as reader error = %v", err)
	}
	if _, err := env.docSvc.GetDocument(ctx, reader, private.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("GetDocument() private as reader error = %v, want ErrForbidden", err)
	}

	// Readers cannot modify public documents
	if _, err := env.docSvc.UpdateDocument(ctx, reader, public.ID, &services.UpdateDocumentRequest{
		Title: strPtr("Hijacked"),
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("UpdateDocument() as reader error = %v, want ErrForbidden", err)
	}
	if err := env.docSvc.DeleteDocument(ctx, reader, public.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("DeleteDocument() as reader error = %v, want ErrForbidden", err)
	}
}

func TestListDocuments(t *testing.T) {
	ctx := context.Background()
	owner := newUserID()
	other := newUserID()
	env := newTestEnv()

	env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Mine private"})
	env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Mine public", IsPublic: true})
	env.docSvc.CreateDocument(ctx, other, &services.CreateDocumentRequest{Title: "Theirs private"})
	env.docSvc.CreateDocument(ctx, other, &services.CreateDocumentRequest{Title: "Theirs public", IsPublic: true})

	docs, err := env.docSvc.ListDocuments(ctx, owner)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("ListDocuments() returned %d documents, want 3", len(docs))
	}
	for _, d := range docs {
		if d.OwnerID != owner && !d.IsPublic {
			t.Errorf("ListDocuments() leaked private document %q", d.Title)
		}
	}

	// Most recently updated first
	for i := 1; i < len(docs); i++ {
		if docs[i].UpdatedAt.After(docs[i-1].UpdatedAt) {
			t.Error("ListDocuments() not sorted by updated_at descending")
		}
	}
}

func TestSearchDocuments(t *testing.T) {
	ctx := context.Background()
	owner := newUserID()
	other := newUserID()
	env := newTestEnv()

	env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Meeting notes", Content: "roadmap"})
	env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Groceries", Content: "apples and pears"})
	env.docSvc.CreateDocument(ctx, other, &services.CreateDocumentRequest{Title: "Public roadmap", IsPublic: true})
	env.docSvc.CreateDocument(ctx, other, &services.CreateDocumentRequest{Title: "Hidden roadmap"})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "title match case-insensitive", query: "ROADMAP", want: 2},
		{name: "content match", query: "pears", want: 1},
		{name: "empty query matches all visible", query: "", want: 3},
		{name: "no match", query: "zzz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := env.docSvc.SearchDocuments(ctx, owner, tt.query)
			if err != nil {
				t.Fatalf("SearchDocuments() error = %v", err)
			}
			if len(docs) != tt.want {
				t.Errorf("SearchDocuments(%q) returned %d documents, want %d", tt.query, len(docs), tt.want)
			}
		})
	}
}

func TestUpdateDocumentPartial(t *testing.T) {
	ctx := context.Background()
	owner := newUserID()
	env := newTestEnv()

	folder, _ := env.folderSvc.CreateFolder(ctx, owner, &services.CreateFolderRequest{Name: "Work"})
	doc, err := env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{
		Title:    "Draft",
		Content:  "v1",
		FolderID: &folder.ID,
	})
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}

	// Content-only patch leaves everything else alone
	updated, err := env.docSvc.UpdateDocument(ctx, owner, doc.ID, &services.UpdateDocumentRequest{
		Content: strPtr("v2"),
	})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if updated.Title != "Draft" || updated.Content != "v2" {
		t.Errorf("UpdateDocument() = %q/%q, want Draft/v2", updated.Title, updated.Content)
	}
	if updated.FolderID == nil || *updated.FolderID != folder.ID {
		t.Error("UpdateDocument() content patch moved the document")
	}
	if !updated.UpdatedAt.After(doc.UpdatedAt) {
		t.Error("UpdateDocument() did not bump updated_at")
	}

	// Flip visibility
	updated, err = env.docSvc.UpdateDocument(ctx, owner, doc.ID, &services.UpdateDocumentRequest{
		IsPublic: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if !updated.IsPublic {
		t.Error("UpdateDocument() did not make the document public")
	}

	// Null folder clears the assignment
	updated, err = env.docSvc.UpdateDocument(ctx, owner, doc.ID, &services.UpdateDocumentRequest{
		FolderID: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if updated.FolderID != nil {
		t.Errorf("UpdateDocument() folder = %v, want nil", *updated.FolderID)
	}

	// Empty patch is rejected
	if _, err := env.docSvc.UpdateDocument(ctx, owner, doc.ID, &services.UpdateDocumentRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpdateDocument() empty patch error = %v, want ErrValidation", err)
	}
}

func TestDeleteDocumentCascadesComments(t *testing.T) {
	ctx := context.Background()
	owner := newUserID()
	env := newTestEnv()

	doc, err := env.docSvc.CreateDocument(ctx, owner, &services.CreateDocumentRequest{Title: "Doc", IsPublic: true})
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}

	caller := identityFor(owner, "owner")
	comment, err := env.commentSvc.CreateComment(ctx, caller, &services.CreateCommentRequest{
		DocumentID: doc.ID,
		Content:    "first",
	})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if _, err := env.commentSvc.CreateComment(ctx, caller, &services.CreateCommentRequest{
		DocumentID: doc.ID,
		Content:    "reply",
		ParentID:   &comment.ID,
	}); err != nil {
		t.Fatalf("CreateComment() reply error = %v", err)
	}

	if err := env.docSvc.DeleteDocument(ctx, owner, doc.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}

	if _, err := env.docSvc.GetDocument(ctx, owner, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetDocument() after delete error = %v, want ErrNotFound", err)
	}
	if len(env.comments.comments) != 0 {
		t.Errorf("DeleteDocument() left %d comments behind", len(env.comments.comments))
	}
}
