package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"collabradoc/internal/config"
	"collabradoc/internal/domain"
	"collabradoc/internal/domain/models"
	"collabradoc/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the ordering and not-found
// semantics of the postgres implementations so the services can be
// exercised without a database.

var testClockBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeClock struct {
	seq int
}

// next returns strictly increasing timestamps so ordering assertions
// are deterministic
func (c *fakeClock) next() time.Time {
	c.seq++
	return testClockBase.Add(time.Duration(c.seq) * time.Second)
}

type fakeUserRepo struct {
	clock *fakeClock
	users map[string]*models.User
}

func newFakeUserRepo(clock *fakeClock) *fakeUserRepo {
	return &fakeUserRepo{clock: clock, users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %q: %w", user.Email, domain.ErrConflict)
		}
	}
	user.ID = uuid.New().String()
	user.CreatedAt = r.clock.next()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

type fakeFolderRepo struct {
	clock   *fakeClock
	folders map[string]*models.Folder
}

func newFakeFolderRepo(clock *fakeClock) *fakeFolderRepo {
	return &fakeFolderRepo{clock: clock, folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	folder.ID = uuid.New().String()
	folder.CreatedAt = r.clock.next()
	folder.UpdatedAt = folder.CreatedAt
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) GetByNameAndParent(_ context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.OwnerID != ownerID || f.Name != name {
			continue
		}
		if sameParent(f.ParentID, parentID) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) HasChildFolders(_ context.Context, id string) (bool, error) {
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeDocumentRepo struct {
	clock *fakeClock
	docs  map[string]*models.Document
}

func newFakeDocumentRepo(clock *fakeClock) *fakeDocumentRepo {
	return &fakeDocumentRepo{clock: clock, docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *models.Document) error {
	doc.ID = uuid.New().String()
	doc.CreatedAt = r.clock.next()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) ListVisible(_ context.Context, callerID string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.OwnerID == callerID || d.IsPublic {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeDocumentRepo) SearchVisible(ctx context.Context, callerID, query string) ([]models.Document, error) {
	visible, _ := r.ListVisible(ctx, callerID)
	if query == "" {
		return visible, nil
	}
	q := strings.ToLower(query)
	var out []models.Document
	for _, d := range visible {
		if strings.Contains(strings.ToLower(d.Title), q) || strings.Contains(strings.ToLower(d.Content), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, doc *models.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) ExistsInFolder(_ context.Context, folderID string) (bool, error) {
	for _, d := range r.docs {
		if d.FolderID != nil && *d.FolderID == folderID {
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentRepo struct {
	clock    *fakeClock
	comments map[string]*models.Comment
}

func newFakeCommentRepo(clock *fakeClock) *fakeCommentRepo {
	return &fakeCommentRepo{clock: clock, comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = r.clock.next()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	cp.Replies = nil
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListTopLevelByDocument(_ context.Context, documentID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.DocumentID == documentID && c.ParentID == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) ListReplies(_ context.Context, parentID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}
	cp := *comment
	cp.Replies = nil
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) DeleteThread(_ context.Context, id string) error {
	delete(r.comments, id)
	for cid, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByDocument(_ context.Context, documentID string) error {
	for cid, c := range r.comments {
		if c.DocumentID == documentID {
			delete(r.comments, cid)
		}
	}
	return nil
}

// fakeTxManager runs the function directly; the fakes have no
// transactional state to roll back
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// testEnv wires every service against shared in-memory fakes
type testEnv struct {
	users    *fakeUserRepo
	folders  *fakeFolderRepo
	docs     *fakeDocumentRepo
	comments *fakeCommentRepo

	folderSvc  *folderService
	docSvc     *documentService
	commentSvc *commentService
}

func newTestEnv() *testEnv {
	clock := &fakeClock{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limits := config.MustLimits()

	users := newFakeUserRepo(clock)
	folders := newFakeFolderRepo(clock)
	docs := newFakeDocumentRepo(clock)
	comments := newFakeCommentRepo(clock)

	return &testEnv{
		users:      users,
		folders:    folders,
		docs:       docs,
		comments:   comments,
		folderSvc:  NewFolderService(folders, docs, limits, logger).(*folderService),
		docSvc:     NewDocumentService(docs, folders, comments, fakeTxManager{}, limits, logger).(*documentService),
		commentSvc: NewCommentService(comments, docs, limits, logger).(*commentService),
	}
}

// newUserID returns a caller id in the same format real accounts use
func newUserID() string {
	return uuid.New().String()
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func identityFor(userID, name string) *models.Identity {
	return &models.Identity{
		UserID: userID,
		Name:   name,
		Email:  name + "@example.com",
	}
}
