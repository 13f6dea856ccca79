package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
	"github.com/gerenciadoc/gerenciadoc/internal/extract"
	"github.com/gerenciadoc/gerenciadoc/internal/repository"
	"github.com/gerenciadoc/gerenciadoc/internal/storage"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*repository.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*repository.User)}
}

func (m *memUsers) Create(_ context.Context, name, email, passwordHash, company string) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, common.NewAppError("USER_EXISTS", "email already registered", common.ErrConflict)
	}
	u := &repository.User{
		ID: uuid.New(), Name: name, Email: email,
		PasswordHash: passwordHash, Company: company, CreatedAt: time.Now(),
	}
	m.users[email] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

type memCategories struct{}

func (memCategories) EnsureDefaults(context.Context) error { return nil }

func (memCategories) List(context.Context) ([]repository.Category, error) {
	out := make([]repository.Category, len(constants.DefaultCategories))
	for i, c := range constants.DefaultCategories {
		out[i] = repository.Category{Slug: c.Slug, Name: c.Name}
	}
	return out, nil
}

func (memCategories) GetBySlug(_ context.Context, slug string) (*repository.Category, error) {
	for _, c := range constants.DefaultCategories {
		if c.Slug == slug {
			return &repository.Category{Slug: c.Slug, Name: c.Name}, nil
		}
	}
	return nil, common.ErrNotFound
}

type memDocs struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*repository.Document
}

func newMemDocs() *memDocs {
	return &memDocs{docs: make(map[uuid.UUID]*repository.Document)}
}

func (m *memDocs) Create(_ context.Context, doc *repository.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *memDocs) GetByID(_ context.Context, id uuid.UUID) (*repository.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memDocs) ListByUser(_ context.Context, userID uuid.UUID, filter repository.DocumentFilter) ([]*repository.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repository.Document
	for _, d := range m.docs {
		if d.UserID != userID {
			continue
		}
		if filter.Category != "" && d.CategorySlug != filter.Category {
			continue
		}
		if filter.Type != "" && string(d.Type) != filter.Type {
			continue
		}
		if filter.Status != "" && string(d.Status) != filter.Status {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(d.Name), needle) &&
				!strings.Contains(strings.ToLower(d.Description), needle) {
				continue
			}
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memDocs) Update(_ context.Context, id uuid.UUID, upd repository.DocumentUpdate) (*repository.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.Name != nil {
		d.Name = *upd.Name
	}
	if upd.Description != nil {
		d.Description = *upd.Description
	}
	if upd.CategorySlug != nil {
		d.CategorySlug = *upd.CategorySlug
	}
	if upd.IssueDate != nil {
		d.IssueDate = upd.IssueDate
	}
	if upd.ExpirationDate != nil {
		d.ExpirationDate = upd.ExpirationDate
	}
	if upd.Status != nil {
		d.Status = *upd.Status
	}
	if upd.Metadata != nil {
		d.Metadata = *upd.Metadata
	}
	if upd.Tags != nil {
		d.Tags = upd.Tags
	}
	d.UpdatedAt = time.Now()
	cp := *d
	return &cp, nil
}

func (m *memDocs) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memLinks struct {
	mu    sync.Mutex
	links map[string]*repository.CollaboratorLink
}

func newMemLinks() *memLinks {
	return &memLinks{links: make(map[string]*repository.CollaboratorLink)}
}

func (m *memLinks) Create(_ context.Context, link *repository.CollaboratorLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if link.Token == "" {
		link.Token = uuid.NewString()
	}
	if link.Status == "" {
		link.Status = repository.LinkStatusActive
	}
	link.CreatedAt = time.Now()
	cp := *link
	m.links[link.Token] = &cp
	return nil
}

func (m *memLinks) GetByToken(_ context.Context, token string) (*repository.CollaboratorLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.links[token]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memLinks) ListByUser(_ context.Context, userID uuid.UUID, status string) ([]*repository.CollaboratorLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repository.CollaboratorLink
	for _, l := range m.links {
		if l.UserID != userID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLinks) AppendDocument(_ context.Context, token string, docID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[token]
	if !ok {
		return common.ErrNotFound
	}
	l.DocumentsUploaded = append(l.DocumentsUploaded, docID)
	return nil
}

func (m *memLinks) SetStatus(_ context.Context, token, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[token]
	if !ok {
		return common.ErrNotFound
	}
	l.Status = status
	return nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, string, error) {
	if m.saveErr != nil {
		return "", "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	key := storage.ObjectKey(filename)
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return key, "/files/" + key, nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type fakePipeline struct {
	res extract.Result
}

func (f fakePipeline) ExtractDocumentData(context.Context, string) extract.Result {
	return f.res
}

func testConfig() *common.Config {
	return &common.Config{
		Server: common.ServerConfig{
			Addr:           ":0",
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Auth: common.AuthConfig{
			JWTSecret:   "test-secret",
			TokenExpiry: time.Hour,
		},
	}
}

type testEnv struct {
	srv   *Server
	docs  *memDocs
	links *memLinks
	store *memStore
}

func newTestServer(t *testing.T, res extract.Result) *testEnv {
	t.Helper()
	docs := newMemDocs()
	links := newMemLinks()
	store := newMemStore()
	srv := New(testConfig(), Deps{
		Users:      newMemUsers(),
		Categories: memCategories{},
		Documents:  docs,
		Links:      links,
		Store:      store,
		Pipeline:   fakePipeline{res: res},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &testEnv{srv: srv, docs: docs, links: links, store: store}
}
