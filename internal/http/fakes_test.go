package http

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"coffee-reco/internal/domain"
	"coffee-reco/internal/repository"
)

type mockCatalogRepo struct {
	profiles []domain.CoffeeProfile
	err      error
}

func (m *mockCatalogRepo) FetchProfiles(context.Context) ([]domain.CoffeeProfile, error) {
	return m.profiles, m.err
}

func (m *mockCatalogRepo) GetProfile(_ context.Context, id int64) (domain.CoffeeProfile, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.CoffeeProfile{}, pgx.ErrNoRows
}

type mockAnalysisRepo struct {
	mu     sync.Mutex
	items  map[int64]domain.Analysis
	nextID int64
}

func newMockAnalysisRepo() *mockAnalysisRepo {
	return &mockAnalysisRepo{items: make(map[int64]domain.Analysis)}
}

func (m *mockAnalysisRepo) Insert(_ context.Context, a domain.Analysis) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.items[a.ID] = a
	return a.ID, nil
}

func (m *mockAnalysisRepo) GetByID(_ context.Context, id int64) (domain.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return domain.Analysis{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *mockAnalysisRepo) ListUnsavedSince(_ context.Context, userID int64, since time.Time) ([]domain.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Analysis
	for _, a := range m.items {
		if a.OwnedBy(userID) && !a.Saved && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAnalysisRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.items {
		if !a.Saved && a.CreatedAt.Before(before) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

type mockCollectionRepo struct {
	mu         sync.Mutex
	items      map[int64]domain.Collection
	nextID     int64
	statusRows []map[string]any
}

func newMockCollectionRepo() *mockCollectionRepo {
	return &mockCollectionRepo{items: make(map[int64]domain.Collection)}
}

func (m *mockCollectionRepo) taken(userID int64, name string, exclude int64) bool {
	for id, c := range m.items {
		if id != exclude && c.UserID == userID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (m *mockCollectionRepo) Insert(_ context.Context, c domain.Collection, _ time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken(c.UserID, c.Name, 0) {
		return 0, repository.ErrDuplicateName
	}
	m.nextID++
	c.ID = m.nextID
	m.items[c.ID] = c
	return c.ID, nil
}

func (m *mockCollectionRepo) Update(_ context.Context, c domain.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[c.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name, existing.Comment = c.Name, c.Comment
	m.items[c.ID] = existing
	return nil
}

func (m *mockCollectionRepo) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok || c.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockCollectionRepo) GetByID(_ context.Context, id int64) (domain.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return domain.Collection{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCollectionRepo) FindForUser(_ context.Context, userID int64, id *int64) ([]domain.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Collection
	for _, c := range m.items {
		if c.UserID == userID && (id == nil || c.ID == *id) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCollectionRepo) NameExists(_ context.Context, userID int64, name string, exclude int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taken(userID, name, exclude), nil
}

func (m *mockCollectionRepo) FindSaveStatus(context.Context, int64, int64) ([]map[string]any, error) {
	return m.statusRows, nil
}

type mockCatalogCache struct {
	calls int
	err   error
}

func (m *mockCatalogCache) Invalidate(context.Context) error {
	m.calls++
	return m.err
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type recordingResults struct {
	mu    sync.Mutex
	codes map[string][]string
}

func (r *recordingResults) RecordResult(op, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codes == nil {
		r.codes = make(map[string][]string)
	}
	r.codes[op] = append(r.codes[op], code)
}

var errCatalogDown = errors.New("catalog unavailable")
