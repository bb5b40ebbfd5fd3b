package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"coffee-reco/internal/domain"
	"coffee-reco/internal/repository"
)

type fakeCatalog struct {
	profiles []domain.CoffeeProfile
	err      error
	calls    int
}

func (f *fakeCatalog) FetchProfiles(context.Context) ([]domain.CoffeeProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

func (f *fakeCatalog) GetProfile(_ context.Context, coffeeID int64) (domain.CoffeeProfile, error) {
	if f.err != nil {
		return domain.CoffeeProfile{}, f.err
	}
	for _, p := range f.profiles {
		if p.ID == coffeeID {
			return p, nil
		}
	}
	return domain.CoffeeProfile{}, pgx.ErrNoRows
}

// fakeAnalysisRepo imita la tabla analyses en memoria.
type fakeAnalysisRepo struct {
	mu        sync.Mutex
	items     map[int64]domain.Analysis
	nextID    int64
	stale     []domain.Analysis
	insertErr error
	getErr    error
	listErr   error
	deleteErr error
	since     time.Time
	before    time.Time
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{items: make(map[int64]domain.Analysis)}
}

func (f *fakeAnalysisRepo) put(a domain.Analysis) domain.Analysis {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	f.items[a.ID] = a
	return a
}

func (f *fakeAnalysisRepo) Insert(_ context.Context, a domain.Analysis) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	return f.put(a).ID, nil
}

func (f *fakeAnalysisRepo) GetByID(_ context.Context, id int64) (domain.Analysis, error) {
	if f.getErr != nil {
		return domain.Analysis{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return domain.Analysis{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeAnalysisRepo) ListUnsavedSince(_ context.Context, userID int64, since time.Time) ([]domain.Analysis, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = since
	var out []domain.Analysis
	for _, a := range f.items {
		if a.OwnedBy(userID) && !a.Saved && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	// filas que un store con otra precision podria devolver
	out = append(out, f.stale...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeAnalysisRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = before
	var n int64
	for id, a := range f.items {
		if !a.Saved && a.CreatedAt.Before(before) {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

// live replica la condicion de la marca en la transaccion de insert.
func (f *fakeAnalysisRepo) live(id int64, since time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	return ok && (a.Saved || !a.CreatedAt.Before(since))
}

func (f *fakeAnalysisRepo) setSaved(id int64, saved bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.items[id]; ok {
		a.Saved = saved
		f.items[id] = a
	}
}

// fakeCollectionRepo hace cumplir la unicidad (user_id, lower(nombre)) dentro de Insert y Update
// igual que el indice unico, bajo un mutex.
type fakeCollectionRepo struct {
	mu           sync.Mutex
	items        map[int64]domain.Collection
	nextID       int64
	analyses     *fakeAnalysisRepo
	skipPrecheck bool
	statusRows   []map[string]any
	err          error
	insertCalls  int
}

func newFakeCollectionRepo(analyses *fakeAnalysisRepo) *fakeCollectionRepo {
	return &fakeCollectionRepo{items: make(map[int64]domain.Collection), analyses: analyses}
}

func (f *fakeCollectionRepo) nameTakenLocked(userID int64, name string, excludeID int64) bool {
	for id, c := range f.items {
		if id != excludeID && c.UserID == userID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (f *fakeCollectionRepo) Insert(_ context.Context, c domain.Collection, liveSince time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.analyses != nil && !f.analyses.live(c.AnalysisID, liveSince) {
		return 0, pgx.ErrNoRows
	}
	if f.nameTakenLocked(c.UserID, c.Name, 0) {
		return 0, repository.ErrDuplicateName
	}
	f.nextID++
	c.ID = f.nextID
	f.items[c.ID] = c
	if f.analyses != nil {
		f.analyses.setSaved(c.AnalysisID, true)
	}
	return c.ID, nil
}

func (f *fakeCollectionRepo) Update(_ context.Context, c domain.Collection) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.items[c.ID]
	if !ok || existing.UserID != c.UserID {
		return pgx.ErrNoRows
	}
	if f.nameTakenLocked(c.UserID, c.Name, c.ID) {
		return repository.ErrDuplicateName
	}
	existing.Name = c.Name
	existing.Comment = c.Comment
	existing.UpdatedAt = c.UpdatedAt
	f.items[c.ID] = existing
	return nil
}

func (f *fakeCollectionRepo) Delete(_ context.Context, userID, collectionID int64) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.items[collectionID]
	if !ok || existing.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.items, collectionID)
	stillLinked := false
	for _, c := range f.items {
		if c.AnalysisID == existing.AnalysisID {
			stillLinked = true
		}
	}
	if f.analyses != nil {
		f.analyses.setSaved(existing.AnalysisID, stillLinked)
	}
	return nil
}

func (f *fakeCollectionRepo) GetByID(_ context.Context, collectionID int64) (domain.Collection, error) {
	if f.err != nil {
		return domain.Collection{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[collectionID]
	if !ok {
		return domain.Collection{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCollectionRepo) FindForUser(_ context.Context, userID int64, collectionID *int64) ([]domain.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Collection
	for _, c := range f.items {
		if c.UserID != userID {
			continue
		}
		if collectionID != nil && c.ID != *collectionID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeCollectionRepo) NameExists(_ context.Context, userID int64, name string, excludeID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.skipPrecheck {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nameTakenLocked(userID, name, excludeID), nil
}

func (f *fakeCollectionRepo) FindSaveStatus(context.Context, int64, int64) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statusRows, nil
}

type recordingMetrics struct {
	ranks []string
	swept int64
}

func (r *recordingMetrics) ObserveRank(op string, _ time.Duration) { r.ranks = append(r.ranks, op) }
func (r *recordingMetrics) AddSwept(n int64)                       { r.swept += n }

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func prefInput(aroma, acidity, nutty, body, sweetness int) domain.PreferenceInput {
	return domain.PreferenceInput{
		Aroma:     intPtr(aroma),
		Acidity:   intPtr(acidity),
		Nutty:     intPtr(nutty),
		Body:      intPtr(body),
		Sweetness: intPtr(sweetness),
	}
}
