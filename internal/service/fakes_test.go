package service_test

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sweet-shop/internal/domain"
	"github.com/spec-kit/sweet-shop/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, *user)
	}
	return result, nil
}

// fakeSweetRepo is an in-memory SweetRepository.
type fakeSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]*domain.Sweet
	lists  int
}

func newFakeSweetRepo() *fakeSweetRepo {
	return &fakeSweetRepo{sweets: make(map[string]*domain.Sweet)}
}

func (f *fakeSweetRepo) Create(_ context.Context, sweet *domain.Sweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *sweet
	f.sweets[sweet.ID] = &copied
	return nil
}

func (f *fakeSweetRepo) Update(_ context.Context, sweet *domain.Sweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sweets[sweet.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *sweet
	f.sweets[sweet.ID] = &copied
	return nil
}

func (f *fakeSweetRepo) GetByID(_ context.Context, id string) (*domain.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sweet, ok := f.sweets[id]; ok {
		copied := *sweet
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSweetRepo) ListActive(_ context.Context) ([]domain.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var result []domain.Sweet
	for _, sweet := range f.sweets {
		if sweet.Active {
			result = append(result, *sweet)
		}
	}
	return result, nil
}

func (f *fakeSweetRepo) Search(_ context.Context, filter repository.SweetFilter) ([]domain.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Sweet
	for _, sweet := range f.sweets {
		if !sweet.Active {
			continue
		}
		if filter.Category != nil && sweet.Category != *filter.Category {
			continue
		}
		result = append(result, *sweet)
	}
	return result, nil
}

// fakeCache records cache interactions.
type fakeCache struct {
	mu          sync.Mutex
	cached      []domain.Sweet
	valid       bool
	sets        int
	invalidates int
}

func (f *fakeCache) Get(_ context.Context) ([]domain.Sweet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid {
		return nil, false
	}
	return f.cached, true
}

func (f *fakeCache) Set(_ context.Context, sweets []domain.Sweet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached = sweets
	f.valid = true
	f.sets++
}

func (f *fakeCache) Invalidate(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached = nil
	f.valid = false
	f.invalidates++
}
