package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

var (
	_ domain.ActivityRepository = (*InMemoryActivityRepository)(nil)
	_ domain.DocumentRepository = (*InMemoryDocumentRepository)(nil)
	_ domain.UserRepository     = (*InMemoryUserRepository)(nil)
)

type InMemoryActivityRepository struct {
	store map[string]*domain.Activity

	mu sync.RWMutex
}

func NewInMemoryActivityRepository() *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		store: make(map[string]*domain.Activity),
	}
}

func cloneActivity(a *domain.Activity) *domain.Activity {
	clone := *a
	clone.Exercises = append([]domain.Exercise{}, a.Exercises...)
	return &clone
}

func (r *InMemoryActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.Version = 1
	r.store[a.ID] = cloneActivity(a)
	return nil
}

func (r *InMemoryActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.store[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return cloneActivity(a), nil
}

func (r *InMemoryActivityRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []*domain.Activity{}
	for _, a := range r.store {
		if a.UserID == userID {
			list = append(list, cloneActivity(a))
		}
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

func (r *InMemoryActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[a.ID]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if existing.Version != a.Version {
		return domain.ErrActivityConflict
	}

	a.Version++
	a.UpdatedAt = time.Now().UTC()
	r.store[a.ID] = cloneActivity(a)
	return nil
}

func (r *InMemoryActivityRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrActivityNotFound
	}
	delete(r.store, id)
	return nil
}

type documentKey struct {
	userID string
	store  domain.StoreName
}

type InMemoryDocumentRepository struct {
	docs map[documentKey]domain.Document

	mu sync.RWMutex
}

func NewInMemoryDocumentRepository() *InMemoryDocumentRepository {
	return &InMemoryDocumentRepository{
		docs: make(map[documentKey]domain.Document),
	}
}

func (r *InMemoryDocumentRepository) LoadAll(ctx context.Context, userID string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Document
	for key, doc := range r.docs {
		if key.userID == userID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *InMemoryDocumentRepository) Load(ctx context.Context, userID string, store domain.StoreName) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[documentKey{userID, store}]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &doc, nil
}

func (r *InMemoryDocumentRepository) Save(ctx context.Context, userID string, store domain.StoreName, data json.RawMessage) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := documentKey{userID, store}
	doc := r.docs[key]
	doc.UserID = userID
	doc.Store = store
	doc.Data = append(json.RawMessage(nil), data...)
	doc.Version++
	doc.UpdatedAt = time.Now().UTC()
	r.docs[key] = doc

	return doc.Version, nil
}

type InMemoryUserRepository struct {
	byID map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}
