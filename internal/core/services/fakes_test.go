package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

var errBoom = errors.New("boom")

func ptr[T any](v T) *T {
	return &v
}

type MockDocs struct {
	mu            sync.Mutex
	store         map[string]map[domain.StoreName]domain.Document
	saves         int
	simulateError error
}

func NewMockDocs() *MockDocs {
	return &MockDocs{store: make(map[string]map[domain.StoreName]domain.Document)}
}

func (m *MockDocs) put(userID string, store domain.StoreName, data string, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store[userID] == nil {
		m.store[userID] = make(map[domain.StoreName]domain.Document)
	}
	m.store[userID][store] = domain.Document{UserID: userID, Store: store, Data: json.RawMessage(data), Version: version}
}

func (m *MockDocs) LoadAll(ctx context.Context, userID string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var out []domain.Document
	for _, doc := range m.store[userID] {
		out = append(out, doc)
	}
	return out, nil
}

func (m *MockDocs) Load(ctx context.Context, userID string, store domain.StoreName) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.store[userID][store]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &doc, nil
}

func (m *MockDocs) Save(ctx context.Context, userID string, store domain.StoreName, data json.RawMessage) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return 0, m.simulateError
	}
	if m.store[userID] == nil {
		m.store[userID] = make(map[domain.StoreName]domain.Document)
	}
	doc := m.store[userID][store]
	doc.UserID, doc.Store, doc.Data = userID, store, data
	doc.Version++
	doc.UpdatedAt = time.Now()
	m.store[userID][store] = doc
	m.saves++
	return doc.Version, nil
}

type MockActivities struct {
	mu            sync.Mutex
	store         map[string]*domain.Activity
	simulateError error
}

func NewMockActivities() *MockActivities {
	return &MockActivities{store: make(map[string]*domain.Activity)}
}

func (m *MockActivities) Create(ctx context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *a
	m.store[a.ID] = &clone
	return nil
}

func (m *MockActivities) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *MockActivities) ListByUserID(ctx context.Context, userID string) ([]*domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Activity
	for _, a := range m.store {
		if a.UserID == userID {
			clone := *a
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockActivities) Update(ctx context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.store[a.ID]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if existing.Version != a.Version {
		return domain.ErrActivityConflict
	}
	a.Version++
	clone := *a
	m.store[a.ID] = &clone
	return nil
}

func (m *MockActivities) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrActivityNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockActivities) count(userID string) int {
	list, _ := m.ListByUserID(context.Background(), userID)
	return len(list)
}

// MockNotifier delivers published events synchronously to subscribers.
type MockNotifier struct {
	mu        sync.Mutex
	published    []domain.ChangeEvent
	handlers     map[string][]func(domain.ChangeEvent)
	unsubscribed map[string]int
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		handlers:     make(map[string][]func(domain.ChangeEvent)),
		unsubscribed: make(map[string]int),
	}
}

func (m *MockNotifier) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	m.mu.Lock()
	m.published = append(m.published, ev)
	m.mu.Unlock()
	return nil
}

func (m *MockNotifier) Subscribe(ctx context.Context, userID string, onChange func(domain.ChangeEvent)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[userID] = append(m.handlers[userID], onChange)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.unsubscribed[userID]++
	}, nil
}

func (m *MockNotifier) unsubscribes(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed[userID]
}

// emit simulates an event coming from another process.
func (m *MockNotifier) emit(ev domain.ChangeEvent) {
	m.mu.Lock()
	handlers := append([]func(domain.ChangeEvent){}, m.handlers[ev.UserID]...)
	m.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (m *MockNotifier) events() []domain.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChangeEvent(nil), m.published...)
}

type MockScheduler struct {
	mu   sync.Mutex
	jobs []domain.StoreName
}

func (m *MockScheduler) Enqueue(userID string, store domain.StoreName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, store)
}

func (m *MockScheduler) enqueued() []domain.StoreName {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.StoreName(nil), m.jobs...)
}

type MockPublisher struct {
	mu            sync.Mutex
	events        []domain.CompletionEvent
	simulateError error
}

func (m *MockPublisher) PublishCompletion(ctx context.Context, ev domain.CompletionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func (m *MockPublisher) published() []domain.CompletionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompletionEvent(nil), m.events...)
}

type env struct {
	docs       *MockDocs
	activities *MockActivities
	notifier   *MockNotifier
	scheduler  *MockScheduler
	publisher  *MockPublisher
	sessions   *services.SessionService
	clock      services.Clock
}

// june3 is a Monday.
var june3 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		docs:       NewMockDocs(),
		activities: NewMockActivities(),
		notifier:   NewMockNotifier(),
		scheduler:  &MockScheduler{},
		publisher:  &MockPublisher{},
		clock: services.Clock{
			Now:      func() time.Time { return june3.Add(10 * time.Hour) },
			Location: time.UTC,
		},
	}
	e.sessions = services.NewSessionService(e.docs, e.activities, e.notifier, metrics.NewTestManager())
	e.sessions.SetScheduler(e.scheduler)
	t.Cleanup(e.sessions.Close)
	return e
}

// seedActivity stores an activity so that the user's first load skips the
// example templates.
func (e *env) seedActivity(t *testing.T, userID, name string, category domain.ActivityCategory, exercises ...string) *domain.Activity {
	t.Helper()

	var list []domain.Exercise
	for _, ex := range domain.MasterExercises() {
		for _, want := range exercises {
			if ex.Name == want {
				list = append(list, ex)
			}
		}
	}

	a, err := domain.NewActivity(userID, name, "", domain.IconDumbbell, category, list)
	if err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	if err := e.activities.Create(context.Background(), a); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return a
}
