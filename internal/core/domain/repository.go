package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrActivityConflict = errors.New("activity was modified concurrently")
	ErrDocumentNotFound = errors.New("document not found")
)

type ActivityRepository interface {
	// Create persists a new activity in the user's collection.
	Create(ctx context.Context, activity *Activity) error

	// GetByID retrieves an activity by its unique identifier.
	GetByID(ctx context.Context, id string) (*Activity, error)

	// ListByUserID returns the user's whole activity collection.
	ListByUserID(ctx context.Context, userID string) ([]*Activity, error)

	// Update overwrites an existing activity, checking its version.
	Update(ctx context.Context, activity *Activity) error

	// Delete permanently removes an activity.
	Delete(ctx context.Context, id string) error
}

// Document is the remote copy of one user store.
type Document struct {
	UserID    string          `json:"user_id"`
	Store     StoreName       `json:"store"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type DocumentRepository interface {
	// LoadAll returns every stored document of the user. Missing stores are
	// simply absent from the result.
	LoadAll(ctx context.Context, userID string) ([]Document, error)

	// Load returns one document or ErrDocumentNotFound.
	Load(ctx context.Context, userID string, store StoreName) (*Document, error)

	// Save upserts the document and returns the version it was stored as.
	Save(ctx context.Context, userID string, store StoreName, data json.RawMessage) (int64, error)
}

// ChangeEvent announces that a user's store has a new remote version.
type ChangeEvent struct {
	UserID  string    `json:"user_id"`
	Store   StoreName `json:"store"`
	Version int64     `json:"version"`
	Origin  string    `json:"origin"`
}

type ChangeNotifier interface {
	// Publish broadcasts ev to every subscriber of ev.UserID.
	Publish(ctx context.Context, ev ChangeEvent) error

	// Subscribe calls onChange for every event of userID until the returned
	// function is called or ctx is done.
	Subscribe(ctx context.Context, userID string, onChange func(ChangeEvent)) (func(), error)
}

type CompletionEvent struct {
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	InstanceID string    `json:"instance_id"`
	ActivityID string    `json:"activity_id"`
	Complete   bool      `json:"complete"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishCompletion(ctx context.Context, ev CompletionEvent) error
	Close() error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
