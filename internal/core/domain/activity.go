package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrActivityNameEmpty     = errors.New("activity name cannot be empty")
	ErrActivityNameTooLong   = errors.New("activity name is too long (max 100 chars)")
	ErrActivityDescTooLong   = errors.New("activity description is too long (max 500 chars)")
	ErrActivityInvalidUserID = errors.New("invalid user id")
	ErrDuplicateExercise     = errors.New("exercise names must be unique within an activity")
	ErrExerciseNameEmpty     = errors.New("exercise name cannot be empty")
	ErrExerciseDetailsEmpty  = errors.New("exercise details cannot be empty")
	ErrExerciseNotInActivity = errors.New("exercise does not belong to this activity")
	ErrUnknownExercise       = errors.New("unknown exercise id")
	ErrExerciseNameInUse     = errors.New("an exercise with this name already exists")
)

const (
	MaxNameLen = 100
	MaxDescLen = 500
)

type Activity struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        Icon             `json:"icon"`
	Category    ActivityCategory `json:"category"`
	Exercises   []Exercise       `json:"exercises"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func validateActivity(name, description string, icon Icon, category ActivityCategory, exercises []Exercise) (string, Icon, ActivityCategory, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return "", "", "", ErrActivityNameEmpty
	}
	if len(trimmedName) > MaxNameLen {
		return "", "", "", ErrActivityNameTooLong
	}
	if len(description) > MaxDescLen {
		return "", "", "", ErrActivityDescTooLong
	}

	if icon == "" {
		icon = DefaultIcon
	}
	if !icon.Valid() {
		return "", "", "", ErrInvalidIcon
	}

	if category == "" {
		category = ActivityCategoryWorkout
	}
	if !category.Valid() {
		return "", "", "", ErrInvalidActivityCategory
	}

	seen := make(map[string]bool, len(exercises))
	for _, ex := range exercises {
		if seen[ex.Name] {
			return "", "", "", ErrDuplicateExercise
		}
		seen[ex.Name] = true
	}

	// Exercise-bearing activities are always workouts.
	if len(exercises) > 0 {
		category = ActivityCategoryWorkout
	}

	return trimmedName, icon, category, nil
}

func NewActivity(userID, name, description string, icon Icon, category ActivityCategory, exercises []Exercise) (*Activity, error) {
	if userID == "" {
		return nil, ErrActivityInvalidUserID
	}

	cleanDesc := strings.TrimSpace(description)
	cleanName, safeIcon, safeCategory, err := validateActivity(name, cleanDesc, icon, category, exercises)
	if err != nil {
		return nil, err
	}

	if exercises == nil {
		exercises = []Exercise{}
	}

	now := time.Now().UTC()
	return &Activity{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        cleanName,
		Description: cleanDesc,
		Icon:        safeIcon,
		Category:    safeCategory,
		Exercises:   exercises,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (a *Activity) Update(name, description string, icon Icon, category ActivityCategory, exercises []Exercise) error {
	cleanDesc := strings.TrimSpace(description)
	cleanName, safeIcon, safeCategory, err := validateActivity(name, cleanDesc, icon, category, exercises)
	if err != nil {
		return err
	}

	if exercises == nil {
		exercises = []Exercise{}
	}

	a.Name = cleanName
	a.Description = cleanDesc
	a.Icon = safeIcon
	a.Category = safeCategory
	a.Exercises = exercises
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *Activity) HasExercises() bool {
	return len(a.Exercises) > 0
}

func (a *Activity) HasExercise(name string) bool {
	for _, ex := range a.Exercises {
		if ex.Name == name {
			return true
		}
	}
	return false
}

// NewExercise builds a user-defined exercise. Both name and details are
// required.
func NewExercise(name, details string, category ExerciseCategory) (*Exercise, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, ErrExerciseNameEmpty
	}
	if len(cleanName) > MaxNameLen {
		return nil, ErrActivityNameTooLong
	}

	cleanDetails := strings.TrimSpace(details)
	if cleanDetails == "" {
		return nil, ErrExerciseDetailsEmpty
	}

	if !category.Valid() {
		return nil, ErrInvalidExerciseCategory
	}

	return &Exercise{
		ID:       "user-" + uuid.New().String(),
		Name:     cleanName,
		Details:  cleanDetails,
		Category: category,
	}, nil
}

// ResolveExercises maps exercise ids to entries of the master library or
// the user's own exercises, keeping the requested order.
func ResolveExercises(ids []string, userExercises []Exercise) ([]Exercise, error) {
	index := make(map[string]Exercise, len(masterExercises)+len(userExercises))
	for _, ex := range masterExercises {
		index[ex.ID] = ex
	}
	for _, ex := range userExercises {
		index[ex.ID] = ex
	}

	out := make([]Exercise, 0, len(ids))
	for _, id := range ids {
		ex, ok := index[id]
		if !ok {
			return nil, ErrUnknownExercise
		}
		out = append(out, ex)
	}
	return out, nil
}
