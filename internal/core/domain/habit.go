package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty   = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong = errors.New("habit name is too long (max 100 chars)")
	ErrHabitNotFound    = errors.New("habit not found")
)

type Habit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewHabit(name string) (*Habit, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return nil, ErrHabitNameTooLong
	}

	return &Habit{
		ID:   "custom-" + uuid.New().String(),
		Name: trimmed,
	}, nil
}

// HabitProgress is date -> habit id -> done.
type HabitProgress map[string]map[string]bool

func (p HabitProgress) Done(date, habitID string) bool {
	return p[date][habitID]
}

func (p HabitProgress) Toggle(date, habitID string) bool {
	byHabit := p[date]
	if byHabit == nil {
		byHabit = make(map[string]bool)
		p[date] = byHabit
	}
	byHabit[habitID] = !byHabit[habitID]
	return byHabit[habitID]
}

func (p HabitProgress) prune() {
	for date, byHabit := range p {
		if len(byHabit) == 0 {
			delete(p, date)
		}
	}
}
