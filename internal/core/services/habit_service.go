package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

type HabitService struct {
	sessions *SessionService
	clock    Clock
}

func NewHabitService(sessions *SessionService, clock Clock) *HabitService {
	return &HabitService{
		sessions: sessions,
		clock:    clock,
	}
}

func (s *HabitService) List(ctx context.Context, userID string) ([]domain.Habit, error) {
	var habits []domain.Habit
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		habits = append([]domain.Habit(nil), st.Habits...)
		return nil
	})
	return habits, err
}

func (s *HabitService) Create(ctx context.Context, userID, name string) (*domain.Habit, error) {
	habit, err := domain.NewHabit(name)
	if err != nil {
		return nil, err
	}

	err = s.sessions.Mutate(ctx, userID, []domain.StoreName{domain.StoreHabitList}, func(st *domain.State) error {
		st.AddHabit(*habit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// Delete removes the habit from the list. Its past checkmarks are kept.
func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	return s.sessions.Mutate(ctx, userID, []domain.StoreName{domain.StoreHabitList}, func(st *domain.State) error {
		return st.RemoveHabit(habitID)
	})
}

func (s *HabitService) Toggle(ctx context.Context, userID, habitID, date string) (bool, error) {
	var done bool
	err := s.sessions.Mutate(ctx, userID, []domain.StoreName{domain.StoreHabitProgress}, func(st *domain.State) error {
		var err error
		done, err = st.ToggleHabit(habitID, date)
		return err
	})
	return done, err
}

// Week returns the checkmark grid of the week containing anchor. An empty
// anchor means the current week.
func (s *HabitService) Week(ctx context.Context, userID, anchor string) (domain.HabitWeek, error) {
	at := s.clock.Today()
	if anchor != "" {
		parsed, err := domain.ParseDate(anchor)
		if err != nil {
			return domain.HabitWeek{}, err
		}
		at = parsed
	}

	var week domain.HabitWeek
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		week = st.HabitWeek(at)
		return nil
	})
	return week, err
}
