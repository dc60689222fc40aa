package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

type ExerciseService struct {
	sessions *SessionService
}

func NewExerciseService(sessions *SessionService) *ExerciseService {
	return &ExerciseService{
		sessions: sessions,
	}
}

type CreateExerciseInput struct {
	UserID   string
	Name     string
	Details  string
	Category string
}

// List returns the master library followed by the user's own exercises.
func (s *ExerciseService) List(ctx context.Context, userID string) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		exercises = st.AllExercises()
		return nil
	})
	return exercises, err
}

func (s *ExerciseService) Create(ctx context.Context, input CreateExerciseInput) (*domain.Exercise, error) {
	exercise, err := domain.NewExercise(input.Name, input.Details, domain.ExerciseCategory(input.Category))
	if err != nil {
		return nil, err
	}

	err = s.sessions.Mutate(ctx, input.UserID, []domain.StoreName{domain.StoreUserExercises}, func(st *domain.State) error {
		return st.AddUserExercise(*exercise)
	})
	if err != nil {
		return nil, err
	}
	return exercise, nil
}
