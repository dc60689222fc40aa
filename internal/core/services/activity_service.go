package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/sirupsen/logrus"
)

// cascadeStores are the documents touched when an activity disappears.
var cascadeStores = []domain.StoreName{
	domain.StoreCalendarSchedule,
	domain.StoreActivityCompletion,
	domain.StoreActivityLogs,
}

type ActivityService struct {
	repo     domain.ActivityRepository
	sessions *SessionService
}

func NewActivityService(repo domain.ActivityRepository, sessions *SessionService) *ActivityService {
	return &ActivityService{
		repo:     repo,
		sessions: sessions,
	}
}

type CreateActivityInput struct {
	UserID      string
	Name        string
	Description string
	Icon        string
	Category    string
	ExerciseIDs []string
}

type UpdateActivityInput struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Icon        string
	Category    string
	// ExerciseIDs nil keeps the current exercises, an empty slice clears them.
	ExerciseIDs []string
	Version     int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *ActivityService) resolveExercises(ctx context.Context, userID string, ids []string) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		var err error
		exercises, err = domain.ResolveExercises(ids, st.UserExercises)
		return err
	})
	return exercises, err
}

func (s *ActivityService) Create(ctx context.Context, input CreateActivityInput) (*domain.Activity, error) {
	exercises, err := s.resolveExercises(ctx, input.UserID, input.ExerciseIDs)
	if err != nil {
		return nil, err
	}

	activity, err := domain.NewActivity(
		input.UserID,
		input.Name,
		input.Description,
		domain.Icon(input.Icon),
		domain.ActivityCategory(input.Category),
		exercises,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("activity service: failed to create activity: %w", err)
	}

	err = s.sessions.Mutate(ctx, input.UserID, nil, func(st *domain.State) error {
		st.PutActivity(activity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.sessions.NotifyActivities(ctx, input.UserID)

	return activity, nil
}

func (s *ActivityService) List(ctx context.Context, userID string) ([]*domain.Activity, error) {
	var list []*domain.Activity
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		list = make([]*domain.Activity, 0, len(st.Activities))
		for _, a := range st.Activities {
			clone := *a
			list = append(list, &clone)
		}
		return nil
	})
	return list, err
}

func (s *ActivityService) Update(ctx context.Context, input UpdateActivityInput) (*domain.Activity, error) {
	activity, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if activity.UserID != input.UserID {
		return nil, domain.ErrActivityNotFound
	}
	if input.Version != 0 && input.Version != activity.Version {
		return nil, domain.ErrActivityConflict
	}

	exercises := activity.Exercises
	if input.ExerciseIDs != nil {
		exercises, err = s.resolveExercises(ctx, input.UserID, input.ExerciseIDs)
		if err != nil {
			return nil, err
		}
	}

	err = activity.Update(
		mergeString(input.Name, activity.Name),
		mergeString(input.Description, activity.Description),
		domain.Icon(mergeString(input.Icon, string(activity.Icon))),
		domain.ActivityCategory(mergeString(input.Category, string(activity.Category))),
		exercises,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}

	err = s.sessions.Mutate(ctx, input.UserID, []domain.StoreName{domain.StoreActivityLogs}, func(st *domain.State) error {
		st.PutActivity(activity)
		if n := st.ReconcileActivity(activity.ID); n > 0 {
			logrus.WithFields(logrus.Fields{
				"user_id":     input.UserID,
				"activity_id": activity.ID,
				"rows":        n,
			}).Debug("reconciled logs after exercise change")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.sessions.NotifyActivities(ctx, input.UserID)

	return activity, nil
}

// Delete removes the activity and every scheduled instance of it.
func (s *ActivityService) Delete(ctx context.Context, userID, id string) error {
	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if activity.UserID != userID {
		return domain.ErrActivityNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	err = s.sessions.Mutate(ctx, userID, cascadeStores, func(st *domain.State) error {
		st.RemoveActivity(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.sessions.NotifyActivities(ctx, userID)

	return nil
}
