package services_test

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*env, *services.HabitService) {
		e := newEnv(t)
		e.seedActivity(t, "u1", "Morning Run", domain.ActivityCategoryCardio)
		return e, services.NewHabitService(e.sessions, e.clock)
	}

	t.Run("Success: Defaults are listed for a new user", func(t *testing.T) {
		_, svc := setup(t)

		habits, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultHabits(), habits)
	})

	t.Run("Success: Create, toggle and delete", func(t *testing.T) {
		e, svc := setup(t)

		h, err := svc.Create(ctx, "u1", "  Stretch ")
		require.NoError(t, err)
		assert.Equal(t, "Stretch", h.Name)
		assert.Contains(t, h.ID, "custom-")

		done, err := svc.Toggle(ctx, "u1", h.ID, "2024-06-04")
		require.NoError(t, err)
		assert.True(t, done)

		week, err := svc.Week(ctx, "u1", "")
		require.NoError(t, err)
		require.Len(t, week.Dates, 7)
		assert.Equal(t, "2024-06-03", week.Dates[0])

		var row domain.HabitWeekRow
		for _, r := range week.Habits {
			if r.Habit.ID == h.ID {
				row = r
			}
		}
		assert.Equal(t, []bool{false, true, false, false, false, false, false}, row.Done)

		require.NoError(t, svc.Delete(ctx, "u1", h.ID))
		habits, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, habits, len(domain.DefaultHabits()))

		assert.ElementsMatch(t,
			[]domain.StoreName{domain.StoreHabitList, domain.StoreHabitProgress, domain.StoreHabitList},
			e.scheduler.enqueued())
	})

	t.Run("Error: Empty name", func(t *testing.T) {
		_, svc := setup(t)
		_, err := svc.Create(ctx, "u1", "   ")
		assert.ErrorIs(t, err, domain.ErrHabitNameEmpty)
	})

	t.Run("Error: Toggle unknown habit", func(t *testing.T) {
		_, svc := setup(t)
		_, err := svc.Toggle(ctx, "u1", "nope", "2024-06-04")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Error: Delete unknown habit", func(t *testing.T) {
		e, svc := setup(t)
		assert.ErrorIs(t, svc.Delete(ctx, "u1", "nope"), domain.ErrHabitNotFound)
		assert.Empty(t, e.scheduler.enqueued())
	})
}

func TestExerciseService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *services.ExerciseService {
		e := newEnv(t)
		e.seedActivity(t, "u1", "Morning Run", domain.ActivityCategoryCardio)
		return services.NewExerciseService(e.sessions)
	}

	t.Run("Success: User exercises follow the master library", func(t *testing.T) {
		svc := setup(t)

		ex, err := svc.Create(ctx, services.CreateExerciseInput{
			UserID: "u1", Name: "Turkish Get-up", Details: "Slow and controlled", Category: string(domain.ExerciseCategoryFullBody),
		})
		require.NoError(t, err)
		assert.Contains(t, ex.ID, "user-")

		all, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, all, len(domain.MasterExercises())+1)
		assert.Equal(t, ex.ID, all[len(all)-1].ID)
	})

	tests := []struct {
		name    string
		input   services.CreateExerciseInput
		wantErr error
	}{
		{"Error: Missing details", services.CreateExerciseInput{UserID: "u1", Name: "Swing", Category: string(domain.ExerciseCategoryCore)}, domain.ErrExerciseDetailsEmpty},
		{"Error: Bad category", services.CreateExerciseInput{UserID: "u1", Name: "Swing", Details: "x", Category: "Arms"}, domain.ErrInvalidExerciseCategory},
		{"Error: Name clashes with the library", services.CreateExerciseInput{UserID: "u1", Name: "push-ups", Details: "x", Category: string(domain.ExerciseCategoryUpperBody)}, domain.ErrExerciseNameInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := setup(t).Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
