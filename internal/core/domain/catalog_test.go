package domain_test

import (
	"testing"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterExercises(t *testing.T) {
	exercises := domain.MasterExercises()
	require.Len(t, exercises, 37)

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for _, ex := range exercises {
		assert.False(t, ids[ex.ID], "duplicate id %s", ex.ID)
		assert.False(t, names[ex.Name], "duplicate name %s", ex.Name)
		assert.True(t, ex.Category.Valid(), "invalid category for %s", ex.Name)
		assert.NotEmpty(t, ex.Details)
		ids[ex.ID] = true
		names[ex.Name] = true
	}

	t.Run("Success: Returns a copy", func(t *testing.T) {
		exercises[0].Name = "Mutated"
		assert.Equal(t, "Goblet Squat", domain.MasterExercises()[0].Name)
	})
}

func TestExampleActivities(t *testing.T) {
	examples := domain.ExampleActivities()
	require.Len(t, examples, 7)

	for _, a := range examples {
		t.Run("Success: "+a.Name+" is a valid template", func(t *testing.T) {
			assert.True(t, a.Icon.Valid())
			assert.True(t, a.Category.Valid())

			if len(a.Exercises) > 0 {
				assert.Equal(t, domain.ActivityCategoryWorkout, a.Category)
				assert.Len(t, a.Exercises, 5)
			}

			_, err := domain.NewActivity("u1", a.Name, a.Description, a.Icon, a.Category, a.Exercises)
			assert.NoError(t, err)
		})
	}

	assert.Equal(t, domain.ActivityCategorySport, examples[6].Category)
	assert.Empty(t, examples[5].Exercises)
}

func TestDefaultHabits(t *testing.T) {
	habits := domain.DefaultHabits()
	require.Len(t, habits, 3)
	assert.Equal(t, "hydrate", habits[0].ID)
	assert.Equal(t, "Drink 3L Water", habits[0].Name)
	assert.Equal(t, "protein", habits[2].ID)
}

func TestEnums(t *testing.T) {
	assert.True(t, domain.IconHeartPulse.Valid())
	assert.False(t, domain.Icon("Bicycle").Valid())
	assert.True(t, domain.ActivityCategoryCardio.Valid())
	assert.False(t, domain.ActivityCategory("Yoga").Valid())
	assert.True(t, domain.ExerciseCategoryFullBody.Valid())
	assert.False(t, domain.ExerciseCategory("Legs").Valid())
}
