package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

func TestListActivities(t *testing.T) {
	t.Run("Success: First visit seeds the examples", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodGet, "/api/v1/activities", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		list := decode[[]domain.Activity](t, w)
		assert.Len(t, list, len(domain.ExampleActivities()))
		assert.Contains(t, w.Body.String(), "Tennis Match")
	})

	t.Run("Fail: 401 Unauthorized (Missing User)", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodGet, "/api/v1/activities", "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateActivity(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, a domain.Activity)
	}{
		{
			name:       "Success: Exercises force the Workout category",
			body:       `{"name":"  Upper Blast ","icon":"Zap","category":"Sport","exercise_ids":["ex02","ex05"]}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, a domain.Activity) {
				assert.Equal(t, "Upper Blast", a.Name)
				assert.Equal(t, domain.ActivityCategoryWorkout, a.Category)
				require.Len(t, a.Exercises, 2)
				assert.Equal(t, "Push-ups", a.Exercises[0].Name)
			},
		},
		{
			name:       "Success: Empty icon defaults to Dumbbell",
			body:       `{"name":"Swim","category":"Cardio"}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, a domain.Activity) {
				assert.Equal(t, domain.IconDumbbell, a.Icon)
				assert.Equal(t, domain.ActivityCategoryCardio, a.Category)
			},
		},
		{name: "Fail: 400 Missing Name", body: `{"icon":"Zap"}`, wantStatus: http.StatusBadRequest},
		{name: "Fail: 400 Blank Name", body: `{"name":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "Fail: 400 Unknown Icon", body: `{"name":"Yoga","icon":"Lotus"}`, wantStatus: http.StatusBadRequest},
		{name: "Fail: 400 Unknown Exercise", body: `{"name":"Yoga","exercise_ids":["ex99"]}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			w := h.do(http.MethodPost, "/api/v1/activities", "user-1", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, decode[domain.Activity](t, w))
			}
		})
	}
}

func TestUpdateActivity(t *testing.T) {
	t.Run("Success: 200 OK Partial Update", func(t *testing.T) {
		h := newHarness(t)
		id := h.activityNamed(t, "user-1", "Steady Run")

		w := h.do(http.MethodPut, "/api/v1/activities/"+id, "user-1", `{"name":"Long Run","version":1}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[domain.Activity](t, w)
		assert.Equal(t, "Long Run", updated.Name)
		assert.Equal(t, domain.IconWind, updated.Icon)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Fail: 409 Conflict on stale version", func(t *testing.T) {
		h := newHarness(t)
		id := h.activityNamed(t, "user-1", "Steady Run")

		w := h.do(http.MethodPut, "/api/v1/activities/"+id, "user-1", `{"name":"Long Run","version":7}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "version conflict")
	})

	t.Run("Fail: 404 Not Found (IDOR Protection)", func(t *testing.T) {
		h := newHarness(t)
		id := h.activityNamed(t, "user-1", "Steady Run")

		w := h.do(http.MethodPut, "/api/v1/activities/"+id, "user-2", `{"name":"Hacked"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteActivity(t *testing.T) {
	t.Run("Success: 204 and scheduled instances are removed", func(t *testing.T) {
		h := newHarness(t)
		id := h.activityNamed(t, "user-1", "Tennis Match")
		h.assign(t, "user-1", "2025-06-03", id)
		h.assign(t, "user-1", "2025-06-05", id)

		w := h.do(http.MethodDelete, "/api/v1/activities/"+id, "user-1", "")
		require.Equal(t, http.StatusNoContent, w.Code)

		w = h.do(http.MethodGet, "/api/v1/calendar?view=week&date=2025-06-03", "user-1", "")
		require.Equal(t, http.StatusOK, w.Code)
		for _, day := range decode[[]domain.DayView](t, w) {
			assert.Empty(t, day.Instances, day.Date)
		}
	})

	t.Run("Fail: 404 Unknown Activity", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodDelete, "/api/v1/activities/nope", "user-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestExercises(t *testing.T) {
	t.Run("Success: Lists master library", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodGet, "/api/v1/exercises", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]domain.Exercise](t, w), len(domain.MasterExercises()))
	})

	t.Run("Success: Custom exercise is usable in an activity", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodPost, "/api/v1/exercises", "user-1", `{"name":"Turkish Get-up","details":"Slowly.","category":"Full Body"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ex := decode[domain.Exercise](t, w)
		assert.True(t, strings.HasPrefix(ex.ID, "user-"))

		w = h.do(http.MethodPost, "/api/v1/activities", "user-1", `{"name":"Kettlebell","exercise_ids":["`+ex.ID+`"]}`)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("Fail: 409 Duplicate Name", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodPost, "/api/v1/exercises", "user-1", `{"name":"plank","details":"Again","category":"Core"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail: 400 Unknown Category", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodPost, "/api/v1/exercises", "user-1", `{"name":"Hop","details":"Hop","category":"Arms"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
