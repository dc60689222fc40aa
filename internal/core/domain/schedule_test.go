package domain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarSchedule_AssignUnassign(t *testing.T) {
	t.Run("Success: Round trip restores the date", func(t *testing.T) {
		s := domain.CalendarSchedule{
			"2024-06-03": {{InstanceID: "i0", ActivityID: "a0"}},
		}
		before := s.Clone()

		inst := s.Assign("2024-06-03", "a1")
		assert.True(t, strings.HasPrefix(inst.InstanceID, "inst_"))
		assert.Len(t, s["2024-06-03"], 2)

		assert.True(t, s.Unassign("2024-06-03", inst.InstanceID))
		assert.Equal(t, before, s)
	})

	t.Run("Success: Round trip on an empty date removes the key", func(t *testing.T) {
		s := domain.CalendarSchedule{}
		inst := s.Assign("2024-06-04", "a1")

		assert.True(t, s.Unassign("2024-06-04", inst.InstanceID))
		_, exists := s["2024-06-04"]
		assert.False(t, exists)
	})

	t.Run("Success: Same activity many times", func(t *testing.T) {
		s := domain.CalendarSchedule{}
		a := s.Assign("2024-06-05", "a1")
		b := s.Assign("2024-06-05", "a1")

		assert.NotEqual(t, a.InstanceID, b.InstanceID)
		assert.Equal(t, []domain.ScheduledInstance{a, b}, s["2024-06-05"])
	})

	t.Run("Error: Unknown instance", func(t *testing.T) {
		s := domain.CalendarSchedule{"2024-06-03": {{InstanceID: "i0", ActivityID: "a0"}}}
		assert.False(t, s.Unassign("2024-06-03", "nope"))
		assert.False(t, s.Unassign("2024-06-04", "i0"))
		assert.Len(t, s["2024-06-03"], 1)
	})
}

func TestCalendarSchedule_RemoveActivity(t *testing.T) {
	s := domain.CalendarSchedule{}
	expected := 0

	for i := 0; i < 60; i++ {
		date := fmt.Sprintf("2024-06-%02d", gofakeit.Number(1, 30))
		activity := gofakeit.RandomString([]string{"victim", "keep-1", "keep-2"})
		s.Assign(date, activity)
		if activity == "victim" {
			expected++
		}
	}

	removed := s.RemoveActivity("victim")

	count := 0
	for _, list := range removed {
		count += len(list)
	}
	assert.Equal(t, expected, count)

	for date, list := range s {
		require.NotEmpty(t, list, "date %s left with an empty list", date)
		for _, inst := range list {
			assert.NotEqual(t, "victim", inst.ActivityID)
		}
	}
}
