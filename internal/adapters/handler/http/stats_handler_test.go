package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

func TestDashboard(t *testing.T) {
	t.Run("Success: Returns today's plan and goal", func(t *testing.T) {
		h := newHarness(t)
		run := h.activityNamed(t, "user-1", "Steady Run")
		today := h.assign(t, "user-1", "2025-06-03", run)
		h.assign(t, "user-1", "2025-06-05", run)

		w := h.do(http.MethodPost, progressPath("2025-06-03", today.InstanceID, "/quick-complete"), "user-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = h.do(http.MethodGet, "/api/v1/dashboard", "user-1", "")

		require.Equal(t, http.StatusOK, w.Code)
		dash := decode[domain.Dashboard](t, w)
		assert.Equal(t, "2025-06-03", dash.Date)
		assert.Equal(t, "June 3rd", dash.DisplayDate)
		assert.Equal(t, 1, dash.Streak)
		assert.Equal(t, 2, dash.WeeklyGoal.Scheduled)
		assert.Equal(t, 1, dash.WeeklyGoal.Completed)
		assert.Equal(t, domain.TierBronze, dash.WeeklyGoal.Tier)
		assert.True(t, dash.Today.Complete)
	})
}

func TestGetPeriodStats(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "Success: Default week range", query: "", wantStatus: http.StatusOK, wantCount: 1},
		{name: "Success: Month range", query: "?range=month", wantStatus: http.StatusOK, wantCount: 1},
		{name: "Success: Custom range outside the log", query: "?range=custom&start=2025-05-01&end=2025-05-31", wantStatus: http.StatusOK},
		{name: "Success: Custom range without bounds is empty", query: "?range=custom", wantStatus: http.StatusOK},
		{name: "Fail: 400 Unknown Range", query: "?range=year", wantStatus: http.StatusBadRequest},
		{name: "Fail: 400 Invalid Start", query: "?range=custom&start=yesterday&end=2025-06-03", wantStatus: http.StatusBadRequest},
		{name: "Fail: 400 End Before Start", query: "?range=custom&start=2025-06-03&end=2025-06-01", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			inst := h.assign(t, "user-1", "2025-06-03", h.activityNamed(t, "user-1", "Tennis Match"))
			w := h.do(http.MethodPut, progressPath("2025-06-03", inst.InstanceID, "/stats"), "user-1", `{"duration":90,"calories":600}`)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = h.do(http.MethodGet, "/api/v1/stats"+tt.query, "user-1", "")

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			stats := decode[domain.PeriodStats](t, w)
			assert.Equal(t, tt.wantCount, stats.CompletedCount)
			if tt.wantCount > 0 {
				assert.Equal(t, 90.0, stats.TotalDuration)
				assert.Equal(t, 600.0, stats.TotalCalories)
				require.Len(t, stats.Categories, 1)
				assert.Equal(t, domain.ActivityCategorySport, stats.Categories[0].Category)
			}
		})
	}
}
