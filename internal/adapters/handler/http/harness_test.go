package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/events"
	adapterHTTP "github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

// june3 is a Tuesday.
var june3 = time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

type harness struct {
	router   *gin.Engine
	notifier *notify.LocalChangeNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.NewTestManager()
	activities := repository.NewInMemoryActivityRepository()
	docs := repository.NewInMemoryDocumentRepository()
	notifier := notify.NewLocalChangeNotifier()

	sessions := services.NewSessionService(docs, activities, notifier, m)
	t.Cleanup(sessions.Close)

	clock := services.Clock{Now: func() time.Time { return june3 }, Location: time.UTC}

	activityHandler := adapterHTTP.NewActivityHandler(
		services.NewActivityService(activities, sessions),
		services.NewExerciseService(sessions),
	)
	trackerHandler := adapterHTTP.NewTrackerHandler(services.NewTrackerService(sessions, events.NopPublisher{}, clock, m))
	habitHandler := adapterHTTP.NewHabitHandler(services.NewHabitService(sessions, clock))
	statsHandler := adapterHTTP.NewStatsHandler(services.NewStatsService(sessions, clock))
	syncHandler := adapterHTTP.NewSyncHandler(notifier, time.Hour)

	r := gin.New()
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	activityHandler.RegisterRoutes(api)
	trackerHandler.RegisterRoutes(api)
	habitHandler.RegisterRoutes(api)
	statsHandler.RegisterRoutes(api)
	syncHandler.RegisterRoutes(api)

	return &harness{router: r, notifier: notifier}
}

func (h *harness) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// activityNamed returns the id of one of the seeded example activities.
func (h *harness) activityNamed(t *testing.T, userID, name string) string {
	t.Helper()
	w := h.do(http.MethodGet, "/api/v1/activities", userID, "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, a := range decode[[]domain.Activity](t, w) {
		if a.Name == name {
			return a.ID
		}
	}
	t.Fatalf("activity %q not found", name)
	return ""
}

func (h *harness) assign(t *testing.T, userID, date, activityID string) domain.ScheduledInstance {
	t.Helper()
	w := h.do(http.MethodPost, "/api/v1/schedule/"+date, userID, `{"activity_id":"`+activityID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.ScheduledInstance](t, w)
}
