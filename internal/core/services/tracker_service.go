package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
	"github.com/sirupsen/logrus"
)

var ErrInvalidView = errors.New("calendar view must be week or month")

var progressStores = []domain.StoreName{
	domain.StoreActivityCompletion,
	domain.StoreActivityLogs,
}

// TrackerService schedules activity instances and records their progress.
type TrackerService struct {
	sessions  *SessionService
	publisher domain.EventPublisher
	clock     Clock
	metrics   *metrics.Manager
}

func NewTrackerService(sessions *SessionService, publisher domain.EventPublisher, clock Clock, m *metrics.Manager) *TrackerService {
	return &TrackerService{
		sessions:  sessions,
		publisher: publisher,
		clock:     clock,
		metrics:   m,
	}
}

type ToggleExerciseInput struct {
	UserID     string
	Date       string
	InstanceID string
	Exercise   string
	Stats      domain.LogStats
}

func (s *TrackerService) Assign(ctx context.Context, userID, date, activityID string) (domain.ScheduledInstance, error) {
	var inst domain.ScheduledInstance
	err := s.sessions.Mutate(ctx, userID, []domain.StoreName{domain.StoreCalendarSchedule}, func(st *domain.State) error {
		var err error
		inst, err = st.Assign(date, activityID)
		return err
	})
	return inst, err
}

func (s *TrackerService) Unassign(ctx context.Context, userID, date, instanceID string) error {
	return s.sessions.Mutate(ctx, userID, cascadeStores, func(st *domain.State) error {
		return st.Unassign(date, instanceID)
	})
}

func (s *TrackerService) ToggleExercise(ctx context.Context, input ToggleExerciseInput) (bool, error) {
	return s.toggle(ctx, input.UserID, input.Date, input.InstanceID, func(st *domain.State) (bool, error) {
		return st.ToggleExercise(input.Date, input.InstanceID, input.Exercise, input.Stats)
	})
}

func (s *TrackerService) ToggleInstance(ctx context.Context, userID, date, instanceID string) (bool, error) {
	return s.toggle(ctx, userID, date, instanceID, func(st *domain.State) (bool, error) {
		return st.ToggleInstanceHeader(date, instanceID)
	})
}

func (s *TrackerService) QuickComplete(ctx context.Context, userID, date, instanceID string) (bool, error) {
	return s.toggle(ctx, userID, date, instanceID, func(st *domain.State) (bool, error) {
		return st.QuickComplete(date, instanceID)
	})
}

func (s *TrackerService) toggle(ctx context.Context, userID, date, instanceID string, fn func(st *domain.State) (bool, error)) (bool, error) {
	var (
		before, after bool
		activityID    string
	)

	err := s.sessions.Mutate(ctx, userID, progressStores, func(st *domain.State) error {
		if inst, ok := st.Schedule.Instance(date, instanceID); ok {
			activityID = inst.ActivityID
			before = st.InstanceComplete(date, inst)
		}
		var err error
		after, err = fn(st)
		return err
	})
	if err != nil {
		return false, err
	}

	if before != after {
		s.publish(ctx, domain.CompletionEvent{
			UserID:     userID,
			Date:       date,
			InstanceID: instanceID,
			ActivityID: activityID,
			Complete:   after,
			OccurredAt: time.Now().UTC(),
		})
	}
	return after, nil
}

// SaveStats replaces the stats of an instance's log row.
func (s *TrackerService) SaveStats(ctx context.Context, userID, date, instanceID string, stats domain.LogStats) (domain.LogEntry, error) {
	var (
		entry      domain.LogEntry
		wasLogged  bool
		activityID string
	)

	err := s.sessions.Mutate(ctx, userID, []domain.StoreName{domain.StoreActivityLogs}, func(st *domain.State) error {
		wasLogged = st.Logs.Has(date, instanceID)
		var err error
		entry, err = st.SaveStats(date, instanceID, stats)
		activityID = entry.ActivityID
		return err
	})
	if err != nil {
		return domain.LogEntry{}, err
	}

	if !wasLogged {
		s.publish(ctx, domain.CompletionEvent{
			UserID:     userID,
			Date:       date,
			InstanceID: instanceID,
			ActivityID: activityID,
			Complete:   true,
			OccurredAt: time.Now().UTC(),
		})
	}
	return entry, nil
}

func (s *TrackerService) publish(ctx context.Context, ev domain.CompletionEvent) {
	if err := s.publisher.PublishCompletion(ctx, ev); err != nil {
		s.metrics.CounterCompletionEvent.WithLabelValues("error").Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     ev.UserID,
			"instance_id": ev.InstanceID,
		}).Warn("failed to publish completion event")
		return
	}
	s.metrics.CounterCompletionEvent.WithLabelValues("ok").Inc()
}

func (s *TrackerService) Day(ctx context.Context, userID, date string) (domain.DayView, error) {
	if !domain.ValidDateKey(date) {
		return domain.DayView{}, domain.ErrInvalidDate
	}

	var view domain.DayView
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		view = st.Day(date, s.clock.Today())
		return nil
	})
	return view, err
}

// Calendar returns the week or month grid around anchor. An empty anchor
// means today.
func (s *TrackerService) Calendar(ctx context.Context, userID, view, anchor string) ([]domain.DayView, error) {
	today := s.clock.Today()
	at := today
	if anchor != "" {
		parsed, err := domain.ParseDate(anchor)
		if err != nil {
			return nil, err
		}
		at = parsed
	}

	var days []domain.DayView
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		switch view {
		case "", "month":
			days = st.MonthView(at, today)
		case "week":
			days = st.WeekView(at, today)
		default:
			return ErrInvalidView
		}
		return nil
	})
	return days, err
}
