package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

type StatsService struct {
	sessions *SessionService
	clock    Clock
}

func NewStatsService(sessions *SessionService, clock Clock) *StatsService {
	return &StatsService{
		sessions: sessions,
		clock:    clock,
	}
}

type PeriodInput struct {
	UserID string
	Range  domain.StatsRange
	Start  *time.Time
	End    *time.Time
}

func (s *StatsService) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	var dash domain.Dashboard
	err := s.sessions.Read(ctx, userID, func(st *domain.State) error {
		dash = domain.BuildDashboard(st, s.clock.Today())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dash, nil
}

// Period totals completed instances over a named or custom range. A custom
// range missing a bound yields empty stats.
func (s *StatsService) Period(ctx context.Context, input PeriodInput) (*domain.PeriodStats, error) {
	kind := input.Range
	if kind == "" {
		kind = domain.RangeWeek
	}

	r, err := domain.ResolveRange(kind, s.clock.Today(), input.Start, input.End)
	if err != nil {
		return nil, err
	}
	if r.Resolved() && r.End.Before(r.Start) {
		return nil, domain.ErrInvalidRange
	}

	var stats domain.PeriodStats
	err = s.sessions.Read(ctx, input.UserID, func(st *domain.State) error {
		stats = domain.CalculatePeriodStats(st, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
