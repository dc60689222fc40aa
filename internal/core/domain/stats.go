package domain

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidRange = errors.New("invalid stats range (must be week, month or custom)")

// MaxStreakScan bounds how far back the streak walk goes.
const MaxStreakScan = 365

type Tier string

const (
	TierNone   Tier = "none"
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

func TierFor(percentage float64) Tier {
	switch {
	case percentage >= 100:
		return TierGold
	case percentage >= 70:
		return TierSilver
	case percentage >= 50:
		return TierBronze
	default:
		return TierNone
	}
}

// CalculateStreak counts consecutive completed days ending at today.
// An unfinished or empty today does not break a run that ended yesterday.
func CalculateStreak(s *State, today time.Time) int {
	todayKey := FormatDate(today)
	day := StartOfDay(today)
	streak := 0

	for i := 0; i < MaxStreakScan; i++ {
		key := FormatDate(day)
		isToday := key == todayKey

		if len(s.Schedule[key]) > 0 {
			if IsDayComplete(s, key) {
				streak++
			} else if !isToday {
				break
			}
		} else if !isToday && streak > 0 {
			break
		}

		if streak == 0 && !isToday {
			break
		}

		day = day.AddDate(0, 0, -1)
	}

	return streak
}

type WeeklyGoal struct {
	WeekStart  string  `json:"week_start"`
	WeekEnd    string  `json:"week_end"`
	Scheduled  int     `json:"scheduled"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
	Tier       Tier    `json:"tier"`
}

// CalculateWeeklyGoal covers the Monday to Sunday week containing today.
// Instances of unknown activities are not counted.
func CalculateWeeklyGoal(s *State, today time.Time) WeeklyGoal {
	dates := WeekDates(today)
	goal := WeeklyGoal{WeekStart: dates[0], WeekEnd: dates[len(dates)-1]}

	for _, date := range dates {
		for _, inst := range s.Schedule[date] {
			if s.Activity(inst.ActivityID) == nil {
				continue
			}
			goal.Scheduled++
			if s.InstanceComplete(date, inst) {
				goal.Completed++
			}
		}
	}

	if goal.Scheduled > 0 {
		goal.Percentage = float64(goal.Completed) / float64(goal.Scheduled) * 100
	}
	goal.Tier = TierFor(goal.Percentage)
	return goal
}

type StatsRange string

const (
	RangeWeek   StatsRange = "week"
	RangeMonth  StatsRange = "month"
	RangeCustom StatsRange = "custom"
)

// DateRange is inclusive on both ends. Only ranges built by NewDateRange
// are resolved.
type DateRange struct {
	Start    time.Time
	End      time.Time
	resolved bool
}

// NewDateRange normalizes start and end to day bounds.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: StartOfDay(start), End: EndOfDay(end), resolved: true}
}

func (r DateRange) Resolved() bool {
	return r.resolved
}

// ResolveRange turns a named range into concrete bounds. Week and month run
// from their first day up to today. A custom range missing either bound is
// returned unresolved.
func ResolveRange(kind StatsRange, today time.Time, start, end *time.Time) (DateRange, error) {
	switch kind {
	case RangeWeek:
		return NewDateRange(StartOfWeek(today), today), nil
	case RangeMonth:
		return NewDateRange(StartOfMonth(today), today), nil
	case RangeCustom:
		if start == nil || end == nil {
			return DateRange{}, nil
		}
		return NewDateRange(*start, *end), nil
	default:
		return DateRange{}, ErrInvalidRange
	}
}

type CategoryCount struct {
	Category ActivityCategory `json:"category"`
	Count    int              `json:"count"`
}

type PeriodStats struct {
	StartDate      string          `json:"start_date,omitempty"`
	EndDate        string          `json:"end_date,omitempty"`
	TotalDuration  float64         `json:"total_duration"`
	TotalDistance  float64         `json:"total_distance"`
	TotalCalories  float64         `json:"total_calories"`
	CompletedCount int             `json:"completed_count"`
	Categories     []CategoryCount `json:"categories"`
}

// CalculatePeriodStats totals completed instances in r. Missing stats count
// as zero. Categories only lists entries with a positive count. Only
// scheduled dates are visited, so the cost does not depend on the span.
func CalculatePeriodStats(s *State, r DateRange) PeriodStats {
	out := PeriodStats{Categories: []CategoryCount{}}
	if !r.Resolved() {
		return out
	}

	out.StartDate = FormatDate(r.Start)
	out.EndDate = FormatDate(r.End)

	dates := make([]string, 0, len(s.Schedule))
	for date := range s.Schedule {
		if date >= out.StartDate && date <= out.EndDate {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	counts := make(map[ActivityCategory]int)
	for _, date := range dates {
		for _, inst := range s.Schedule[date] {
			if !s.InstanceComplete(date, inst) {
				continue
			}

			out.CompletedCount++
			counts[s.Activity(inst.ActivityID).Category]++

			if entry, ok := s.Logs.Find(date, inst.InstanceID); ok {
				out.TotalDuration += valueOrZero(entry.Duration)
				out.TotalDistance += valueOrZero(entry.Distance)
				out.TotalCalories += valueOrZero(entry.Calories)
			}
		}
	}

	for _, c := range ActivityCategories() {
		if counts[c] > 0 {
			out.Categories = append(out.Categories, CategoryCount{Category: c, Count: counts[c]})
		}
	}
	return out
}
