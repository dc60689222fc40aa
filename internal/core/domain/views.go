package domain

import "time"

type ExerciseCheck struct {
	Name    string `json:"name"`
	Details string `json:"details"`
	Checked bool   `json:"checked"`
}

type InstanceView struct {
	InstanceID   string           `json:"instance_id"`
	ActivityID   string           `json:"activity_id"`
	ActivityName string           `json:"activity_name,omitempty"`
	Icon         Icon             `json:"icon,omitempty"`
	Category     ActivityCategory `json:"category,omitempty"`
	Missing      bool             `json:"missing,omitempty"`
	Complete     bool             `json:"complete"`
	Exercises    []ExerciseCheck  `json:"exercises,omitempty"`
	Log          *LogEntry        `json:"log,omitempty"`
}

type DayView struct {
	Date      string         `json:"date"`
	IsToday   bool           `json:"is_today"`
	Complete  bool           `json:"complete"`
	Instances []InstanceView `json:"instances"`
}

func (s *State) instanceView(date string, inst ScheduledInstance) InstanceView {
	view := InstanceView{
		InstanceID: inst.InstanceID,
		ActivityID: inst.ActivityID,
		Complete:   s.InstanceComplete(date, inst),
	}

	act := s.Activity(inst.ActivityID)
	if act == nil {
		view.Missing = true
		return view
	}

	view.ActivityName = act.Name
	view.Icon = act.Icon
	view.Category = act.Category

	progress := s.Progress.Instance(date, inst.InstanceID)
	for _, ex := range act.Exercises {
		view.Exercises = append(view.Exercises, ExerciseCheck{
			Name:    ex.Name,
			Details: ex.Details,
			Checked: progress[ex.Name],
		})
	}

	if entry, ok := s.Logs.Find(date, inst.InstanceID); ok {
		view.Log = &entry
	}
	return view
}

func (s *State) Day(date string, today time.Time) DayView {
	view := DayView{
		Date:      date,
		IsToday:   date == FormatDate(today),
		Complete:  IsDayComplete(s, date),
		Instances: []InstanceView{},
	}
	for _, inst := range s.Schedule[date] {
		view.Instances = append(view.Instances, s.instanceView(date, inst))
	}
	return view
}

func (s *State) WeekView(anchor, today time.Time) []DayView {
	dates := WeekDates(anchor)
	days := make([]DayView, 0, len(dates))
	for _, date := range dates {
		days = append(days, s.Day(date, today))
	}
	return days
}

func (s *State) MonthView(anchor, today time.Time) []DayView {
	first := StartOfMonth(anchor)
	next := first.AddDate(0, 1, 0)

	var days []DayView
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, s.Day(FormatDate(d), today))
	}
	return days
}

type HabitWeekRow struct {
	Habit Habit  `json:"habit"`
	Done  []bool `json:"done"`
}

type HabitWeek struct {
	Dates  []string       `json:"dates"`
	Habits []HabitWeekRow `json:"habits"`
}

func (s *State) HabitWeek(anchor time.Time) HabitWeek {
	dates := WeekDates(anchor)
	week := HabitWeek{Dates: dates, Habits: make([]HabitWeekRow, 0, len(s.Habits))}

	for _, h := range s.Habits {
		row := HabitWeekRow{Habit: h, Done: make([]bool, len(dates))}
		for i, date := range dates {
			row.Done[i] = s.HabitProgress.Done(date, h.ID)
		}
		week.Habits = append(week.Habits, row)
	}
	return week
}

type Dashboard struct {
	Date        string       `json:"date"`
	DisplayDate string       `json:"display_date"`
	Today       DayView      `json:"today"`
	WeeklyGoal  WeeklyGoal   `json:"weekly_goal"`
	Streak      int          `json:"streak"`
	Habits      []HabitCheck `json:"habits"`
}

type HabitCheck struct {
	Habit Habit `json:"habit"`
	Done  bool  `json:"done"`
}

func BuildDashboard(s *State, today time.Time) Dashboard {
	date := FormatDate(today)

	habits := make([]HabitCheck, 0, len(s.Habits))
	for _, h := range s.Habits {
		habits = append(habits, HabitCheck{Habit: h, Done: s.HabitProgress.Done(date, h.ID)})
	}

	return Dashboard{
		Date:        date,
		DisplayDate: FormatOrdinal(today),
		Today:       s.Day(date, today),
		WeeklyGoal:  CalculateWeeklyGoal(s, today),
		Streak:      CalculateStreak(s, today),
		Habits:      habits,
	}
}
