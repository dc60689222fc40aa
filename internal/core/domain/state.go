package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStore = errors.New("unknown store")

// StoreName identifies one independently persisted piece of user state.
type StoreName string

const (
	StoreActivityCompletion StoreName = "activityCompletion"
	StoreCalendarSchedule   StoreName = "calendarSchedule"
	StoreHabitList          StoreName = "habitList"
	StoreUserExercises      StoreName = "userExercises"
	StoreActivityLogs       StoreName = "activityLogs"
	StoreHabitProgress      StoreName = "habitProgress"

	// StoreActivities is the activity collection. It is persisted row by
	// row through ActivityRepository, not as a document.
	StoreActivities StoreName = "activities"
)

func DocumentStores() []StoreName {
	return []StoreName{
		StoreActivityCompletion,
		StoreCalendarSchedule,
		StoreHabitList,
		StoreUserExercises,
		StoreActivityLogs,
		StoreHabitProgress,
	}
}

func (n StoreName) IsDocument() bool {
	for _, s := range DocumentStores() {
		if n == s {
			return true
		}
	}
	return false
}

// State is everything one user owns. Every change goes through the
// methods below so that progress and logs never drift apart.
type State struct {
	Activities    []*Activity      `json:"activities"`
	Schedule      CalendarSchedule `json:"schedule"`
	Progress      ActivityProgress `json:"progress"`
	Logs          ActivityLog      `json:"logs"`
	Habits        []Habit          `json:"habits"`
	HabitProgress HabitProgress    `json:"habit_progress"`
	UserExercises []Exercise       `json:"user_exercises"`
}

func NewState() *State {
	return &State{
		Activities:    []*Activity{},
		Schedule:      make(CalendarSchedule),
		Progress:      make(ActivityProgress),
		Logs:          make(ActivityLog),
		Habits:        DefaultHabits(),
		HabitProgress: make(HabitProgress),
		UserExercises: []Exercise{},
	}
}

func (s *State) Activity(id string) *Activity {
	for _, a := range s.Activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *State) InstanceComplete(date string, inst ScheduledInstance) bool {
	return IsInstanceComplete(
		s.Activity(inst.ActivityID),
		s.Progress.Instance(date, inst.InstanceID),
		s.Logs[date],
		inst.InstanceID,
	)
}

func (s *State) resolve(date, instanceID string) (ScheduledInstance, *Activity, error) {
	inst, ok := s.Schedule.Instance(date, instanceID)
	if !ok {
		return ScheduledInstance{}, nil, ErrInstanceNotFound
	}
	act := s.Activity(inst.ActivityID)
	if act == nil {
		return ScheduledInstance{}, nil, ErrActivityNotFound
	}
	return inst, act, nil
}

func (s *State) SetActivities(list []*Activity) {
	if list == nil {
		list = []*Activity{}
	}
	s.Activities = list
}

// PutActivity inserts a or replaces the activity with the same id.
func (s *State) PutActivity(a *Activity) {
	for i, existing := range s.Activities {
		if existing.ID == a.ID {
			s.Activities[i] = a
			return
		}
	}
	s.Activities = append(s.Activities, a)
}

// ReconcileActivity restores the log rows of every scheduled instance of
// an activity with exercises after its exercise list changed: a complete
// instance gets a zeroed row, an incomplete one loses its row. It returns
// the number of rows written or removed.
func (s *State) ReconcileActivity(id string) int {
	act := s.Activity(id)
	if act == nil || !act.HasExercises() {
		return 0
	}

	changed := 0
	for date, instances := range s.Schedule {
		for _, inst := range instances {
			if inst.ActivityID != id {
				continue
			}
			complete := s.InstanceComplete(date, inst)
			logged := s.Logs.Has(date, inst.InstanceID)
			switch {
			case complete && !logged:
				s.Logs.Upsert(date, newLogEntry(inst, zeroStats()))
				changed++
			case !complete && logged:
				s.Logs.Remove(date, inst.InstanceID)
				changed++
			}
		}
	}
	return changed
}

// RemoveActivity deletes the activity and every scheduled instance of it,
// together with their progress and logs. It returns how many instances
// were removed.
func (s *State) RemoveActivity(id string) int {
	kept := s.Activities[:0:0]
	for _, a := range s.Activities {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.Activities = kept

	removed := 0
	for date, instances := range s.Schedule.RemoveActivity(id) {
		for _, inst := range instances {
			s.Progress.remove(date, inst.InstanceID)
			s.Logs.Remove(date, inst.InstanceID)
			removed++
		}
	}
	return removed
}

func (s *State) Assign(date, activityID string) (ScheduledInstance, error) {
	if !ValidDateKey(date) {
		return ScheduledInstance{}, ErrInvalidDate
	}
	if s.Activity(activityID) == nil {
		return ScheduledInstance{}, ErrActivityNotFound
	}
	return s.Schedule.Assign(date, activityID), nil
}

// Unassign removes one instance. Instances of deleted activities can still
// be removed.
func (s *State) Unassign(date, instanceID string) error {
	if !s.Schedule.Unassign(date, instanceID) {
		return ErrInstanceNotFound
	}
	s.Progress.remove(date, instanceID)
	s.Logs.Remove(date, instanceID)
	return nil
}

// ToggleExercise flips one checkbox. Completing the last exercise writes a
// log row with stats; unchecking any exercise of a complete instance drops
// the whole row.
func (s *State) ToggleExercise(date, instanceID, exercise string, stats LogStats) (bool, error) {
	inst, act, err := s.resolve(date, instanceID)
	if err != nil {
		return false, err
	}
	if !act.HasExercise(exercise) {
		return false, ErrExerciseNotInActivity
	}
	if err := stats.Validate(); err != nil {
		return false, err
	}

	checked := s.Progress.Instance(date, instanceID)[exercise]
	s.Progress.set(date, instanceID, exercise, !checked)

	complete := s.InstanceComplete(date, inst)
	if complete {
		s.Logs.Upsert(date, newLogEntry(inst, stats))
	} else {
		s.Logs.Remove(date, instanceID)
	}
	return complete, nil
}

// ToggleInstanceHeader marks the whole instance done or undone. New log
// rows carry null stats.
func (s *State) ToggleInstanceHeader(date, instanceID string) (bool, error) {
	return s.toggleInstance(date, instanceID, LogStats{})
}

// QuickComplete toggles the whole instance, logging zeroed stats.
func (s *State) QuickComplete(date, instanceID string) (bool, error) {
	return s.toggleInstance(date, instanceID, zeroStats())
}

func (s *State) toggleInstance(date, instanceID string, defaults LogStats) (bool, error) {
	inst, act, err := s.resolve(date, instanceID)
	if err != nil {
		return false, err
	}

	next := !s.InstanceComplete(date, inst)

	for _, ex := range act.Exercises {
		s.Progress.set(date, instanceID, ex.Name, next)
	}

	if next {
		s.Logs.Upsert(date, newLogEntry(inst, defaults))
	} else {
		s.Logs.Remove(date, instanceID)
	}
	return next, nil
}

// SaveStats replaces the log row of an instance without touching its
// checkboxes. Exercise activities must already be complete; for the others
// saving stats is what completes them.
func (s *State) SaveStats(date, instanceID string, stats LogStats) (LogEntry, error) {
	inst, act, err := s.resolve(date, instanceID)
	if err != nil {
		return LogEntry{}, err
	}
	if err := stats.Validate(); err != nil {
		return LogEntry{}, err
	}
	if act.HasExercises() && !s.InstanceComplete(date, inst) {
		return LogEntry{}, ErrInstanceNotComplete
	}

	entry := newLogEntry(inst, stats)
	s.Logs.Upsert(date, entry)
	return entry, nil
}

func (s *State) AddHabit(h Habit) {
	s.Habits = append(s.Habits, h)
}

func (s *State) RemoveHabit(id string) error {
	for i, h := range s.Habits {
		if h.ID == id {
			s.Habits = append(s.Habits[:i:i], s.Habits[i+1:]...)
			return nil
		}
	}
	return ErrHabitNotFound
}

func (s *State) ToggleHabit(habitID, date string) (bool, error) {
	if !ValidDateKey(date) {
		return false, ErrInvalidDate
	}

	found := false
	for _, h := range s.Habits {
		if h.ID == habitID {
			found = true
			break
		}
	}
	if !found {
		return false, ErrHabitNotFound
	}

	return s.HabitProgress.Toggle(date, habitID), nil
}

func (s *State) AddUserExercise(ex Exercise) error {
	for _, existing := range s.AllExercises() {
		if strings.EqualFold(existing.Name, ex.Name) {
			return ErrExerciseNameInUse
		}
	}
	s.UserExercises = append(s.UserExercises, ex)
	return nil
}

// AllExercises lists the master library followed by the user's exercises.
func (s *State) AllExercises() []Exercise {
	return append(MasterExercises(), s.UserExercises...)
}

// Snapshot encodes one document store.
func (s *State) Snapshot(store StoreName) ([]byte, error) {
	var v any
	switch store {
	case StoreActivityCompletion:
		v = s.Progress
	case StoreCalendarSchedule:
		v = s.Schedule
	case StoreHabitList:
		v = s.Habits
	case StoreUserExercises:
		v = s.UserExercises
	case StoreActivityLogs:
		v = s.Logs
	case StoreHabitProgress:
		v = s.HabitProgress
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, store)
	}
	return json.Marshal(v)
}

// Restore replaces one document store with a decoded snapshot. Empty or
// null data resets the store; a null habit list falls back to the
// defaults while an empty one is kept.
func (s *State) Restore(store StoreName, data []byte) error {
	empty := len(data) == 0 || string(data) == "null"

	switch store {
	case StoreActivityCompletion:
		p := make(ActivityProgress)
		if !empty {
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("decode %s: %w", store, err)
			}
		}
		if p == nil {
			p = make(ActivityProgress)
		}
		p.prune()
		s.Progress = p
	case StoreCalendarSchedule:
		sched := make(CalendarSchedule)
		if !empty {
			if err := json.Unmarshal(data, &sched); err != nil {
				return fmt.Errorf("decode %s: %w", store, err)
			}
		}
		if sched == nil {
			sched = make(CalendarSchedule)
		}
		sched.prune()
		s.Schedule = sched
	case StoreHabitList:
		var habits []Habit
		if !empty {
			if err := json.Unmarshal(data, &habits); err != nil {
				return fmt.Errorf("decode %s: %w", store, err)
			}
		}
		if habits == nil {
			habits = DefaultHabits()
		}
		s.Habits = habits
	case StoreUserExercises:
		exercises := []Exercise{}
		if !empty {
			if err := json.Unmarshal(data, &exercises); err != nil {
				return fmt.Errorf("decode %s: %w", store, err)
			}
		}
		if exercises == nil {
			exercises = []Exercise{}
		}
		s.UserExercises = exercises
	case StoreActivityLogs:
		logs := make(ActivityLog)
		if !empty {
			if err := json.Unmarshal(data, &logs); err != nil {
				return fmt.Errorf("decode %s: %w", store, err)
			}
		}
		if logs == nil {
			logs = make(ActivityLog)
		}
		for date, rows := range logs {
			if len(rows) == 0 {
				delete(logs, date)
			}
		}
		s.Logs = logs
	case StoreHabitProgress:
		hp := make(HabitProgress)
		if !empty {
			if err := json.Unmarshal(data, &hp); err != nil {
				return fmt.Errorf("decode %s: %w", store, err)
			}
		}
		if hp == nil {
			hp = make(HabitProgress)
		}
		hp.prune()
		s.HabitProgress = hp
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStore, store)
	}
	return nil
}
