package domain

import "errors"

var (
	ErrInstanceNotComplete = errors.New("instance must be complete before stats can be saved")
	ErrInvalidStat         = errors.New("stats cannot be negative")
)

// InstanceProgress holds the checkbox state of one scheduled instance,
// keyed by exercise name. Names no longer in the activity are ignored.
type InstanceProgress map[string]bool

// ActivityProgress is date -> instance id -> exercise name -> checked.
type ActivityProgress map[string]map[string]InstanceProgress

func (p ActivityProgress) Instance(date, instanceID string) InstanceProgress {
	return p[date][instanceID]
}

func (p ActivityProgress) set(date, instanceID, exercise string, checked bool) {
	byInstance := p[date]
	if byInstance == nil {
		byInstance = make(map[string]InstanceProgress)
		p[date] = byInstance
	}
	inst := byInstance[instanceID]
	if inst == nil {
		inst = make(InstanceProgress)
		byInstance[instanceID] = inst
	}
	inst[exercise] = checked
}

// prune drops null dates and instances left by a decoded snapshot.
func (p ActivityProgress) prune() {
	for date, byInstance := range p {
		for id, inst := range byInstance {
			if inst == nil {
				delete(byInstance, id)
			}
		}
		if len(byInstance) == 0 {
			delete(p, date)
		}
	}
}

func (p ActivityProgress) remove(date, instanceID string) {
	byInstance, ok := p[date]
	if !ok {
		return
	}
	delete(byInstance, instanceID)
	if len(byInstance) == 0 {
		delete(p, date)
	}
}

// LogStats are the optional numeric annotations of a log row. A nil field
// is stored as null.
type LogStats struct {
	Duration *float64 `json:"duration"`
	Distance *float64 `json:"distance"`
	Calories *float64 `json:"calories"`
}

func (s LogStats) Validate() error {
	for _, v := range []*float64{s.Duration, s.Distance, s.Calories} {
		if v != nil && *v < 0 {
			return ErrInvalidStat
		}
	}
	return nil
}

func zeroStats() LogStats {
	var d, dist, cal float64
	return LogStats{Duration: &d, Distance: &dist, Calories: &cal}
}

type LogEntry struct {
	InstanceID string   `json:"instance_id"`
	ActivityID string   `json:"activity_id"`
	Duration   *float64 `json:"duration"`
	Distance   *float64 `json:"distance"`
	Calories   *float64 `json:"calories"`
}

func newLogEntry(inst ScheduledInstance, stats LogStats) LogEntry {
	return LogEntry{
		InstanceID: inst.InstanceID,
		ActivityID: inst.ActivityID,
		Duration:   stats.Duration,
		Distance:   stats.Distance,
		Calories:   stats.Calories,
	}
}

// ActivityLog maps a date key to its log rows. Dates without rows are
// removed.
type ActivityLog map[string][]LogEntry

func (l ActivityLog) Find(date, instanceID string) (LogEntry, bool) {
	for _, e := range l[date] {
		if e.InstanceID == instanceID {
			return e, true
		}
	}
	return LogEntry{}, false
}

func (l ActivityLog) Has(date, instanceID string) bool {
	_, ok := l.Find(date, instanceID)
	return ok
}

// Upsert replaces the row for entry.InstanceID or appends a new one.
func (l ActivityLog) Upsert(date string, entry LogEntry) {
	rows := l[date]
	for i, e := range rows {
		if e.InstanceID == entry.InstanceID {
			rows[i] = entry
			return
		}
	}
	l[date] = append(rows, entry)
}

func (l ActivityLog) Remove(date, instanceID string) bool {
	rows, ok := l[date]
	if !ok {
		return false
	}

	kept := rows[:0:0]
	for _, e := range rows {
		if e.InstanceID != instanceID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(rows) {
		return false
	}

	if len(kept) == 0 {
		delete(l, date)
	} else {
		l[date] = kept
	}
	return true
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
