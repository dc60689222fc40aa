package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInstanceNotFound = errors.New("scheduled instance not found")

type ScheduledInstance struct {
	InstanceID string `json:"instance_id"`
	ActivityID string `json:"activity_id"`
}

// CalendarSchedule maps a date key to the instances placed on that day.
// A date is never present with an empty list.
type CalendarSchedule map[string][]ScheduledInstance

func newInstanceID() string {
	return "inst_" + uuid.New().String()
}

// Assign appends a freshly minted instance of activityID to date.
func (s CalendarSchedule) Assign(date, activityID string) ScheduledInstance {
	inst := ScheduledInstance{InstanceID: newInstanceID(), ActivityID: activityID}
	s[date] = append(s[date], inst)
	return inst
}

func (s CalendarSchedule) Unassign(date, instanceID string) bool {
	list, ok := s[date]
	if !ok {
		return false
	}

	for i, inst := range list {
		if inst.InstanceID != instanceID {
			continue
		}

		remaining := make([]ScheduledInstance, 0, len(list)-1)
		remaining = append(remaining, list[:i]...)
		remaining = append(remaining, list[i+1:]...)

		if len(remaining) == 0 {
			delete(s, date)
		} else {
			s[date] = remaining
		}
		return true
	}
	return false
}

// RemoveActivity drops every instance of activityID on every date and
// returns what was removed, keyed by date.
func (s CalendarSchedule) RemoveActivity(activityID string) map[string][]ScheduledInstance {
	removed := make(map[string][]ScheduledInstance)

	for date, list := range s {
		kept := list[:0:0]
		for _, inst := range list {
			if inst.ActivityID == activityID {
				removed[date] = append(removed[date], inst)
				continue
			}
			kept = append(kept, inst)
		}

		if len(kept) == len(list) {
			continue
		}
		if len(kept) == 0 {
			delete(s, date)
		} else {
			s[date] = kept
		}
	}
	return removed
}

func (s CalendarSchedule) Instance(date, instanceID string) (ScheduledInstance, bool) {
	for _, inst := range s[date] {
		if inst.InstanceID == instanceID {
			return inst, true
		}
	}
	return ScheduledInstance{}, false
}

func (s CalendarSchedule) Clone() CalendarSchedule {
	out := make(CalendarSchedule, len(s))
	for date, list := range s {
		cp := make([]ScheduledInstance, len(list))
		copy(cp, list)
		out[date] = cp
	}
	return out
}

// prune removes empty date entries that may arrive from remote snapshots.
func (s CalendarSchedule) prune() {
	for date, list := range s {
		if len(list) == 0 {
			delete(s, date)
		}
	}
}
