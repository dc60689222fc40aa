package domain

// IsInstanceComplete reports whether one scheduled instance is done.
// Exercise activities need every exercise checked; the others need a log
// row for the instance. A nil activity is never complete.
func IsInstanceComplete(activity *Activity, progress InstanceProgress, logs []LogEntry, instanceID string) bool {
	if activity == nil {
		return false
	}

	if activity.HasExercises() {
		for _, ex := range activity.Exercises {
			if !progress[ex.Name] {
				return false
			}
		}
		return true
	}

	for _, e := range logs {
		if e.InstanceID == instanceID {
			return true
		}
	}
	return false
}

// IsDayComplete is true when date has at least one instance and all of
// them are complete. Instances of unknown activities keep the day open.
func IsDayComplete(s *State, date string) bool {
	instances := s.Schedule[date]
	if len(instances) == 0 {
		return false
	}

	for _, inst := range instances {
		if !s.InstanceComplete(date, inst) {
			return false
		}
	}
	return true
}
