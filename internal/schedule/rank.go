package schedule

import (
	"sort"
	"time"

	"smartplanner/internal/task"
)

// less is the shared comparator: priority weight descending, then due time
// ascending. Equal pairs keep their input order via the stable sorts below.
func less(a, b task.Task) bool {
	if a.Priority.Weight() != b.Priority.Weight() {
		return a.Priority.Weight() > b.Priority.Weight()
	}
	return a.DueAt.Before(b.DueAt)
}

// Rank returns the incomplete tasks ordered by what to do next.
// The input slice is never modified.
func Rank(tasks []task.Task) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SmartRank is the recommendation ordering: overdue tasks are dropped and
// anything due today outranks priority.
func SmartRank(tasks []task.Task, now time.Time) []task.Task {
	today := startOfDay(now, now)
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed || startOfDay(t.DueAt, now).Before(today) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aToday := startOfDay(a.DueAt, now).Equal(today)
		bToday := startOfDay(b.DueAt, now).Equal(today)
		if aToday != bToday {
			return aToday
		}
		return less(a, b)
	})
	return out
}

// startOfDay truncates t to its calendar day in now's location, so that day
// boundaries agree with the caller's clock.
func startOfDay(t, now time.Time) time.Time {
	y, m, d := t.In(now.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
