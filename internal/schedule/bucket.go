package schedule

import (
	"sort"
	"strings"
	"time"

	"smartplanner/internal/task"
)

const (
	BucketOverdue   = "OVERDUE"
	BucketToday     = "TODAY"
	BucketTomorrow  = "TOMORROW"
	BucketCompleted = "COMPLETED"
)

// Group is one section of the main list. Day is set only for future-date
// groups and carries the value the group is sorted by; the label is for
// display alone and is never parsed back.
type Group struct {
	Name  string
	Day   time.Time
	Tasks []task.Task
}

// Buckets partitions tasks into the list sections, relative to now:
// OVERDUE, TODAY, TOMORROW, one group per later calendar day, COMPLETED.
// Completion wins over any date. Empty groups are omitted and every group
// is ordered by the Rank comparator.
func Buckets(tasks []task.Task, now time.Time) []Group {
	today := startOfDay(now, now)
	tomorrow := today.AddDate(0, 0, 1)

	var overdue, dueToday, dueTomorrow, completed []task.Task
	future := make(map[time.Time][]task.Task)

	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
			continue
		}
		day := startOfDay(t.DueAt, now)
		switch {
		case day.Before(today):
			overdue = append(overdue, t)
		case day.Equal(today):
			dueToday = append(dueToday, t)
		case day.Equal(tomorrow):
			dueTomorrow = append(dueTomorrow, t)
		default:
			future[day] = append(future[day], t)
		}
	}

	var groups []Group
	appendGroup := func(name string, day time.Time, items []task.Task) {
		if len(items) == 0 {
			return
		}
		sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
		groups = append(groups, Group{Name: name, Day: day, Tasks: items})
	}

	appendGroup(BucketOverdue, time.Time{}, overdue)
	appendGroup(BucketToday, time.Time{}, dueToday)
	appendGroup(BucketTomorrow, time.Time{}, dueTomorrow)

	days := make([]time.Time, 0, len(future))
	for day := range future {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		// A zero day cannot be ordered meaningfully; keep it at the end.
		if days[i].IsZero() || days[j].IsZero() {
			return days[j].IsZero() && !days[i].IsZero()
		}
		return days[i].Before(days[j])
	})
	for _, day := range days {
		appendGroup(dayLabel(day), day, future[day])
	}

	appendGroup(BucketCompleted, time.Time{}, completed)
	return groups
}

func dayLabel(day time.Time) string {
	return strings.ToUpper(day.Format("Monday, 2 Jan"))
}

// Visible applies the presentation-only collapse state: collapsed groups keep
// their header but carry no items. Membership itself is unaffected.
func Visible(groups []Group, collapsed map[string]bool) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		if collapsed[g.Name] {
			g.Tasks = nil
		}
		out[i] = g
	}
	return out
}

// DefaultCollapsed is the initial collapse state of the list view.
func DefaultCollapsed() map[string]bool {
	return map[string]bool{
		BucketCompleted: true,
		BucketOverdue:   true,
	}
}
