package analytics

import (
	"time"

	"smartplanner/internal/task"
)

// Row is one counter line. Sub rows are per-priority breakdowns of the group
// row above them.
type Row struct {
	Label string
	Count int
	Sub   bool
}

type Section struct {
	Title string
	Rows  []Row
}

// Report builds the aggregate counters shown on the stats screen: one section
// per time window, each counting overdue, completed and upcoming tasks with a
// per-priority breakdown. Priorities with no tasks in a group are left out.
func Report(tasks []task.Task, now time.Time) []Section {
	last7 := now.AddDate(0, 0, -7)
	y, m, _ := now.Date()
	startOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())

	return []Section{
		section("Last 7 Days", windowed(tasks, last7), now),
		section("This Month", windowed(tasks, startOfMonth), now),
		section("All Time", tasks, now),
	}
}

func windowed(tasks []task.Task, cutoff time.Time) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if !t.DueAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

func section(title string, tasks []task.Task, now time.Time) Section {
	today := startOfDay(now)

	var overdue, completed, upcoming []task.Task
	for _, t := range tasks {
		switch {
		case t.Completed:
			completed = append(completed, t)
		case startOfDay(t.DueAt.In(now.Location())).Before(today):
			overdue = append(overdue, t)
		default:
			upcoming = append(upcoming, t)
		}
	}

	var rows []Row
	appendGroup := func(label string, group []task.Task) {
		rows = append(rows, Row{Label: label, Count: len(group)})
		for _, p := range task.Priorities() {
			n := 0
			for _, t := range group {
				if t.Priority == p {
					n++
				}
			}
			if n > 0 {
				rows = append(rows, Row{Label: string(p), Count: n, Sub: true})
			}
		}
	}

	appendGroup("Overdue Tasks", overdue)
	appendGroup("Completed Tasks", completed)
	appendGroup("Upcoming Tasks", upcoming)

	return Section{Title: title, Rows: rows}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
