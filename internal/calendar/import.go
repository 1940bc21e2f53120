package calendar

import (
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"smartplanner/internal/task"
)

// Importer turns upcoming calendar events into planner tasks. Deduplication
// against existing tasks happens in the store's Import, keyed on title plus
// due time.
type Importer struct {
	svc        *gcal.Service
	calendarID string
}

func NewImporter(svc *gcal.Service, calendarID string) *Importer {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Importer{svc: svc, calendarID: calendarID}
}

// FetchMonth lists the events between now and one month ahead and converts
// each timed one to a task. Events without a resolvable start time are
// skipped.
func (im *Importer) FetchMonth(now time.Time) ([]task.Task, error) {
	events, err := im.svc.Events.List(im.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 1, 0).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	var tasks []task.Task
	for _, ev := range events.Items {
		if t, ok := EventTask(ev); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// EventTask converts one event. Imported tasks default to Medium priority and
// the Personal category.
func EventTask(ev *gcal.Event) (task.Task, bool) {
	start, ok := eventStart(ev)
	if !ok {
		return task.Task{}, false
	}
	title := ev.Summary
	if title == "" {
		title = "Untitled Event"
	}
	notes := ev.Description
	if notes == "" {
		notes = "Imported from Calendar"
	}
	return task.New(title, notes, start, task.PriorityMedium, task.CategoryPersonal), true
}

func eventStart(ev *gcal.Event) (time.Time, bool) {
	if ev == nil || ev.Start == nil {
		return time.Time{}, false
	}
	if ev.Start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if ev.Start.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", ev.Start.Date, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
