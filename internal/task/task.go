package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Weight is the ordering value behind a priority. It is never shown to the user.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		*p = Priority(s)
		return nil
	}
	return fmt.Errorf("unknown priority %q", s)
}

func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryStudy    Category = "Study"
	CategoryHealth   Category = "Health"
)

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Category(s) {
	case CategoryWork, CategoryPersonal, CategoryStudy, CategoryHealth:
		*c = Category(s)
		return nil
	}
	return fmt.Errorf("unknown category %q", s)
}

func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryStudy, CategoryHealth}
}

// Task is a single planner entry. ID is assigned at creation and never changes.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	DueAt     time.Time `json:"dueAt"`
	Priority  Priority  `json:"priority"`
	Category  Category  `json:"category"`
	Completed bool      `json:"isCompleted"`
}

func New(title, notes string, dueAt time.Time, priority Priority, category Category) Task {
	return Task{
		ID:       uuid.NewString(),
		Title:    title,
		Notes:    notes,
		DueAt:    dueAt,
		Priority: priority,
		Category: category,
	}
}
