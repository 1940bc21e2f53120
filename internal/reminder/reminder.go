package reminder

import (
	"sync"
	"time"

	"smartplanner/internal/task"
)

// DefaultLead is how far before the due time a reminder fires.
const DefaultLead = time.Hour

// Reminder is one pending entry, keyed by the task it belongs to.
type Reminder struct {
	TaskID    string
	Title     string
	TriggerAt time.Time
}

// Scheduler keeps pending reminders in memory. Scheduling is an idempotent
// upsert per task id, so repeated calls never produce duplicates.
type Scheduler struct {
	mu      sync.Mutex
	lead    time.Duration
	now     func() time.Time
	pending map[string]Reminder
}

func NewScheduler(lead time.Duration) *Scheduler {
	if lead <= 0 {
		lead = DefaultLead
	}
	return &Scheduler{
		lead:    lead,
		now:     time.Now,
		pending: make(map[string]Reminder),
	}
}

// Schedule registers a reminder at the task's due time minus the lead.
// A completed task drops any pending entry instead; a trigger already in the
// past registers nothing.
func (s *Scheduler) Schedule(t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Completed {
		delete(s.pending, t.ID)
		return nil
	}
	trigger := t.DueAt.Add(-s.lead)
	if !trigger.After(s.now()) {
		return nil
	}
	s.pending[t.ID] = Reminder{TaskID: t.ID, Title: t.Title, TriggerAt: trigger}
	return nil
}

func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
	return nil
}

// Pending reports the reminder registered for a task, if any.
func (s *Scheduler) Pending(id string) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.pending[id]
	return r, ok
}

func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
