package store

import (
	"errors"
	"log"
	"sync"

	"smartplanner/internal/task"
)

var (
	ErrBackendNil   = errors.New("storage backend is nil")
	ErrSchedulerNil = errors.New("reminder scheduler is nil")
)

// Backend loads and saves the full task collection. Save always receives the
// whole collection; the store never issues partial writes.
type Backend interface {
	Load() ([]task.Task, error)
	Save(tasks []task.Task) error
}

// ReminderScheduler is the reminder collaborator. Schedule is an idempotent
// upsert keyed by the task's id; Cancel is a no-op for unknown ids.
type ReminderScheduler interface {
	Schedule(t task.Task) error
	Cancel(id string) error
}

// Store owns the authoritative task collection. Every mutation runs under one
// lock and follows the same order: mutate, persist, adjust reminders, notify.
// The in-memory state is the source of truth; persistence and reminder
// failures are logged and never rolled back into memory.
type Store struct {
	mu        sync.Mutex
	tasks     []task.Task
	backend   Backend
	reminders ReminderScheduler

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// New loads the backend once. A failed load (missing or corrupt data) starts
// an empty collection, not an error.
func New(backend Backend, reminders ReminderScheduler) (*Store, error) {
	if backend == nil {
		return nil, ErrBackendNil
	}
	if reminders == nil {
		return nil, ErrSchedulerNil
	}
	tasks, err := backend.Load()
	if err != nil {
		log.Printf("store: load failed, starting empty: %v", err)
		tasks = nil
	}
	return &Store{
		backend:   backend,
		reminders: reminders,
		tasks:     tasks,
		subs:      make(map[chan struct{}]struct{}),
	}, nil
}

func (s *Store) Add(t task.Task) {
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.persistLocked()
	s.scheduleLocked(t)
	s.mu.Unlock()
	s.notify()
}

// ToggleCompletion flips the task's completion state. Unknown ids are a
// silent no-op: nothing persists and no event fires.
func (s *Store) ToggleCompletion(id string) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	t := s.tasks[i]
	s.persistLocked()
	if t.Completed {
		s.cancelLocked(t.ID)
	} else {
		s.scheduleLocked(t)
	}
	s.mu.Unlock()
	s.notify()
}

// Delete removes the task. The pending reminder is cancelled before removal.
// Unknown ids are a silent no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.cancelLocked(id)
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ReplaceAll swaps the whole collection, e.g. after a snapshot restore.
// Reminders are re-scheduled for every active task; prior reminders are
// assumed superseded by the replacement source.
func (s *Store) ReplaceAll(tasks []task.Task) {
	s.mu.Lock()
	s.tasks = append([]task.Task(nil), tasks...)
	s.persistLocked()
	for _, t := range s.tasks {
		if !t.Completed {
			s.scheduleLocked(t)
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Import appends tasks that do not duplicate an existing title and due time,
// and reports how many were added. One persist and one event cover the batch;
// an all-duplicate batch changes nothing and fires nothing.
func (s *Store) Import(tasks []task.Task) int {
	s.mu.Lock()
	added := 0
	for _, t := range tasks {
		if s.duplicateLocked(t) {
			continue
		}
		s.tasks = append(s.tasks, t)
		s.scheduleLocked(t)
		added++
	}
	if added == 0 {
		s.mu.Unlock()
		return 0
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return added
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]task.Task(nil), s.tasks...)
}

func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// Subscribe returns a signal channel that receives after every successful
// mutation. The channel carries no payload; re-pull Snapshot on receipt.
func (s *Store) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *Store) Unsubscribe(ch chan struct{}) {
	s.subMu.Lock()
	delete(s.subs, ch)
	s.subMu.Unlock()
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) duplicateLocked(t task.Task) bool {
	for _, existing := range s.tasks {
		if existing.Title == t.Title && existing.DueAt.Equal(t.DueAt) {
			return true
		}
	}
	return false
}

func (s *Store) persistLocked() {
	if err := s.backend.Save(s.tasks); err != nil {
		log.Printf("store: persist failed: %v", err)
	}
}

func (s *Store) scheduleLocked(t task.Task) {
	if err := s.reminders.Schedule(t); err != nil {
		log.Printf("store: schedule reminder for %s failed: %v", t.ID, err)
	}
}

func (s *Store) cancelLocked(id string) {
	if err := s.reminders.Cancel(id); err != nil {
		log.Printf("store: cancel reminder for %s failed: %v", id, err)
	}
}
