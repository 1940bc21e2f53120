package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"smartplanner/internal/task"
)

// Snapshot persists the task collection as a single JSON file. It is the
// interchange format for export and restore, with the same field names the
// mobile client wrote (id, title, notes, dueAt, priority, category,
// isCompleted).
type Snapshot struct {
	Path string
}

func NewSnapshot(path string) *Snapshot {
	return &Snapshot{Path: path}
}

func (s *Snapshot) Load() ([]task.Task, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tasks []task.Task
	if err := json.NewDecoder(f).Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Snapshot) Save(tasks []task.Task) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if tasks == nil {
		tasks = []task.Task{}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
