package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"smartplanner/internal/task"
)

// SQLite persists the task collection in a local database file. Save replaces
// the whole table so the rows always mirror the store's ordered collection.
type SQLite struct {
	db *sql.DB
}

func Open(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	due_at TEXT NOT NULL,
	priority TEXT NOT NULL,
	category TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLite) Load() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, title, notes, due_at, priority, category, completed FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var dueStr, priority, category string
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &dueStr, &priority, &category, &completed); err != nil {
			return nil, err
		}
		t.DueAt, err = time.Parse(time.RFC3339, dueStr)
		if err != nil {
			return nil, fmt.Errorf("task %s: bad due time %q: %w", t.ID, dueStr, err)
		}
		t.Priority, err = parsePriority(priority)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Category, err = parseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Completed = completed == 1
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLite) Save(tasks []task.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	for i, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		_, err := tx.Exec(`INSERT INTO tasks (position, id, title, notes, due_at, priority, category, completed) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			i, t.ID, t.Title, t.Notes, t.DueAt.UTC().Format(time.RFC3339), string(t.Priority), string(t.Category), completed)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func parsePriority(s string) (task.Priority, error) {
	switch p := task.Priority(s); p {
	case task.PriorityHigh, task.PriorityMedium, task.PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

func parseCategory(s string) (task.Category, error) {
	switch c := task.Category(s); c {
	case task.CategoryWork, task.CategoryPersonal, task.CategoryStudy, task.CategoryHealth:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
