package schedule

import (
	"testing"
	"time"

	"smartplanner/internal/task"
)

func mkTask(id, title string, p task.Priority, due time.Time, completed bool) task.Task {
	return task.Task{
		ID:        id,
		Title:     title,
		DueAt:     due,
		Priority:  p,
		Category:  task.CategoryWork,
		Completed: completed,
	}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank_PriorityDominatesDate(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("low-soon", "low soon", task.PriorityLow, base.Add(1*time.Hour), false),
		mkTask("high-late", "high late", task.PriorityHigh, base.Add(72*time.Hour), false),
		mkTask("med", "med", task.PriorityMedium, base.Add(2*time.Hour), false),
	}

	got := ids(Rank(tasks))
	want := []string{"high-late", "med", "low-soon"}
	if !sameOrder(got, want) {
		t.Fatalf("Rank() order = %v, want %v", got, want)
	}
}

func TestRank_DateBreaksTies(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("later", "later", task.PriorityHigh, base.Add(5*time.Hour), false),
		mkTask("sooner", "sooner", task.PriorityHigh, base.Add(1*time.Hour), false),
	}

	got := ids(Rank(tasks))
	want := []string{"sooner", "later"}
	if !sameOrder(got, want) {
		t.Fatalf("Rank() order = %v, want %v", got, want)
	}
}

func TestRank_EqualTasksKeepInputOrder(t *testing.T) {
	due := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("first", "a", task.PriorityMedium, due, false),
		mkTask("second", "b", task.PriorityMedium, due, false),
		mkTask("third", "c", task.PriorityMedium, due, false),
	}

	got := ids(Rank(tasks))
	want := []string{"first", "second", "third"}
	if !sameOrder(got, want) {
		t.Fatalf("Rank() order = %v, want %v", got, want)
	}
}

func TestRank_ExcludesCompleted(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("done", "done", task.PriorityHigh, base, true),
		mkTask("open", "open", task.PriorityLow, base, false),
	}

	got := Rank(tasks)
	if len(got) != 1 || got[0].ID != "open" {
		t.Fatalf("Rank() = %v, want only the open task", ids(got))
	}
}

func TestRank_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("a", "a", task.PriorityLow, base.Add(time.Hour), false),
		mkTask("b", "b", task.PriorityHigh, base.Add(2*time.Hour), false),
		mkTask("c", "c", task.PriorityHigh, base.Add(2*time.Hour), false),
	}

	first := ids(Rank(tasks))
	second := ids(Rank(tasks))
	if !sameOrder(first, second) {
		t.Fatalf("Rank() not deterministic: %v then %v", first, second)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("z", "z", task.PriorityLow, base, false),
		mkTask("a", "a", task.PriorityHigh, base, false),
	}

	Rank(tasks)
	if tasks[0].ID != "z" || tasks[1].ID != "a" {
		t.Fatalf("Rank() mutated its input: %v", ids(tasks))
	}
}

// Scenario: A High due tomorrow 10:00, B Low due today 09:00, C Medium due
// today 18:00, now today 08:00. Smart mode puts today's tasks first, so
// C, B, A; the plain ranking stays A, C, B.
func TestSmartRank_TodayOutranksPriority(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	a := mkTask("A", "a", task.PriorityHigh, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), false)
	b := mkTask("B", "b", task.PriorityLow, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), false)
	c := mkTask("C", "c", task.PriorityMedium, time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), false)
	tasks := []task.Task{a, b, c}

	smart := ids(SmartRank(tasks, now))
	if want := []string{"C", "B", "A"}; !sameOrder(smart, want) {
		t.Fatalf("SmartRank() order = %v, want %v", smart, want)
	}

	plain := ids(Rank(tasks))
	if want := []string{"A", "C", "B"}; !sameOrder(plain, want) {
		t.Fatalf("Rank() order = %v, want %v", plain, want)
	}
}

func TestSmartRank_ExcludesOverdueAndCompleted(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("overdue", "overdue", task.PriorityHigh, time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), false),
		mkTask("done", "done", task.PriorityHigh, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), true),
		mkTask("today", "today", task.PriorityLow, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), false),
	}

	got := ids(SmartRank(tasks, now))
	if want := []string{"today"}; !sameOrder(got, want) {
		t.Fatalf("SmartRank() = %v, want %v", got, want)
	}
}

func TestSmartRank_EarlierTodayStaysEligible(t *testing.T) {
	// Due earlier today is not overdue for smart purposes, only earlier days are.
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("morning", "morning", task.PriorityLow, time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), false),
	}

	if got := SmartRank(tasks, now); len(got) != 1 {
		t.Fatalf("SmartRank() dropped a task due earlier today")
	}
}
