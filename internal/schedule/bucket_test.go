package schedule

import (
	"strings"
	"testing"
	"time"

	"smartplanner/internal/task"
)

func TestBuckets_Partition(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("overdue", "overdue", task.PriorityHigh, now.AddDate(0, 0, -2), false),
		mkTask("today", "today", task.PriorityLow, now.Add(time.Hour), false),
		mkTask("tomorrow", "tomorrow", task.PriorityMedium, now.AddDate(0, 0, 1), false),
		mkTask("future", "future", task.PriorityLow, now.AddDate(0, 0, 5), false),
		mkTask("done", "done", task.PriorityHigh, now.AddDate(0, 0, 5), true),
	}

	groups := Buckets(tasks, now)

	seen := map[string]int{}
	for _, g := range groups {
		for _, item := range g.Tasks {
			seen[item.ID]++
		}
	}
	if len(seen) != len(tasks) {
		t.Fatalf("buckets cover %d tasks, want %d", len(seen), len(tasks))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("task %s appears %d times, want exactly once", id, n)
		}
	}
}

func TestBuckets_CompletionWinsOverDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("done-overdue", "done overdue", task.PriorityHigh, now.AddDate(0, 0, -3), true),
	}

	groups := Buckets(tasks, now)
	if len(groups) != 1 || groups[0].Name != BucketCompleted {
		t.Fatalf("groups = %v, want only %s", groupNames(groups), BucketCompleted)
	}
}

// Scenario: one overdue incomplete task, one completed task due yesterday,
// one task due in three days. TODAY and TOMORROW are absent.
func TestBuckets_EmptyGroupsOmitted(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	in3 := now.AddDate(0, 0, 3)
	tasks := []task.Task{
		mkTask("t1", "overdue", task.PriorityMedium, now.AddDate(0, 0, -1), false),
		mkTask("t2", "done yesterday", task.PriorityLow, now.AddDate(0, 0, -1), true),
		mkTask("t3", "in three days", task.PriorityHigh, in3, false),
	}

	groups := Buckets(tasks, now)
	wantLabel := strings.ToUpper(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC).Format("Monday, 2 Jan"))
	want := []string{BucketOverdue, wantLabel, BucketCompleted}
	got := groupNames(groups)
	if !sameOrder(got, want) {
		t.Fatalf("group names = %v, want %v", got, want)
	}
	if groups[0].Tasks[0].ID != "t1" || groups[1].Tasks[0].ID != "t3" || groups[2].Tasks[0].ID != "t2" {
		t.Fatalf("membership wrong: %v", groups)
	}
}

func TestBuckets_FutureDaysChronological(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("far", "far", task.PriorityHigh, now.AddDate(0, 0, 9), false),
		mkTask("near", "near", task.PriorityLow, now.AddDate(0, 0, 3), false),
		mkTask("mid", "mid", task.PriorityMedium, now.AddDate(0, 0, 6), false),
	}

	groups := Buckets(tasks, now)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	for i := 1; i < len(groups); i++ {
		if !groups[i-1].Day.Before(groups[i].Day) {
			t.Fatalf("future groups out of order: %v before %v", groups[i-1].Day, groups[i].Day)
		}
	}
	if got := []string{groups[0].Tasks[0].ID, groups[1].Tasks[0].ID, groups[2].Tasks[0].ID}; !sameOrder(got, []string{"near", "mid", "far"}) {
		t.Fatalf("future membership order = %v", got)
	}
}

func TestBuckets_WithinBucketOrdering(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("low-early", "low", task.PriorityLow, now.Add(1*time.Hour), false),
		mkTask("high-late", "high", task.PriorityHigh, now.Add(10*time.Hour), false),
		mkTask("high-early", "high", task.PriorityHigh, now.Add(2*time.Hour), false),
	}

	groups := Buckets(tasks, now)
	if len(groups) != 1 || groups[0].Name != BucketToday {
		t.Fatalf("groups = %v, want only TODAY", groupNames(groups))
	}
	got := ids(groups[0].Tasks)
	if want := []string{"high-early", "high-late", "low-early"}; !sameOrder(got, want) {
		t.Fatalf("TODAY order = %v, want %v", got, want)
	}
}

func TestBuckets_TimeOfDayDoesNotLeakIntoDays(t *testing.T) {
	// 23:59 today is TODAY; 00:01 tomorrow is TOMORROW.
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("late-today", "late", task.PriorityLow, time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC), false),
		mkTask("early-tomorrow", "early", task.PriorityLow, time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC), false),
	}

	groups := Buckets(tasks, now)
	got := groupNames(groups)
	if want := []string{BucketToday, BucketTomorrow}; !sameOrder(got, want) {
		t.Fatalf("group names = %v, want %v", got, want)
	}
}

func TestVisible_CollapseDropsItemsNotGroups(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mkTask("overdue", "overdue", task.PriorityHigh, now.AddDate(0, 0, -1), false),
		mkTask("today", "today", task.PriorityLow, now.Add(time.Hour), false),
	}

	groups := Visible(Buckets(tasks, now), DefaultCollapsed())
	if got := groupNames(groups); !sameOrder(got, []string{BucketOverdue, BucketToday}) {
		t.Fatalf("group names = %v", got)
	}
	if len(groups[0].Tasks) != 0 {
		t.Fatalf("collapsed OVERDUE still has %d items", len(groups[0].Tasks))
	}
	if len(groups[1].Tasks) != 1 {
		t.Fatalf("TODAY lost its items")
	}
}

func TestDefaultCollapsed(t *testing.T) {
	got := DefaultCollapsed()
	if !got[BucketCompleted] || !got[BucketOverdue] {
		t.Fatalf("DefaultCollapsed() = %v, want COMPLETED and OVERDUE", got)
	}
	if len(got) != 2 {
		t.Fatalf("DefaultCollapsed() collapsed %d groups, want 2", len(got))
	}
}

func groupNames(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}
