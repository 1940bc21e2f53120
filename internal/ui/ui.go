package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"smartplanner/internal/analytics"
	"smartplanner/internal/config"
	"smartplanner/internal/schedule"
	"smartplanner/internal/store"
	"smartplanner/internal/task"
)

type view int

const (
	viewList view = iota
	viewSchedule
	viewStats
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// Importer is the calendar collaborator the import key drives. It is optional;
// without one the key just reports that no calendar is configured.
type Importer interface {
	FetchMonth(now time.Time) ([]task.Task, error)
}

type tasksChangedMsg struct{}

type importDoneMsg struct {
	added int
	err   error
}

type addState struct {
	title    string
	notes    string
	due      string
	priority string
	category string
	index    int
}

type Model struct {
	store    *store.Store
	cfg      config.Config
	paid     bool
	importer Importer

	tasks     []task.Task
	collapsed map[string]bool
	cursor    int
	view      view
	mode      mode
	input     textinput.Model
	add       *addState

	status     string
	confirmDel bool
	pendingDel *task.Task

	changes chan struct{}
}

func Run(s *store.Store, cfg config.Config, paid bool, importer Importer) error {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:     s,
		cfg:       cfg,
		paid:      paid,
		importer:  importer,
		tasks:     s.Snapshot(),
		collapsed: schedule.DefaultCollapsed(),
		input:     ti,
		status:    "Press 'a' to add, space to toggle, 'd' to delete, tab to switch view.",
		changes:   s.Subscribe(),
	}
	defer s.Unsubscribe(m.changes)

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return tasksChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksChangedMsg:
		m.tasks = m.store.Snapshot()
		m.cursor = clampCursor(m.cursor, len(m.visibleTasks()))
		return m, waitForChange(m.changes)
	case importDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("import failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Added %d new tasks from your calendar", msg.added)
		}
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.NextView:
		m.view = (m.view + 1) % 3
		m.cursor = 0
		return m, nil
	case m.cfg.Keys.Down, "down":
		n := m.rowCount()
		if n > 0 {
			m.cursor = clampCursor(m.cursor+1, n)
		}
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, m.rowCount())
		}
	case m.cfg.Keys.Add:
		m.add = &addState{
			due:      time.Now().Add(24 * time.Hour).Format("2006-01-02 15:04"),
			priority: string(task.PriorityMedium),
			category: string(task.CategoryPersonal),
		}
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = m.add.currentLabel()
		m.input.Focus()
		m.status = "Add mode: fill each field, enter to advance, esc to cancel"
	case m.cfg.Keys.Toggle:
		if m.view != viewList {
			return m, nil
		}
		if t, ok := m.selectedTask(); ok {
			m.store.ToggleCompletion(t.ID)
		}
	case m.cfg.Keys.Delete:
		if m.view != viewList {
			return m, nil
		}
		if t, ok := m.selectedTask(); ok {
			m.confirmDel = true
			m.pendingDel = &t
			m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
		}
	case m.cfg.Keys.Collapse:
		if m.view != viewList {
			return m, nil
		}
		if name, ok := m.selectedGroup(); ok {
			if m.collapsed[name] {
				delete(m.collapsed, name)
			} else {
				m.collapsed[name] = true
			}
			m.cursor = clampCursor(m.cursor, len(m.visibleTasks()))
		}
	case m.cfg.Keys.Import:
		if m.importer == nil {
			m.status = "No calendar configured"
			return m, nil
		}
		m.status = "Importing from calendar..."
		return m, m.runImport()
	}
	return m, nil
}

func (m Model) runImport() tea.Cmd {
	imp, s := m.importer, m.store
	return func() tea.Msg {
		events, err := imp.FetchMonth(time.Now())
		if err != nil {
			return importDoneMsg{err: err}
		}
		return importDoneMsg{added: s.Import(events)}
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		if m.pendingDel != nil {
			m.store.Delete(m.pendingDel.ID)
			m.status = "Deleted task"
		}
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = nil
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.add = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.add.setCurrentValue(m.input.Value())
		if m.add.index >= len(addFields())-1 {
			return m.saveNewTask()
		}
		m.add.index++
		m.input.SetValue(m.add.currentValue())
		m.input.Placeholder = m.add.currentLabel()
		return m, nil
	case "tab":
		m.add.setCurrentValue(m.input.Value())
		m.add.index = (m.add.index + 1) % len(addFields())
		m.input.SetValue(m.add.currentValue())
		m.input.Placeholder = m.add.currentLabel()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveNewTask() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.add.title)
	if title == "" {
		m.add.index = 0
		m.input.SetValue("")
		m.input.Placeholder = m.add.currentLabel()
		m.status = "Title cannot be empty"
		return m, nil
	}
	due, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(m.add.due), time.Local)
	if err != nil {
		m.add.index = 2
		m.input.SetValue(m.add.due)
		m.input.Placeholder = m.add.currentLabel()
		m.status = "Due must be YYYY-MM-DD HH:MM"
		return m, nil
	}
	priority, ok := parsePriority(m.add.priority)
	if !ok {
		m.add.index = 3
		m.input.SetValue(m.add.priority)
		m.status = "Priority must be High, Medium or Low"
		return m, nil
	}
	category, ok := parseCategory(m.add.category)
	if !ok {
		m.add.index = 4
		m.input.SetValue(m.add.category)
		m.status = "Category must be Work, Personal, Study or Health"
		return m, nil
	}

	m.store.Add(task.New(title, strings.TrimSpace(m.add.notes), due, priority, category))
	m.add = nil
	m.mode = modeList
	m.input.Blur()
	m.status = "Added task"
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Smart Planner — ")
	switch m.view {
	case viewList:
		b.WriteString("Tasks")
	case viewSchedule:
		b.WriteString("Smart Schedule")
	case viewStats:
		b.WriteString("Analytics")
	}
	b.WriteString("\n\n")

	switch m.view {
	case viewList:
		b.WriteString(m.renderList())
	case viewSchedule:
		b.WriteString(m.renderSchedule())
	case viewStats:
		b.WriteString(m.renderStats())
	}

	if m.mode == modeAdd {
		b.WriteString("\n---\n")
		b.WriteString(m.renderAddBox())
		b.WriteString("\nField: " + m.add.currentLabel() + "\n")
		b.WriteString(m.input.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))
	return b.String()
}

func (m Model) renderList() string {
	groups := schedule.Visible(schedule.Buckets(m.tasks, time.Now()), m.collapsed)
	if len(groups) == 0 {
		return "No tasks yet. Press 'a' to add one."
	}

	var b strings.Builder
	row := 0
	for _, g := range groups {
		marker := "▾"
		if m.collapsed[g.Name] {
			marker = "▸"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, g.Name))
		for _, t := range g.Tasks {
			cursor := " "
			if m.cursor == row && m.mode == modeList {
				cursor = ">"
			}
			checkbox := "[ ]"
			if t.Completed {
				checkbox = "[x]"
			}
			b.WriteString(fmt.Sprintf(" %s %s %s  %s · %s · %s\n",
				cursor, checkbox, t.Title, t.Priority, t.Category, t.DueAt.Format("Jan 2 15:04")))
			row++
		}
	}
	return b.String()
}

func (m Model) renderSchedule() string {
	if !m.paid {
		return "Smart Schedule is a premium feature.\nUnlock Smart Planner Pro to see your recommended order."
	}
	ranked := schedule.SmartRank(m.tasks, time.Now())
	if len(ranked) == 0 {
		return "Nothing to recommend. Add a task or enjoy the quiet."
	}

	var b strings.Builder
	if sameDay(ranked[0].DueAt, time.Now()) {
		b.WriteString("Top of your list right now\n\n")
	} else {
		b.WriteString("Coming up next...\n\n")
	}
	for i, t := range ranked {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		when := t.DueAt.Format("Jan 2 15:04")
		if sameDay(t.DueAt, time.Now()) {
			when = "Today at " + t.DueAt.Format("15:04")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s  %s · %s\n", cursor, i+1, t.Title, t.Priority, when))
	}
	return b.String()
}

func (m Model) renderStats() string {
	var b strings.Builder
	for _, sec := range analytics.Report(m.tasks, time.Now()) {
		b.WriteString(sec.Title + "\n")
		for _, row := range sec.Rows {
			if row.Sub {
				b.WriteString(fmt.Sprintf("    ∟ %-10s %d\n", row.Label, row.Count))
			} else {
				b.WriteString(fmt.Sprintf("  %-16s %d\n", row.Label, row.Count))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAddBox() string {
	fields := addFields()
	values := []string{m.add.title, m.add.notes, m.add.due, m.add.priority, m.add.category}
	var b strings.Builder
	for i, name := range fields {
		prefix := " "
		if i == m.add.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-24s : %s\n", prefix, name, val))
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move · %s add · %s toggle · %s delete · %s collapse · %s import · %s view · %s quit",
		k.Up, k.Down, k.Add, k.Toggle, k.Delete, k.Collapse, k.Import, k.NextView, k.Quit)
}

// visibleTasks flattens the bucketed list into the rows the cursor walks.
func (m Model) visibleTasks() []task.Task {
	groups := schedule.Visible(schedule.Buckets(m.tasks, time.Now()), m.collapsed)
	var out []task.Task
	for _, g := range groups {
		out = append(out, g.Tasks...)
	}
	return out
}

func (m Model) rowCount() int {
	switch m.view {
	case viewList:
		return len(m.visibleTasks())
	case viewSchedule:
		return len(schedule.SmartRank(m.tasks, time.Now()))
	}
	return 0
}

func (m Model) selectedTask() (task.Task, bool) {
	rows := m.visibleTasks()
	if len(rows) == 0 {
		return task.Task{}, false
	}
	return rows[clampCursor(m.cursor, len(rows))], true
}

// selectedGroup names the bucket the cursor currently sits in.
func (m Model) selectedGroup() (string, bool) {
	groups := schedule.Visible(schedule.Buckets(m.tasks, time.Now()), m.collapsed)
	row := 0
	for _, g := range groups {
		if len(g.Tasks) == 0 {
			continue
		}
		if m.cursor < row+len(g.Tasks) {
			return g.Name, true
		}
		row += len(g.Tasks)
	}
	if len(groups) > 0 {
		return groups[len(groups)-1].Name, true
	}
	return "", false
}

func addFields() []string {
	return []string{"title", "notes", "due (YYYY-MM-DD HH:MM)", "priority (High/Medium/Low)", "category (Work/Personal/Study/Health)"}
}

func (a addState) currentLabel() string {
	return addFields()[a.index]
}

func (a addState) currentValue() string {
	switch a.index {
	case 0:
		return a.title
	case 1:
		return a.notes
	case 2:
		return a.due
	case 3:
		return a.priority
	case 4:
		return a.category
	default:
		return ""
	}
}

func (a *addState) setCurrentValue(v string) {
	switch a.index {
	case 0:
		a.title = v
	case 1:
		a.notes = v
	case 2:
		a.due = v
	case 3:
		a.priority = v
	case 4:
		a.category = v
	}
}

func parsePriority(v string) (task.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high", "h":
		return task.PriorityHigh, true
	case "medium", "m", "":
		return task.PriorityMedium, true
	case "low", "l":
		return task.PriorityLow, true
	}
	return "", false
}

func parseCategory(v string) (task.Category, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "work", "w":
		return task.CategoryWork, true
	case "personal", "p", "":
		return task.CategoryPersonal, true
	case "study", "s":
		return task.CategoryStudy, true
	case "health", "h":
		return task.CategoryHealth, true
	}
	return "", false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
