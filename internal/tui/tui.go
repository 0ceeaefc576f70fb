// Package tui provides an interactive terminal UI for taskdeck using
// Bubble Tea. The TUI is a thin layer over the task store: every state
// change goes through store operations and is saved to disk afterwards.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/remind"
	"github.com/ChrisZHHG/taskdeck/internal/store"
)

// ViewMode represents the current view state.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// InputMode represents what kind of text input is active.
type InputMode int

const (
	InputNone     InputMode = iota
	InputCreate             // Entering new task title
	InputPostpone           // Entering new due date
	InputSearch             // Entering search text
	InputCategory           // Entering category filter
)

// Status icons
const (
	iconPending   = "○"
	iconPostponed = "◷"
	iconCompleted = "●"
	iconDeleted   = "✗"
)

// Deps carries what the TUI needs from the rest of the program. Save is
// called after every successful mutation. Events may be nil when no
// reminder scheduler is running.
type Deps struct {
	Store  *store.Store
	Save   func() error
	Events <-chan remind.Event
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	deps     Deps
	tasks    []model.Task // all tasks from the store
	filtered []model.Task // tasks after filtering
	cursor   int
	viewMode ViewMode

	// Filter state
	filterStatuses map[model.Status]bool // which statuses to show
	filterCategory string                // category filter (partial match)
	filterSearch   string

	// Input state
	inputMode  InputMode
	inputText  string
	inputLabel string

	// UI state
	width   int
	height  int
	err     error
	message string // temporary status message
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	statusColors = map[model.Status]lipgloss.Color{
		model.StatusPending:   lipgloss.Color("252"),
		model.StatusPostponed: lipgloss.Color("214"),
		model.StatusCompleted: lipgloss.Color("42"),
		model.StatusDeleted:   lipgloss.Color("245"),
	}

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147"))

	// Content area padding
	contentPadding = 2
)

func statusIcon(s model.Status) string {
	switch s {
	case model.StatusPending:
		return iconPending
	case model.StatusPostponed:
		return iconPostponed
	case model.StatusCompleted:
		return iconCompleted
	case model.StatusDeleted:
		return iconDeleted
	default:
		return "?"
	}
}

// New creates a new TUI model over the given dependencies.
func New(deps Deps) Model {
	// Default: show pending and postponed
	statuses := map[model.Status]bool{
		model.StatusPending:   true,
		model.StatusPostponed: true,
		model.StatusCompleted: false,
		model.StatusDeleted:   false,
	}
	return Model{
		deps:           deps,
		viewMode:       ViewList,
		filterStatuses: statuses,
	}
}

// Messages
type tasksMsg struct {
	tasks []model.Task
}

type actionMsg struct {
	message string
	err     error
}

type reminderMsg struct {
	event remind.Event
	ok    bool
}

// loadTasks loads every task from the store; status filters are applied
// in memory so toggling them needs no reload.
func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks := m.deps.Store.List(store.Filter{Statuses: []model.Status{
			model.StatusPending,
			model.StatusPostponed,
			model.StatusCompleted,
			model.StatusDeleted,
		}})
		return tasksMsg{tasks: tasks}
	}
}

// waitForReminder blocks on the scheduler channel and re-arms itself
// after each event until the channel closes.
func (m Model) waitForReminder() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.deps.Events
		return reminderMsg{event: ev, ok: ok}
	}
}

// applyFilters filters tasks based on current filter state.
func (m *Model) applyFilters() {
	m.filtered = nil
	for _, t := range m.tasks {
		// Status filter
		if !m.filterStatuses[t.Status] {
			continue
		}
		// Category filter (partial match)
		if m.filterCategory != "" && !strings.Contains(strings.ToLower(t.Category), strings.ToLower(m.filterCategory)) {
			continue
		}
		// Search filter
		if m.filterSearch != "" {
			search := strings.ToLower(m.filterSearch)
			if !strings.Contains(strings.ToLower(t.Title), search) &&
				!strings.Contains(strings.ToLower(t.ID), search) &&
				!strings.Contains(strings.ToLower(t.Description), search) {
				continue
			}
		}
		m.filtered = append(m.filtered, t)
	}
	// Adjust cursor
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.deps.Events == nil {
		return m.loadTasks()
	}
	return tea.Batch(m.loadTasks(), m.waitForReminder())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear message on any key
		m.message = ""
		m.err = nil
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksMsg:
		m.tasks = msg.tasks
		m.applyFilters()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = msg.message
		}
		return m, m.loadTasks()

	case reminderMsg:
		if !msg.ok {
			// Scheduler stopped; stop listening
			return m, nil
		}
		m.message = reminderText(msg.event)
		return m, tea.Batch(m.loadTasks(), m.waitForReminder())
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle input mode first
	if m.inputMode != InputNone {
		return m.handleInputKey(msg)
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = InputNone
		m.inputText = ""
		return m, nil

	case "enter":
		return m.submitInput()

	case "backspace":
		if len(m.inputText) > 0 {
			m.inputText = m.inputText[:len(m.inputText)-1]
			m.liveFilter()
		}

	default:
		// Add character if printable
		if len(msg.String()) == 1 {
			m.inputText += msg.String()
			m.liveFilter()
		}
	}
	return m, nil
}

// liveFilter narrows the list as the user types a search or category.
func (m *Model) liveFilter() {
	switch m.inputMode {
	case InputSearch:
		m.filterSearch = m.inputText
		m.applyFilters()
	case InputCategory:
		m.filterCategory = m.inputText
		m.applyFilters()
	}
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := m.inputText
	mode := m.inputMode
	m.inputMode = InputNone
	m.inputText = ""

	// Handle inputs that don't require an existing task
	switch mode {
	case InputSearch:
		m.filterSearch = text
		m.applyFilters()
		return m, nil

	case InputCategory:
		m.filterCategory = text
		m.applyFilters()
		return m, nil

	case InputCreate:
		if text == "" {
			return m, nil
		}
		// Use the selected task's category if available
		category := "personal"
		if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
			category = m.filtered[m.cursor].Category
		}
		return m, m.mutate(func() (string, error) {
			task, err := m.deps.Store.Create(store.CreateFields{Title: text, Category: category})
			if err != nil {
				return "", err
			}
			return "Created " + task.ID, nil
		})
	}

	// Remaining inputs require an existing task
	if len(m.filtered) == 0 {
		return m, nil
	}
	task := m.filtered[m.cursor]

	switch mode {
	case InputPostpone:
		if text == "" {
			return m, nil
		}
		due, err := time.Parse("2006-01-02", text)
		if err != nil {
			m.err = fmt.Errorf("invalid date %q: use YYYY-MM-DD", text)
			return m, nil
		}
		return m, m.mutate(func() (string, error) {
			if _, err := m.deps.Store.Postpone(task.ID, due.UTC()); err != nil {
				return "", err
			}
			return "Postponed " + task.ID + " to " + text, nil
		})
	}

	return m, nil
}

// mutate runs a store operation off the update loop, saves the snapshot
// on success, and reports the outcome as an actionMsg.
func (m Model) mutate(op func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		message, err := op()
		if err != nil {
			return actionMsg{err: err}
		}
		if err := m.deps.Save(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: message}
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		m.cursor = max(0, len(m.filtered)-1)

	case "enter", "l":
		if len(m.filtered) > 0 {
			m.viewMode = ViewDetail
		}

	// Actions
	case "c":
		return m.doComplete()
	case "p":
		return m.startInput(InputPostpone, "Postpone until (YYYY-MM-DD): ")
	case "u":
		return m.doRestore()
	case "d":
		return m.doDelete()
	case "x":
		return m.doPurge()

	// Filtering
	case "/":
		return m.startInput(InputSearch, "Search: ")
	case "f":
		return m.startInput(InputCategory, "Category: ")
	case "1":
		m.toggleStatus(model.StatusPending)
	case "2":
		m.toggleStatus(model.StatusPostponed)
	case "3":
		m.toggleStatus(model.StatusCompleted)
	case "4":
		m.toggleStatus(model.StatusDeleted)
	case "0":
		// Show all
		for s := range m.filterStatuses {
			m.filterStatuses[s] = true
		}
		m.applyFilters()

	case "esc":
		// If filters are set, clear them; otherwise quit
		if m.filterSearch != "" || m.filterCategory != "" {
			m.filterSearch = ""
			m.filterCategory = ""
			m.applyFilters()
		} else {
			return m, tea.Quit
		}

	case "r":
		return m, m.loadTasks()

	// Create
	case "n":
		label := "New task: "
		if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
			if cat := m.filtered[m.cursor].Category; cat != "" {
				label = fmt.Sprintf("New task [%s]: ", cat)
			}
		}
		return m.startInput(InputCreate, label)
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc", "h", "backspace":
		m.viewMode = ViewList

	// Actions work in detail view too
	case "c":
		return m.doComplete()
	case "p":
		return m.startInput(InputPostpone, "Postpone until (YYYY-MM-DD): ")
	case "u":
		return m.doRestore()
	case "d":
		return m.doDelete()
	case "x":
		return m.doPurge()

	case "r":
		return m, m.loadTasks()
	}

	return m, nil
}

func (m *Model) toggleStatus(s model.Status) {
	m.filterStatuses[s] = !m.filterStatuses[s]
	m.applyFilters()
}

func (m Model) startInput(mode InputMode, label string) (Model, tea.Cmd) {
	m.inputMode = mode
	m.inputLabel = label
	m.inputText = ""
	return m, nil
}

func (m Model) doComplete() (Model, tea.Cmd) {
	if len(m.filtered) == 0 {
		return m, nil
	}
	task := m.filtered[m.cursor]
	if task.Status != model.StatusPending {
		m.message = "Only pending tasks can be completed"
		return m, nil
	}
	return m, m.mutate(func() (string, error) {
		if _, err := m.deps.Store.Complete(task.ID); err != nil {
			return "", err
		}
		return "Completed " + task.ID, nil
	})
}

func (m Model) doRestore() (Model, tea.Cmd) {
	if len(m.filtered) == 0 {
		return m, nil
	}
	task := m.filtered[m.cursor]
	if task.Status != model.StatusPostponed {
		m.message = "Only postponed tasks can be restored"
		return m, nil
	}
	return m, m.mutate(func() (string, error) {
		if _, err := m.deps.Store.Restore(task.ID); err != nil {
			return "", err
		}
		return "Restored " + task.ID, nil
	})
}

func (m Model) doDelete() (Model, tea.Cmd) {
	if len(m.filtered) == 0 {
		return m, nil
	}
	task := m.filtered[m.cursor]
	return m, m.mutate(func() (string, error) {
		if err := m.deps.Store.Delete(task.ID); err != nil {
			return "", err
		}
		return "Deleted " + task.ID, nil
	})
}

func (m Model) doPurge() (Model, tea.Cmd) {
	if len(m.filtered) == 0 {
		return m, nil
	}
	task := m.filtered[m.cursor]
	if task.Status != model.StatusDeleted {
		m.message = "Only deleted tasks can be purged"
		return m, nil
	}
	return m, m.mutate(func() (string, error) {
		if err := m.deps.Store.Purge(task.ID); err != nil {
			return "", err
		}
		return "Purged " + task.ID, nil
	})
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	switch m.viewMode {
	case ViewList:
		b.WriteString(m.listView())
	case ViewDetail:
		b.WriteString(m.detailView())
	}

	// Input line
	if m.inputMode != InputNone {
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(m.inputLabel + m.inputText + "█"))
	}

	// Status message
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	// Apply padding to entire content
	padStyle := lipgloss.NewStyle().
		PaddingLeft(contentPadding).
		PaddingRight(contentPadding).
		PaddingTop(1)

	return padStyle.Render(b.String())
}

func (m Model) listView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskdeck"))
	b.WriteString(fmt.Sprintf("  %d/%d tasks", len(m.filtered), len(m.tasks)))

	// Active filters (truncate if needed for narrow terminals)
	filters := m.activeFiltersString()
	if filters != "" {
		if m.width > 30 && len(filters) > m.width-20 {
			filters = filters[:m.width-23] + "..."
		}
		b.WriteString("  ")
		b.WriteString(filterStyle.Render(filters))
	}
	b.WriteString("\n\n")

	height := m.height - 8
	if height < 10 {
		height = 15
	}

	if len(m.filtered) == 0 {
		b.WriteString("No tasks match filters\n")
	} else {
		// Calculate visible window - keep cursor in view
		start := 0
		if m.cursor >= height {
			start = m.cursor - height + 1
		}
		end := min(start+height, len(m.filtered))

		for i := start; i < end; i++ {
			task := m.filtered[i]
			if i == m.cursor {
				b.WriteString(selectedRowStyle.Render(m.taskLinePlain(task)))
			} else {
				b.WriteString(m.taskLineStyled(task))
			}
			b.WriteString("\n")
		}
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k:nav  enter:detail  c:complete p:postpone u:restore d:delete x:purge n:new"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/:search f:category 1-4:status 0:all  r:refresh q:quit"))

	return b.String()
}

// taskLinePlain returns a plain text line without any ANSI styling.
// Used for selected rows where we apply a single highlight style.
func (m Model) taskLinePlain(t model.Task) string {
	return fmt.Sprintf("%s %s  p%d %-40s [%s]  %s",
		statusIcon(t.Status), t.ID, t.Priority, clip(t.Title, 40), t.Category, dueText(t))
}

// taskLineStyled returns a styled line with colors for non-selected rows.
func (m Model) taskLineStyled(t model.Task) string {
	icon := lipgloss.NewStyle().Foreground(statusColors[t.Status]).Render(statusIcon(t.Status))
	id := dimStyle.Render(t.ID)
	category := dimStyle.Render("[" + t.Category + "]")

	due := dueText(t)
	if isOverdue(t) {
		due = overdueStyle.Render(due)
	}

	return fmt.Sprintf("%s %s  p%d %-40s %s  %s",
		icon, id, t.Priority, clip(t.Title, 40), category, due)
}

// dueText is the compact due column for list rows.
func dueText(t model.Task) string {
	switch t.Status {
	case model.StatusCompleted:
		return "done"
	case model.StatusDeleted:
		return "deleted"
	}
	switch remaining := model.RemainingDays(t.DueAt, time.Now()); {
	case remaining < 0:
		return "overdue " + humanize.Time(t.DueAt)
	case remaining == 0:
		return "due today"
	default:
		return "due " + humanize.Time(t.DueAt)
	}
}

func isOverdue(t model.Task) bool {
	if t.Status == model.StatusCompleted || t.Status == model.StatusDeleted {
		return false
	}
	return model.RemainingDays(t.DueAt, time.Now()) < 0
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func (m Model) activeFiltersString() string {
	var parts []string

	// Status filter: two-letter codes, pe/po/co/de
	var codes []string
	for _, s := range []model.Status{
		model.StatusPending,
		model.StatusPostponed,
		model.StatusCompleted,
		model.StatusDeleted,
	} {
		if m.filterStatuses[s] {
			codes = append(codes, string(s)[:2])
		}
	}
	if len(codes) < 4 {
		parts = append(parts, "status:"+strings.Join(codes, ","))
	}

	if m.filterCategory != "" {
		parts = append(parts, "category:"+m.filterCategory)
	}

	if m.filterSearch != "" {
		parts = append(parts, "search:\""+m.filterSearch+"\"")
	}

	return strings.Join(parts, " ")
}

// detailView renders the full-screen detail of the selected task.
func (m Model) detailView() string {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return "No task selected"
	}

	t := m.filtered[m.cursor]
	color := statusColors[t.Status]
	var lines []string

	icon := lipgloss.NewStyle().Foreground(color).Render(statusIcon(t.Status))
	lines = append(lines, icon+" "+titleStyle.Render(t.Title))
	lines = append(lines, "")

	statusStyled := lipgloss.NewStyle().Foreground(color).Render(string(t.Status))
	lines = append(lines, detailLabelStyle.Render("ID:        ")+t.ID)
	lines = append(lines, detailLabelStyle.Render("Status:    ")+statusStyled)
	lines = append(lines, detailLabelStyle.Render("Category:  ")+t.Category)
	lines = append(lines, detailLabelStyle.Render("Priority:  ")+fmt.Sprintf("%d (%s)", t.Priority, t.Priority.Label()))
	lines = append(lines, detailLabelStyle.Render("Duration:  ")+string(t.Duration))
	lines = append(lines, detailLabelStyle.Render("Created:   ")+humanize.Time(t.CreatedAt))
	lines = append(lines, detailLabelStyle.Render("Due:       ")+t.DueAt.Format("2006-01-02")+" ("+dueText(t)+")")

	elapsed := model.Elapsed(t.CreatedAt, time.Now(), t.Status, t.CompletedAt)
	lines = append(lines, detailLabelStyle.Render("Elapsed:   ")+fmt.Sprintf("%d min", int64(elapsed/time.Minute)))

	if t.CompletedAt != nil {
		lines = append(lines, detailLabelStyle.Render("Completed: ")+humanize.Time(*t.CompletedAt))
	}
	if t.Place != "" {
		lines = append(lines, detailLabelStyle.Render("Place:     ")+t.Place)
	}
	if t.Assignee != "" {
		lines = append(lines, detailLabelStyle.Render("Assignee:  ")+t.Assignee)
	}
	if len(t.Collaborators) > 0 {
		lines = append(lines, detailLabelStyle.Render("With:      ")+strings.Join(t.Collaborators, ", "))
	}
	if len(t.Tags) > 0 {
		var tags []string
		for _, tag := range t.Tags {
			tags = append(tags, tagStyle.Render("["+tag+"]"))
		}
		lines = append(lines, detailLabelStyle.Render("Tags:      ")+strings.Join(tags, " "))
	}

	// Description
	if t.Description != "" {
		lines = append(lines, "")
		lines = append(lines, detailLabelStyle.Render("Description:"))
		lines = append(lines, strings.Split(t.Description, "\n")...)
	}

	// Due history, oldest first
	if len(t.DueHistory) > 0 {
		lines = append(lines, "")
		lines = append(lines, detailLabelStyle.Render("Earlier due dates:"))
		for _, due := range t.DueHistory {
			lines = append(lines, "  "+dimStyle.Render("→")+" "+due.Format("2006-01-02"))
		}
	}

	lines = append(lines, "")
	lines = append(lines, helpStyle.Render("esc:back  c:complete p:postpone u:restore d:delete x:purge  q:quit"))
	return strings.Join(lines, "\n")
}

// reminderText is the status-line rendering of a scheduler event.
func reminderText(ev remind.Event) string {
	switch {
	case ev.Threshold == remind.ThresholdOverdue:
		return fmt.Sprintf("Reminder: %s is overdue (was due %s)", ev.Task.Title, humanize.Time(ev.Task.DueAt))
	case ev.Remaining == 0:
		return fmt.Sprintf("Reminder: %s is due today", ev.Task.Title)
	default:
		return fmt.Sprintf("Reminder: %s is due %s", ev.Task.Title, humanize.Time(ev.Task.DueAt))
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(deps Deps) error {
	m := New(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
