// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/task-manager/internal/format"
	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/service"
	"github.com/nibzard/task-manager/internal/task"
)

// Backend is the part of the service the TUI drives.
type Backend interface {
	Dashboard() (*service.Dashboard, error)
	Start(id int) (service.Change, error)
	Complete(id int, notes string) (service.Change, error)
	Block(id int) (service.Change, error)
	Reopen(id int) (service.Change, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	color        bool
	tickInterval time.Duration
}

// WithColor toggles colored output.
func WithColor(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.color = enabled
	}
}

// WithRefresh sets how often the bucket is reloaded from disk. Zero
// disables periodic reloads.
func WithRefresh(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.tickInterval = d
	}
}

// RunTUI starts the TUI against backend.
func RunTUI(ctx context.Context, backend Backend, opts ...TUIOption) error {
	c := &tuiConfig{
		color:        true,
		tickInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(backend, c)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Start    key.Binding
	Complete key.Binding
	Block    key.Binding
	Reopen   key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Sort     key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Block:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block")),
		Reopen:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "back to todo")),
		Filter:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "filter todo/doing/blocked/done")),
		Clear:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear filter")),
		Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "cycle sort")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:  key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		Help:     key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Complete, k.Search, k.Sort, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh, k.Quit},
		{k.Start, k.Complete, k.Block, k.Reopen},
		{k.Filter, k.Clear, k.Sort, k.Search, k.Help},
	}
}

// filterKeys maps number keys to status filters.
var filterKeys = map[string]task.Status{
	"1": task.StatusTodo,
	"2": task.StatusInProgress,
	"3": task.StatusBlocked,
	"4": task.StatusDone,
}

type tuiModel struct {
	backend      Backend
	styles       format.Styles
	keys         keyMap
	help         help.Model
	search       textinput.Model
	tickInterval time.Duration

	dash    *service.Dashboard
	loadErr error
	visible []task.Task
	cursor  int

	filter    task.Status
	sortKey   query.SortKey
	query     string
	searching bool
	message   string
}

type tickMsg time.Time

func newTUIModel(backend Backend, c *tuiConfig) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "search description, notes, tags, client"
	ti.CharLimit = 120
	ti.Prompt = "/ "
	return &tuiModel{
		backend:      backend,
		styles:       format.NewStyles(c.color),
		keys:         newKeyMap(),
		help:         help.New(),
		search:       ti,
		tickInterval: c.tickInterval,
		sortKey:      query.SortDeadline,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *tuiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.query = strings.TrimSpace(m.search.Value())
		m.searching = false
		m.search.Blur()
		m.cursor = 0
		m.applyView()
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.message = ""
		m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Filter):
		m.filter = filterKeys[msg.String()]
		m.cursor = 0
		m.applyView()
	case key.Matches(msg, m.keys.Clear):
		m.filter = ""
		m.query = ""
		m.search.SetValue("")
		m.applyView()
	case key.Matches(msg, m.keys.Sort):
		m.sortKey = m.sortKey.Next()
		m.applyView()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Start):
		m.act("Started", m.backend.Start)
	case key.Matches(msg, m.keys.Complete):
		m.act("Completed", func(id int) (service.Change, error) { return m.backend.Complete(id, "") })
	case key.Matches(msg, m.keys.Block):
		m.act("Blocked", m.backend.Block)
	case key.Matches(msg, m.keys.Reopen):
		m.act("Reopened", m.backend.Reopen)
	}
	return m, nil
}

// selected returns the task under the cursor.
func (m *tuiModel) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

// act runs a status change on the selected task and reloads.
func (m *tuiModel) act(verb string, fn func(id int) (service.Change, error)) {
	t := m.selected()
	if t == nil {
		m.message = "No task selected."
		return
	}
	change, err := fn(t.ID)
	if err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.message = fmt.Sprintf("%s task #%d.", verb, change.Task.ID)
	if change.Markdown != "" {
		m.message += " " + change.Markdown
	}
	m.refresh()
}

func (m *tuiModel) refresh() {
	dash, err := m.backend.Dashboard()
	if err != nil {
		m.loadErr = err
		m.dash = nil
		m.visible = nil
		return
	}
	m.loadErr = nil
	m.dash = dash
	m.applyView()
}

// applyView filters, searches and sorts the loaded tasks. The cursor stays
// on the same task ID when it is still visible.
func (m *tuiModel) applyView() {
	if m.dash == nil {
		m.visible = nil
		return
	}
	selectedID := 0
	if t := m.selected(); t != nil {
		selectedID = t.ID
	}

	tasks := m.dash.Tasks
	if m.filter != "" {
		tasks = query.WithStatus(tasks, m.filter)
	}
	if m.query != "" {
		tasks = query.Search(tasks, m.query, query.SearchAll)
	}
	m.visible = query.Sort(tasks, m.sortKey)

	for i := range m.visible {
		if m.visible[i].ID == selectedID {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *tuiModel) today() string {
	if m.dash == nil {
		return task.FormatDate(time.Now())
	}
	return task.FormatDate(m.dash.Loaded)
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles)

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}
	if m.dash == nil {
		b.WriteString("Loading...\n")
		return b.String()
	}

	writeOverview(&b, m.dash.Stats)
	writeViewLine(&b, m)
	if m.searching {
		b.WriteString(m.search.View() + "\n\n")
	}
	writeTasks(&b, m)
	if t := m.selected(); t != nil {
		b.WriteString("\n")
		b.WriteString(format.TaskDetail(t, "", m.today(), m.styles))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString("\n" + m.message + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder, st format.Styles) {
	title := "Task Manager"
	b.WriteString(st.Render(st.Title, title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, s task.Stats) {
	fmt.Fprintf(b, "  Todo: %d  Doing: %d  Blocked: %d  Done: %d  Overdue: %d\n\n",
		s.Pending, s.Active, s.Blocked, s.Completed, s.Overdue)
}

func writeViewLine(b *strings.Builder, m *tuiModel) {
	parts := []string{"Sort: " + string(m.sortKey)}
	if m.filter != "" {
		parts = append(parts, "Filter: "+string(m.filter))
	}
	if m.query != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", m.query))
	}
	if m.filter != "" || m.query != "" {
		parts = append(parts, "(0 to clear)")
	}
	b.WriteString(strings.Join(parts, "  ") + "\n\n")
}

func writeTasks(b *strings.Builder, m *tuiModel) {
	if len(m.visible) == 0 {
		b.WriteString("  No tasks found.\n")
		return
	}
	today := m.today()
	for i := range m.visible {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + format.TaskRow(&m.visible[i], m.dash.Codes, today, m.styles) + "\n")
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
