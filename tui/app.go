// Package tui is the terminal front end for the task store.
package tui

import (
	"clementus360/doit/celebrate"
	"clementus360/doit/store"
	"clementus360/doit/types"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *store.Store
	Celebrations *celebrate.Broadcaster
	Title        string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx    context.Context
	store  *store.Store
	keys   keyMap
	styles styles
	help   help.Model
	title  string

	// Data state
	snapshot store.Snapshot

	// List state
	cursor     int
	filter     string
	mode       mode
	search     textinput.Model
	input      textinput.Model
	clearArmed bool

	status      string
	celebrating bool
	width       int

	// Change feeds, nil when not running under Run
	changes      <-chan store.Snapshot
	celebrations <-chan celebrate.Event
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	title := opts.Title
	if title == "" {
		title = "DoIt."
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search tasks"

	input := textinput.New()
	input.Prompt = "+ "
	input.Placeholder = "what needs doing?"
	input.CharLimit = 280

	return Model{
		ctx:      ctx,
		store:    opts.Store,
		keys:     defaultKeyMap(),
		styles:   defaultStyles(),
		help:     help.New(),
		title:    title,
		snapshot: opts.Store.Snapshot(),
		filter:   store.AllCategories,
		search:   search,
		input:    input,
	}
}

// Messages

// snapshotMsg carries state read after a local operation.
type snapshotMsg store.Snapshot

// changedMsg carries state pushed by the store subscription.
type changedMsg store.Snapshot

type celebrateMsg celebrate.Event

// Commands

func waitForChange(ch <-chan store.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return changedMsg(snap)
	}
}

func waitForCelebration(ch <-chan celebrate.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return celebrateMsg(ev)
	}
}

// run performs op against the store off the UI goroutine and reports the
// resulting state.
func (m Model) run(op func(ctx context.Context, s *store.Store)) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		op(ctx, st)
		return snapshotMsg(st.Snapshot())
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	if m.celebrations != nil {
		cmds = append(cmds, waitForCelebration(m.celebrations))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.setSnapshot(store.Snapshot(msg))
		return m, nil

	case changedMsg:
		m.setSnapshot(store.Snapshot(msg))
		return m, waitForChange(m.changes)

	case celebrateMsg:
		m.status = "Task completed. Nice work!"
		m.celebrating = true
		var cmd tea.Cmd
		if m.celebrations != nil {
			cmd = waitForCelebration(m.celebrations)
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) setSnapshot(s store.Snapshot) {
	m.snapshot = s
	if m.filter != store.AllCategories && !slices.Contains(s.Categories, m.filter) {
		m.filter = store.AllCategories
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visible returns the tasks shown under the current search and filter.
func (m Model) visible() []types.Task {
	var out []types.Task
	for _, t := range m.snapshot.Tasks {
		if store.Matches(t, m.search.Value(), m.filter) {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) selected() (types.Task, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return types.Task{}, false
	}
	return vis[m.cursor], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.celebrating = false
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		return m.handleAddKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	}

	// Clear completed is a two-key gesture: C arms, y confirms, anything
	// else cancels and is otherwise ignored.
	if m.clearArmed {
		m.clearArmed = false
		if key.Matches(msg, m.keys.Confirm) {
			n := m.completedCount()
			m.setStatus(fmt.Sprintf("Cleared %d completed %s", n, plural(n, "task")))
			return m, m.run(func(ctx context.Context, s *store.Store) { s.ClearCompleted(ctx) })
		}
		m.setStatus("Clear cancelled")
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.setStatus("")
		return m, m.run(func(ctx context.Context, s *store.Store) { s.Toggle(ctx, t.ID) })

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.setStatus("Deleted " + t.Text)
		return m, m.run(func(ctx context.Context, s *store.Store) { s.Remove(ctx, t.ID) })

	case key.Matches(msg, m.keys.MoveUp):
		return m.move(-1)

	case key.Matches(msg, m.keys.MoveDn):
		return m.move(1)

	case key.Matches(msg, m.keys.Filter):
		m.filter = m.nextFilter()
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Clear):
		n := m.completedCount()
		if n == 0 {
			m.setStatus("Nothing to clear")
			return m, nil
		}
		m.clearArmed = true
		m.setStatus(fmt.Sprintf("Clear %d completed %s? Press y to confirm, any other key to cancel", n, plural(n, "task")))
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Reloading")
		return m, m.run(func(ctx context.Context, s *store.Store) { s.Reload(ctx) })
	}

	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.Reset()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.mode = modeList
		m.input.Reset()
		m.input.Blur()
		if strings.TrimSpace(text) == "" {
			m.setStatus("Task text cannot be empty")
			return m, nil
		}

		category := ""
		if m.filter != store.AllCategories {
			category = m.filter
		}
		m.setStatus("")
		return m, m.run(func(ctx context.Context, s *store.Store) { s.Add(ctx, text, category) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.search.Reset()
		m.search.Blur()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.mode = modeList
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m, cmd
}

// move swaps the selected task with its visible neighbour and writes the
// whole order back to the store.
func (m Model) move(delta int) (tea.Model, tea.Cmd) {
	vis := m.visible()
	from, to := m.cursor, m.cursor+delta
	if from < 0 || from >= len(vis) || to < 0 || to >= len(vis) {
		return m, nil
	}

	ids := make([]string, len(m.snapshot.Tasks))
	for i, t := range m.snapshot.Tasks {
		ids[i] = t.ID
	}
	a := slices.Index(ids, vis[from].ID)
	b := slices.Index(ids, vis[to].ID)
	ids[a], ids[b] = ids[b], ids[a]

	m.cursor = to
	return m, m.run(func(ctx context.Context, s *store.Store) { s.Reorder(ctx, ids) })
}

func (m Model) filters() []string {
	return append([]string{store.AllCategories}, m.snapshot.Categories...)
}

func (m Model) nextFilter() string {
	opts := m.filters()
	i := slices.Index(opts, m.filter)
	return opts[(i+1)%len(opts)]
}

func (m Model) completedCount() int {
	n := 0
	for _, t := range m.snapshot.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Run starts the Bubble Tea program and follows store changes until it
// exits.
func Run(opts Options) error {
	m := New(opts)

	changes := make(chan store.Snapshot, 1)
	unsubscribe := opts.Store.Subscribe(func(s store.Snapshot) {
		for {
			select {
			case changes <- s:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})
	defer unsubscribe()
	m.changes = changes

	if opts.Celebrations != nil {
		ch, stop := opts.Celebrations.Subscribe(4)
		defer stop()
		m.celebrations = ch
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
