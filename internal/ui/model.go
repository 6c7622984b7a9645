package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/noter/internal/todo"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// snapshotMsg carries store state pushed by the subscription.
type snapshotMsg struct {
	snap todo.Snapshot
}

// opResultMsg reports the outcome of a store mutation run as a command.
type opResultMsg struct {
	snap   todo.Snapshot
	status string
	err    error
}

type tuiModel struct {
	store  *todo.Store
	logger *log.Logger
	keys   KeyMap
	styles styles
	limit  int

	input textinput.Model
	help  help.Model
	focus focus

	tasks       []todo.Task
	suggestions []string
	matches     []string
	cursor      int

	status        string
	err           error
	confirmClear  bool
	width, height int

	mu      sync.Mutex // guards closed and sends on updates
	closed  bool
	updates chan todo.Snapshot
	cancel  func()
}

func newTUIModel(store *todo.Store, c *tuiConfig) *tuiModel {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "> "
	input.ShowSuggestions = true
	input.Focus()

	m := &tuiModel{
		store:   store,
		logger:  c.logger,
		keys:    c.keys,
		styles:  newStyles(c.theme),
		limit:   c.suggestionLimit,
		input:   input,
		help:    help.New(),
		focus:   focusInput,
		updates: make(chan todo.Snapshot, 1),
	}
	m.cancel = store.Subscribe(m.push)
	m.apply(store.Snapshot())
	return m
}

// push hands a snapshot to the event loop without blocking the store.
// Only the latest snapshot matters, so a pending one is replaced.
func (m *tuiModel) push(snap todo.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	for {
		select {
		case m.updates <- snap:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

// close unsubscribes from the store and closes updates so a pending
// waitForSnapshot returns. It is safe to call more than once.
func (m *tuiModel) close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.updates)
	}
}

func waitForSnapshot(ch <-chan todo.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil

	case snapshotMsg:
		m.apply(msg.snap)
		return m, waitForSnapshot(m.updates)

	case opResultMsg:
		m.apply(msg.snap)
		m.err = msg.err
		if msg.err != nil {
			m.status = ""
			m.logger.Error("store write failed", "err", msg.err)
		} else {
			m.status = msg.status
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.input.Reset()
		m.refreshMatches()
		if text == "" {
			return m, nil
		}
		return m, m.run(func(s *todo.Store) (string, error) {
			task, err := s.Add(text)
			if task.IsZero() {
				return "", err
			}
			return fmt.Sprintf("Added %q", text), err
		})
	case key.Matches(msg, m.keys.FocusList):
		m.setFocus(focusList)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmClear && !key.Matches(msg, m.keys.ClearAll) {
		m.confirmClear = false
		m.status = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.FocusInput):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.run(func(s *todo.Store) (string, error) {
			if err := s.Reload(); err != nil {
				return "", err
			}
			return fmt.Sprintf("Reloaded %d tasks", s.Len()), nil
		})
	case key.Matches(msg, m.keys.ClearDone):
		return m, m.run(func(s *todo.Store) (string, error) {
			n, err := s.RemoveCompleted()
			return fmt.Sprintf("Removed %d completed", n), err
		})
	case key.Matches(msg, m.keys.ClearAll):
		if len(m.tasks) == 0 {
			return m, nil
		}
		if !m.confirmClear {
			m.confirmClear = true
			m.status = fmt.Sprintf("Press %s again to remove all %d tasks", m.keys.ClearAll.Keys()[0], len(m.tasks))
			return m, nil
		}
		m.confirmClear = false
		return m, m.run(func(s *todo.Store) (string, error) {
			n, err := s.RemoveAll()
			return fmt.Sprintf("Removed %d tasks", n), err
		})
	}

	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	text := task.Text

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.run(func(s *todo.Store) (string, error) {
			err := s.ToggleCompleted(text)
			if task.Completed {
				return fmt.Sprintf("Reopened %q", text), err
			}
			return fmt.Sprintf("Completed %q", text), err
		})
	case key.Matches(msg, m.keys.CyclePriority):
		return m, m.setPriority(text, (task.Priority+1)%3)
	case key.Matches(msg, m.keys.PriorityLow):
		return m, m.setPriority(text, todo.PriorityLow)
	case key.Matches(msg, m.keys.PriorityMedium):
		return m, m.setPriority(text, todo.PriorityMedium)
	case key.Matches(msg, m.keys.PriorityHigh):
		return m, m.setPriority(text, todo.PriorityHigh)
	case key.Matches(msg, m.keys.Delete):
		return m, m.run(func(s *todo.Store) (string, error) {
			return fmt.Sprintf("Deleted %q", text), s.Remove(text)
		})
	}
	return m, nil
}

func (m *tuiModel) setPriority(text string, p todo.Priority) tea.Cmd {
	return m.run(func(s *todo.Store) (string, error) {
		return fmt.Sprintf("Priority of %q set to %s", text, p), s.SetPriority(text, p)
	})
}

// run executes a store mutation off the event loop and reports the
// resulting state.
func (m *tuiModel) run(op func(*todo.Store) (string, error)) tea.Cmd {
	store, logger := m.store, m.logger
	return func() tea.Msg {
		status, err := op(store)
		if status != "" {
			logger.Info(status)
		}
		return opResultMsg{snap: store.Snapshot(), status: status, err: err}
	}
}

func (m *tuiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// apply replaces the displayed state, keeping the cursor on the same task
// when it survives.
func (m *tuiModel) apply(snap todo.Snapshot) {
	prev, hadPrev := m.selected()

	m.tasks = snap.Tasks
	m.suggestions = snap.Suggestions
	m.input.SetSuggestions(snap.Suggestions)
	m.refreshMatches()

	if hadPrev {
		for i, task := range m.tasks {
			if task.Text == prev.Text {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
}

func (m *tuiModel) refreshMatches() {
	if m.input.Value() == "" {
		m.matches = nil
		return
	}
	m.matches = todo.FilterSuggestions(m.suggestions, m.input.Value())
	if m.limit > 0 && len(m.matches) > m.limit {
		m.matches = m.matches[:m.limit]
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}
