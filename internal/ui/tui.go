// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/noter/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	suggestionLimit int
	logger          *log.Logger
	theme           Theme
	keys            KeyMap
	input           io.Reader
	output          io.Writer
}

// WithSuggestionLimit caps the suggestions shown under the input line.
// Zero shows every match.
func WithSuggestionLimit(n int) TUIOption {
	return func(c *tuiConfig) {
		if n >= 0 {
			c.suggestionLimit = n
		}
	}
}

// WithLogger sets the logger for user actions and failures. The terminal
// belongs to the TUI while it runs, so this should write to a file.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithTheme overrides the color palette.
func WithTheme(theme Theme) TUIOption {
	return func(c *tuiConfig) {
		c.theme = theme
	}
}

// WithIO overrides the terminal streams.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

func buildConfig(opts []TUIOption) *tuiConfig {
	c := &tuiConfig{
		suggestionLimit: 5,
		theme:           DefaultTheme,
		keys:            DefaultKeyMap,
		input:           os.Stdin,
		output:          os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// RunTUI runs the task list until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	c := buildConfig(opts)
	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, c)
	defer model.close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(c.input),
		tea.WithOutput(c.output),
	)
	if _, err := program.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
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
