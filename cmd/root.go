// Package cmd implements the CLI command structure for noter.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/noter/internal/config"
	"github.com/nibzard/noter/internal/logging"
	"github.com/nibzard/noter/internal/storage"
	"github.com/nibzard/noter/internal/todo"
	"github.com/nibzard/noter/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage")

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	cws    *config.ConfigWithSources
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the noter CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("noter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a := &app{
		cfg:    cws.Config,
		cws:    cws,
		stdout: stdout,
		stderr: stderr,
		logger: logging.NewFromConfig(stderr, cws.Config.LogLevel, cws.Config.LogFormat, cws.Config.LogTimestamps, cws.Config.LogCaller),
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	a.logger.Debug("running command", "command", subcommand, "storage", a.cfg.Storage, "path", a.cfg.StoragePath())

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "done", "toggle":
		return a.toggleCommand(remainingArgs)
	case "priority", "prio":
		return a.priorityCommand(remainingArgs)
	case "rm", "remove":
		return a.rmCommand(remainingArgs)
	case "clear":
		return a.clearCommand(remainingArgs)
	case "clear-done":
		return a.clearDoneCommand(remainingArgs)
	case "suggest":
		return a.suggestCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "log", "tail":
		return a.logCommand(ctx, remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the configured backend and loads the task store.
// The returned close function releases the backend.
func (a *app) openStore(logger *log.Logger) (*todo.Store, func() error, error) {
	kind, ok := storage.ParseKind(a.cfg.Storage)
	if !ok {
		return nil, nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage)
	}
	backend, err := storage.Open(kind, a.cfg.StoragePath(), storage.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", kind, err)
	}
	store, err := todo.Open(backend,
		todo.WithLogger(logger),
		todo.WithTimestampLayout(a.cfg.TimestampLayout),
	)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	return store, backend.Close, nil
}

// withStore runs fn against an opened store and closes it afterwards.
func (a *app) withStore(fn func(*todo.Store) error) (err error) {
	store, closeStore, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil && err == nil {
			err = fmt.Errorf("closing storage: %w", cerr)
		}
	}()
	return fn(store)
}

// tuiCommand launches the interactive task list.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("noter tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	limit := fs.Int("n", a.cfg.SuggestionLimit, "Maximum suggestions shown (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (use 'noter ls' or 'noter help')")
	}

	// The alternate screen owns the terminal, so log to a file.
	var fileLog *logging.FileLogger
	if a.cfg.LogFile != "" {
		opts := logging.DefaultOptions()
		opts.Level = logging.ParseLevel(a.cfg.LogLevel)
		opts.Formatter = logging.ParseFormatter(a.cfg.LogFormat)
		opts.ReportCaller = a.cfg.LogCaller
		fl, err := logging.NewFileLogger(a.cfg.LogFile, opts)
		if err != nil {
			a.logger.Warn("file logging disabled", "path", a.cfg.LogFile, "err", err)
		} else {
			fileLog = fl
			defer fileLog.Close()
		}
	}
	logger := fileLog.Logger()

	store, closeStore, err := a.openStore(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	logger.Info("tui started", "storage", a.cfg.Storage, "path", a.cfg.StoragePath(), "tasks", store.Len())
	return ui.RunTUI(ctx, store,
		ui.WithSuggestionLimit(*limit),
		ui.WithLogger(logger),
	)
}

// addCommand adds a task from the remaining arguments.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("noter add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	prio := fs.String("p", "", "Priority (low|medium|high or 0-2)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := joinText(fs.Args())
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: noter add [-p priority] <text>", errUsage)
	}
	var p todo.Priority
	if *prio != "" {
		var ok bool
		if p, ok = todo.ParsePriority(*prio); !ok {
			return fmt.Errorf("invalid priority %q (want low, medium, high, or 0-2)", *prio)
		}
	}

	return a.withStore(func(store *todo.Store) error {
		task, err := store.Add(text)
		if err != nil {
			return err
		}
		if p != todo.PriorityLow {
			if err := store.SetPriority(text, p); err != nil {
				return err
			}
			task.Priority = p
		}
		fmt.Fprintf(a.stdout, "Added: %s\n", formatTask(task))
		return nil
	})
}

// lsItem is the JSON form of a listed task.
type lsItem struct {
	Text      string `json:"text" yaml:"text"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Completed bool   `json:"completed" yaml:"completed"`
	Priority  int    `json:"priority" yaml:"priority"`
}

// lsCommand lists tasks in display order.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("noter ls", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	onlyDone := fs.Bool("done", false, "Only completed tasks")
	onlyOpen := fs.Bool("open", false, "Only open tasks")
	asJSON := fs.Bool("json", false, "Print JSON")
	asYAML := fs.Bool("yaml", false, "Print YAML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *onlyDone && *onlyOpen {
		return fmt.Errorf("-done and -open are mutually exclusive")
	}
	if *asJSON && *asYAML {
		return fmt.Errorf("-json and -yaml are mutually exclusive")
	}

	return a.withStore(func(store *todo.Store) error {
		var tasks []todo.Task
		for _, task := range store.Tasks() {
			if (*onlyDone && !task.Completed) || (*onlyOpen && task.Completed) {
				continue
			}
			tasks = append(tasks, task)
		}

		if *asJSON || *asYAML {
			items := make([]lsItem, 0, len(tasks))
			for _, task := range tasks {
				items = append(items, lsItem{
					Text:      task.Text,
					Timestamp: task.Timestamp,
					Completed: task.Completed,
					Priority:  int(task.Priority),
				})
			}
			if *asYAML {
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(items); err != nil {
					return err
				}
				return enc.Close()
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		if len(tasks) == 0 {
			fmt.Fprintln(a.stdout, "No notes yet")
			return nil
		}
		for _, task := range tasks {
			fmt.Fprintln(a.stdout, formatTask(task))
		}
		return nil
	})
}

// toggleCommand flips the completed flag of a task.
func (a *app) toggleCommand(args []string) error {
	text := joinText(args)
	if text == "" {
		return fmt.Errorf("%w: noter done <text>", errUsage)
	}
	return a.withStore(func(store *todo.Store) error {
		if _, ok := store.Get(text); !ok {
			return fmt.Errorf("no task %q", text)
		}
		if err := store.ToggleCompleted(text); err != nil {
			return err
		}
		task, _ := store.Get(text)
		if task.Completed {
			fmt.Fprintf(a.stdout, "Completed: %s\n", text)
		} else {
			fmt.Fprintf(a.stdout, "Reopened: %s\n", text)
		}
		return nil
	})
}

// priorityCommand sets the priority of a task.
func (a *app) priorityCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: noter priority <low|medium|high> <text>", errUsage)
	}
	p, ok := todo.ParsePriority(args[0])
	if !ok {
		return fmt.Errorf("invalid priority %q (want low, medium, high, or 0-2)", args[0])
	}
	text := joinText(args[1:])
	return a.withStore(func(store *todo.Store) error {
		if _, ok := store.Get(text); !ok {
			return fmt.Errorf("no task %q", text)
		}
		if err := store.SetPriority(text, p); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Priority: %s -> %s\n", text, p)
		return nil
	})
}

// rmCommand removes a task.
func (a *app) rmCommand(args []string) error {
	text := joinText(args)
	if text == "" {
		return fmt.Errorf("%w: noter rm <text>", errUsage)
	}
	return a.withStore(func(store *todo.Store) error {
		if _, ok := store.Get(text); !ok {
			return fmt.Errorf("no task %q", text)
		}
		if err := store.Remove(text); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed: %s\n", text)
		return nil
	})
}

// clearCommand removes every task.
func (a *app) clearCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return a.withStore(func(store *todo.Store) error {
		n, err := store.RemoveAll()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed %d task(s)\n", n)
		return nil
	})
}

// clearDoneCommand removes completed tasks.
func (a *app) clearDoneCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return a.withStore(func(store *todo.Store) error {
		n, err := store.RemoveCompleted()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed %d completed task(s)\n", n)
		return nil
	})
}

// suggestCommand prints suggestions matching the input.
func (a *app) suggestCommand(args []string) error {
	fs := flag.NewFlagSet("noter suggest", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	limit := fs.Int("n", 0, "Maximum suggestions (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input := joinText(fs.Args())
	return a.withStore(func(store *todo.Store) error {
		matches := store.Suggest(input)
		if *limit > 0 && len(matches) > *limit {
			matches = matches[:*limit]
		}
		for _, s := range matches {
			fmt.Fprintln(a.stdout, s)
		}
		return nil
	})
}

// configCommand prints the effective configuration and where each value
// came from.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("noter config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	cfg := a.cfg
	values := map[string]string{
		"storage":          cfg.Storage,
		"data_dir":         cfg.DataDir,
		"store_file":       cfg.StoreFile,
		"db_file":          cfg.DBFile,
		"timestamp_layout": cfg.TimestampLayout,
		"suggestion_limit": fmt.Sprint(cfg.SuggestionLimit),
		"log_level":        cfg.LogLevel,
		"log_format":       cfg.LogFormat,
		"log_timestamps":   fmt.Sprint(cfg.LogTimestamps),
		"log_caller":       fmt.Sprint(cfg.LogCaller),
		"log_file":         cfg.LogFile,
	}
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(a.stdout, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintf(a.stdout, "Config file: (none)\n\n")
	}
	for _, field := range a.cws.Fields() {
		fmt.Fprintf(a.stdout, "%-17s = %-30q # %s\n", field, values[field], a.cws.Source(field))
	}
	return nil
}

// logCommand prints the TUI log file.
func (a *app) logCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("noter log", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cfg.LogFile == "" {
		return fmt.Errorf("file logging is disabled (log_file is empty)")
	}
	if _, err := os.Stat(a.cfg.LogFile); os.IsNotExist(err) {
		fmt.Fprintln(a.stdout, "No log file yet.")
		return nil
	}
	if *follow {
		fmt.Fprintf(a.stderr, "Tailing: %s (Ctrl+C to stop)\n", a.cfg.LogFile)
	}
	return logging.TailLog(ctx, a.stdout, a.cfg.LogFile, *n, *follow)
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "noter version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Noter - A small todo list with autocomplete")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  noter [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                      Launch terminal UI (default command)")
	fmt.Fprintln(w, "  add [-p prio] <text>     Add a task (replaces one with the same text)")
	fmt.Fprintln(w, "  ls [-json|-yaml]         List tasks by priority, then text (-done, -open filter)")
	fmt.Fprintln(w, "  done <text>              Toggle a task's completed flag")
	fmt.Fprintln(w, "  priority <prio> <text>   Set priority (low|medium|high or 0-2)")
	fmt.Fprintln(w, "  rm <text>                Remove a task")
	fmt.Fprintln(w, "  clear                    Remove all tasks")
	fmt.Fprintln(w, "  clear-done               Remove completed tasks")
	fmt.Fprintln(w, "  suggest [-n N] [input]   Print matching suggestions")
	fmt.Fprintln(w, "  config [-example]        Show effective configuration")
	fmt.Fprintln(w, "  log [-n N] [-f]          Show the terminal UI log")
	fmt.Fprintln(w, "  version                  Show version information")
	fmt.Fprintln(w, "  help                     Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// formatTask renders a task as a single CLI line.
func formatTask(t todo.Task) string {
	check := " "
	if t.Completed {
		check = "x"
	}
	return fmt.Sprintf("[%s] %-6s %s  (%s)", check, t.Priority, t.Text, t.Timestamp)
}

// joinText joins arguments into task text, so quoting is optional.
func joinText(args []string) string {
	return strings.Join(args, " ")
}
