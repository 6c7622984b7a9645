package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/noter/internal/storage"
	"github.com/nibzard/noter/internal/todo"
)

// testEnv isolates a CLI run: HOME, the working directory, and the data
// directory all live under fresh temp dirs.
type testEnv struct {
	t       *testing.T
	dataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{"NOTER_STORAGE", "NOTER_DATA_DIR", "NOTER_STORE_FILE", "NOTER_DB_FILE", "NOTER_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	t.Chdir(t.TempDir())
	return &testEnv{t: t, dataDir: filepath.Join(home, ".noter")}
}

// run executes the CLI and returns stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("noter %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "help flag", args: []string{"--help"}, want: "Commands:"},
		{name: "short help flag", args: []string{"-h"}, want: "Commands:"},
		{name: "help command", args: []string{"help"}, want: "clear-done"},
		{name: "version flag", args: []string{"--version"}, want: "noter version dev"},
		{name: "version command", args: []string{"version"}, want: "noter version"},
		{name: "unknown command", args: []string{"unknown-command"}, wantErr: "unknown command"},
		{name: "bad storage", args: []string{"--storage", "redis", "ls"}, wantErr: "unknown storage backend"},
		{name: "tui extra args", args: []string{"tui", "extra"}, wantErr: "unexpected arguments"},
		{name: "add without text", args: []string{"add"}, wantErr: "usage"},
		{name: "priority without text", args: []string{"priority", "high"}, wantErr: "usage"},
		{name: "bad priority", args: []string{"priority", "urgent", "x"}, wantErr: "invalid priority"},
		{name: "ls conflicting filters", args: []string{"ls", "-done", "-open"}, wantErr: "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, err := env.run(tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output should contain %q, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)

	if out := env.mustRun("ls"); !strings.Contains(out, "No notes yet") {
		t.Errorf("empty ls: got %q", out)
	}

	env.mustRun("add", "Buy", "milk")
	env.mustRun("add", "-p", "high", "Call mom")
	env.mustRun("add", "Walk dog")

	out := env.mustRun("ls")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("ls lines: got %d:\n%s", len(lines), out)
	}
	for i, want := range []string{"Call mom", "Buy milk", "Walk dog"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want)
		}
	}

	if out := env.mustRun("done", "Buy milk"); !strings.Contains(out, "Completed: Buy milk") {
		t.Errorf("done: got %q", out)
	}
	if out := env.mustRun("ls", "-done"); !strings.Contains(out, "[x]") || strings.Contains(out, "Walk dog") {
		t.Errorf("ls -done: got %q", out)
	}

	env.mustRun("priority", "medium", "Walk dog")
	env.mustRun("rm", "Call mom")

	if _, err := env.run("rm", "Call mom"); err == nil || !strings.Contains(err.Error(), "no task") {
		t.Errorf("rm of missing task: got %v", err)
	}

	if out := env.mustRun("clear-done"); !strings.Contains(out, "Removed 1 completed") {
		t.Errorf("clear-done: got %q", out)
	}

	var items []lsItem
	if err := json.Unmarshal([]byte(env.mustRun("ls", "-json")), &items); err != nil {
		t.Fatalf("ls -json: %v", err)
	}
	if len(items) != 1 || items[0].Text != "Walk dog" || items[0].Priority != int(todo.PriorityMedium) {
		t.Errorf("ls -json: got %+v", items)
	}

	if out := env.mustRun("ls", "-yaml"); !strings.HasPrefix(out, "- text: Walk dog\n") || !strings.Contains(out, "  priority: 1\n") {
		t.Errorf("ls -yaml: got %q", out)
	}

	out = env.mustRun("suggest", "M")
	want := "Buy milk\nCall mom\n"
	if out != want {
		t.Errorf("suggest M: got %q, want %q", out, want)
	}
	if out := env.mustRun("suggest", "-n", "1"); out != "Buy milk\n" {
		t.Errorf("suggest -n 1: got %q", out)
	}

	if out := env.mustRun("clear"); !strings.Contains(out, "Removed 1 task") {
		t.Errorf("clear: got %q", out)
	}
	if out := env.mustRun("ls"); !strings.Contains(out, "No notes yet") {
		t.Errorf("ls after clear: got %q", out)
	}
}

func TestPersistedLayout(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "Buy milk")
	env.mustRun("rm", "Buy milk")

	raw, err := os.ReadFile(filepath.Join(env.dataDir, "store.json"))
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	var records map[string]string
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("store file is not a JSON object of strings: %v", err)
	}
	if records[todo.KeyData] != "{}" {
		t.Errorf("data: got %q, want {}", records[todo.KeyData])
	}
	if records[todo.KeyDeletedTasks] != `["Buy milk"]` {
		t.Errorf("deletedTasks: got %q", records[todo.KeyDeletedTasks])
	}
}

func TestSQLiteBackend(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("--storage", "sqlite", "add", "Buy milk")
	env.mustRun("--storage", "sqlite", "done", "Buy milk")

	if out := env.mustRun("--storage", "sqlite", "ls"); !strings.Contains(out, "[x]") {
		t.Errorf("ls: got %q", out)
	}
	if _, err := os.Stat(filepath.Join(env.dataDir, "store.db")); err != nil {
		t.Errorf("expected sqlite database: %v", err)
	}

	db, err := storage.OpenSQLite(filepath.Join(env.dataDir, "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if v, ok, err := db.Get(todo.KeySuggestions); err != nil || !ok || v != `["Buy milk"]` {
		t.Errorf("suggestions record: got %q, %v, %v", v, ok, err)
	}
}

func TestLegacyDataLoads(t *testing.T) {
	env := newTestEnv(t)
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	legacy := `{"data": "{\"Water plants\":\"19.10.2026 08.00.00\"}"}`
	if err := os.WriteFile(filepath.Join(env.dataDir, "store.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	out := env.mustRun("ls")
	if !strings.Contains(out, "Water plants") || !strings.Contains(out, "19.10.2026 08.00.00") {
		t.Errorf("legacy task not listed: %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile("noter.toml", []byte("suggestion_limit = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := env.mustRun("--log-level", "debug", "config")
	for _, want := range []string{"Config file: noter.toml", `"9"`, "project file", "flag", "default"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	if out := env.mustRun("config", "-example"); !strings.Contains(out, "suggestion_limit") {
		t.Errorf("config -example: got %q", out)
	}
}

func TestLogCommand(t *testing.T) {
	env := newTestEnv(t)

	if out := env.mustRun("log"); !strings.Contains(out, "No log file yet") {
		t.Errorf("log without file: got %q", out)
	}

	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "one\ntwo\nthree\n"
	if err := os.WriteFile(filepath.Join(env.dataDir, "noter.log"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if out := env.mustRun("log", "-n", "2"); out != "two\nthree\n" {
		t.Errorf("log -n 2: got %q", out)
	}

	if _, err := env.run("--log-file", "", "log"); err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("expected disabled error, got %v", err)
	}
}

func TestFormatTask(t *testing.T) {
	task := todo.Task{Text: "Buy milk", Timestamp: "19.10.2026 14.05.03", Completed: true, Priority: todo.PriorityHigh}
	want := "[x] high   Buy milk  (19.10.2026 14.05.03)"
	if got := formatTask(task); got != want {
		t.Errorf("formatTask: got %q, want %q", got, want)
	}
}
