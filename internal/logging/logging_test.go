// Package logging provides tests for logger construction.
package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
		{"xml", log.TextFormatter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = log.WarnLevel
	logger := New(&buf, opts)

	logger.Info("hidden")
	logger.Warn("shown", "key", "data")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown") || !strings.Contains(out, "key=data") {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "noter") {
		t.Errorf("expected prefix in output: %s", out)
	}
}

func TestNewFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "debug", "json", false, false)
	logger.Debug("task added", "text", "Buy milk")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "task added" || entry["text"] != "Buy milk" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestFileLogger(t *testing.T) {
	t.Run("appends to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "noter.log")
		fl, err := NewFileLogger(path, DefaultOptions())
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		fl.Logger().Info("first")
		if err := fl.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		fl, err = NewFileLogger(path, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		fl.Logger().Info("second")
		fl.Close()

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "first") || !strings.Contains(string(content), "second") {
			t.Errorf("log file missing entries: %s", content)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := NewFileLogger("", DefaultOptions()); err == nil {
			t.Fatal("expected error for empty path")
		}
	})

	t.Run("nil logger", func(t *testing.T) {
		var fl *FileLogger
		if err := fl.Close(); err != nil {
			t.Errorf("Close on nil: %v", err)
		}
		if fl.Logger() == nil {
			t.Error("Logger on nil should return a discard logger")
		}
	})
}
