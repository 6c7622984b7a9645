package noterdir

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	dir := filepath.Join("home", "me", Dir)
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", ConfigPath(dir), filepath.Join(dir, "noter.toml")},
		{"relative store", Resolve(dir, DefaultStoreFile), filepath.Join(dir, "store.json")},
		{"current dir", ConfigPath("."), "noter.toml"},
		{"empty dir", Resolve("", DefaultDBFile), "store.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.json")
	if got := Resolve("/data", abs); got != abs {
		t.Errorf("Resolve(abs) = %q, want %q", got, abs)
	}
	if got := Resolve("data", "x.json"); got != filepath.Join("data", "x.json") {
		t.Errorf("Resolve(rel) = %q", got)
	}
	if got := Resolve("data", ""); got != "" {
		t.Errorf("Resolve(empty) = %q, want empty", got)
	}
}

func TestHome(t *testing.T) {
	if !strings.HasSuffix(Home(), Dir) {
		t.Errorf("Home() = %q, want suffix %q", Home(), Dir)
	}
}
