// Package noterdir provides constants and utilities for the .noter directory structure.
package noterdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the noter state directory.
	Dir = ".noter"

	// DefaultStoreFile is the JSON store file name (inside the data dir).
	DefaultStoreFile = "store.json"

	// DefaultDBFile is the SQLite database file name (inside the data dir).
	DefaultDBFile = "store.db"

	// DefaultConfigFile is the config file name.
	DefaultConfigFile = "noter.toml"

	// DefaultLogFile is the TUI log file name (inside the data dir).
	DefaultLogFile = "noter.log"
)

// Home returns ~/.noter, or .noter when the home directory is unknown.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return joinPath(dataDir, DefaultConfigFile)
}

// Resolve returns p unchanged when absolute, otherwise joined onto dataDir.
func Resolve(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return joinPath(dataDir, p)
}

func joinPath(dataDir, file string) string {
	if dataDir == "" || dataDir == "." {
		return file
	}
	return filepath.Join(dataDir, file)
}
