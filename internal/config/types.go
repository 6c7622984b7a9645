package config

import (
	"github.com/nibzard/noter/internal/noterdir"
	"github.com/nibzard/noter/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultStorage         = "file"
	DefaultDataDir         = "~/" + noterdir.Dir
	DefaultStoreFile       = noterdir.DefaultStoreFile
	DefaultDBFile          = noterdir.DefaultDBFile
	DefaultLogFile         = noterdir.DefaultLogFile
	DefaultTimestampLayout = todo.DefaultTimestampLayout
	DefaultSuggestionLimit = 5
)

// Config holds the full configuration for noter.
type Config struct {
	// Storage backend: file, sqlite, or memory
	Storage string `toml:"storage"`

	// Paths. StoreFile, DBFile, and LogFile are relative to DataDir.
	DataDir   string `toml:"data_dir"`
	StoreFile string `toml:"store_file"`
	DBFile    string `toml:"db_file"`

	// Go time layout for new task timestamps
	TimestampLayout string `toml:"timestamp_layout"`

	// Maximum autocomplete suggestions shown in the TUI
	SuggestionLimit int `toml:"suggestion_limit"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// StoragePath returns the path the selected backend opens.
func (c *Config) StoragePath() string {
	switch c.Storage {
	case "sqlite":
		return c.DBFile
	case "memory":
		return ""
	default:
		return c.StoreFile
	}
}
