package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	strVars := []struct {
		env    string
		field  string
		target *string
	}{
		{"NOTER_STORAGE", "storage", &cfg.Storage},
		{"NOTER_DATA_DIR", "data_dir", &cfg.DataDir},
		{"NOTER_STORE_FILE", "store_file", &cfg.StoreFile},
		{"NOTER_DB_FILE", "db_file", &cfg.DBFile},
		{"NOTER_TIMESTAMP_LAYOUT", "timestamp_layout", &cfg.TimestampLayout},
		{"NOTER_LOG_LEVEL", "log_level", &cfg.LogLevel},
		{"NOTER_LOG_FORMAT", "log_format", &cfg.LogFormat},
		{"NOTER_LOG_FILE", "log_file", &cfg.LogFile},
	}
	for _, v := range strVars {
		if val := os.Getenv(v.env); val != "" {
			*v.target = val
			mark(v.field)
		}
	}

	if v := os.Getenv("NOTER_SUGGESTION_LIMIT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.SuggestionLimit = i
			mark("suggestion_limit")
		}
	}
	if v := os.Getenv("NOTER_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv("NOTER_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
