package config

import "flag"

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"storage":          "storage",
	"data-dir":         "data_dir",
	"store-file":       "store_file",
	"db-file":          "db_file",
	"timestamp-layout": "timestamp_layout",
	"suggestion-limit": "suggestion_limit",
	"log-level":        "log_level",
	"log-format":       "log_format",
	"log-timestamps":   "log_timestamps",
	"log-caller":       "log_caller",
	"log-file":         "log_file",
}

// parseFlags defines and parses CLI flags. If sources is non-nil, flags
// set on the command line are recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("noter", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file, sqlite, memory)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.StoreFile, "store-file", cfg.StoreFile, "JSON store file (relative to data dir)")
	fs.StringVar(&cfg.DBFile, "db-file", cfg.DBFile, "SQLite database file (relative to data dir)")

	// Display
	fs.StringVar(&cfg.TimestampLayout, "timestamp-layout", cfg.TimestampLayout, "Go time layout for task timestamps")
	fs.IntVar(&cfg.SuggestionLimit, "suggestion-limit", cfg.SuggestionLimit, "Maximum suggestions shown (0 for no limit)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "TUI log file (relative to data dir)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
