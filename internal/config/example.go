package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# noter configuration file
# Values can be overridden by NOTER_* environment variables or CLI flags

# Storage backend: file (JSON), sqlite, or memory (nothing persisted)
storage = "file"

# Data directory (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.noter"

# Store files, relative to data_dir unless absolute
store_file = "store.json"
db_file = "store.db"

# Go time layout used for new task timestamps
timestamp_layout = "02.01.2006 15.04.05"

# Maximum autocomplete suggestions shown in the TUI (0 shows all)
suggestion_limit = 5

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# TUI log file, relative to data_dir (empty disables file logging)
log_file = "noter.log"
`
}
