// Package config resolves noter's settings from TOML files, NOTER_*
// environment variables, and command-line flags.
//
// Later sources override earlier ones: built-in defaults, the user file
// (noter.toml in the data directory, falling back to the OS config
// directory), the project file (./noter.toml or ./.noter.toml), the
// environment, and finally flags. ConfigWithSources records which source
// set each key, which is what `noter config` prints.
//
// Everything noter writes lives under data_dir (default ~/.noter):
//
//	store.json   records for the file backend (store_file)
//	store.db     records for the sqlite backend (db_file)
//	noter.log    TUI log output (log_file)
//
// Relative store_file, db_file, and log_file values are resolved against
// data_dir. The memory backend touches no file at all.
//
// A minimal noter.toml:
//
//	storage = "sqlite"
//	timestamp_layout = "2006-01-02 15:04"
//	suggestion_limit = 8
//	log_level = "debug"
package config
