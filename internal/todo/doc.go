// Package todo keeps the task list, its autocomplete history, and the
// persisted mirror of both.
//
// A Store owns a Collection of tasks keyed by their text and writes it
// through a storage.Storage after every change. The persisted layout uses
// three records:
//
//	data          {"Buy milk": {"timestamp": "19.10.2026 14.05.03", "completed": false, "priority": 0}}
//	suggestions   ["Buy milk"]     texts that were completed
//	deletedTasks  ["Clean house"]  texts that were removed
//
// Older data records that map a text straight to its timestamp string
// ({"Buy milk": "19.10.2026 14.05.03"}) are still accepted and upgraded on
// the next write.
//
// # Validation
//
// Each record is checked against an embedded JSON Schema (draft 2020-12)
// when it is read. A record that is not JSON or fails the schema is
// treated as absent: the store starts that record empty and logs a
// warning. Nothing is surfaced to the caller.
//
// # Priority Range
//
//   - 0: Low (default)
//   - 1: Medium
//   - 2: High
//
// # Ordering
//
// Tasks are displayed highest priority first, then by text in byte order.
package todo
