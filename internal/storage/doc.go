// Package storage provides the key-value port the task store persists to,
// along with its backends.
//
// The port mirrors the browser's localStorage: string keys map to string
// values, and a missing key is not an error.
//
// # Backends
//
//   - "memory": a process-local map, used in tests and for throwaway sessions
//   - "file":   a single JSON object on disk, one entry per key
//   - "sqlite": a kv table in an embedded SQLite database
//
// # File Format
//
// The file backend writes:
//   - 2-space indentation
//   - Trailing newline
//   - Atomic replace (write to a temp file, then rename)
package storage
