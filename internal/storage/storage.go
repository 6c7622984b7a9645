package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrClosed is returned by operations on a closed backend.
var ErrClosed = errors.New("storage closed")

// Storage is the key-value port used by the task store.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key
	// has never been set.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// Backend is a Storage that owns resources.
type Backend interface {
	Storage
	Close() error
}

// Kind names a storage backend.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// ParseKind normalizes a backend name. The boolean is false for unknown names.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "memory", "mem":
		return KindMemory, true
	case "file", "json":
		return KindFile, true
	case "sqlite", "sqlite3", "db":
		return KindSQLite, true
	default:
		return "", false
	}
}

// Option configures a backend.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for recoveries and lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// Open opens the backend of the given kind. path is ignored for memory.
func Open(kind Kind, path string, opts ...Option) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return OpenFile(path, opts...)
	case KindSQLite:
		return OpenSQLite(path, opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want memory, file, or sqlite)", kind)
	}
}
