package todo

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/noter/internal/storage"
)

// Snapshot is the state handed to subscribers after a change.
type Snapshot struct {
	Tasks       []Task   // display order
	Suggestions []string // unified autocomplete set
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for recoveries and write failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTimestampLayout sets the time layout used for new task timestamps.
func WithTimestampLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store is the single source of truth for tasks and suggestions. Every
// method is safe to call from multiple goroutines; operations never
// interleave.
//
// Mutations apply in memory first and then write the affected records. A
// returned error means only the write failed; the in-memory state already
// reflects the change.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *log.Logger
	now     func() time.Time
	layout  string

	tasks     Collection
	completed *SuggestionSet // persisted as "suggestions"
	deleted   *SuggestionSet // persisted as "deletedTasks"

	subscribers []subscriber
	nextSubID   int
}

// Open creates a Store backed by st and loads its persisted state.
// Unreadable or invalid records load as empty; only storage read errors
// are returned.
func Open(st storage.Storage, opts ...Option) (*Store, error) {
	if st == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	s := &Store{
		storage:   st,
		now:       time.Now,
		layout:    DefaultTimestampLayout,
		tasks:     Collection{},
		completed: NewSuggestionSet(),
		deleted:   NewSuggestionSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.mu.Lock()
	err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads persisted state, replacing the in-memory copy, and
// notifies subscribers.
func (s *Store) Reload() error {
	s.mu.Lock()
	if err := s.load(); err != nil {
		s.mu.Unlock()
		return err
	}
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
	return nil
}

func (s *Store) load() error {
	tasks := Collection{}
	completed := NewSuggestionSet()
	deleted := NewSuggestionSet()

	raw, ok, err := s.storage.Get(KeyData)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyData, err)
	}
	if ok {
		decoded, skipped, err := decodeData(raw)
		if err != nil {
			s.logger.Warn("ignoring invalid record", "key", KeyData, "err", err)
		} else {
			tasks = decoded
		}
		for _, err := range skipped {
			s.logger.Warn("ignoring invalid task", "key", KeyData, "err", err)
		}
	}

	for _, rec := range []struct {
		key string
		set **SuggestionSet
	}{
		{KeySuggestions, &completed},
		{KeyDeletedTasks, &deleted},
	} {
		raw, ok, err := s.storage.Get(rec.key)
		if err != nil {
			return fmt.Errorf("read %s: %w", rec.key, err)
		}
		if !ok {
			continue
		}
		decoded, err := decodeTextList(rec.key, raw)
		if err != nil {
			s.logger.Warn("ignoring invalid record", "key", rec.key, "err", err)
			continue
		}
		*rec.set = decoded
	}

	s.tasks = tasks
	s.completed = completed
	s.deleted = deleted
	s.deriveSuggestions()

	s.logger.Debug("store loaded", "tasks", len(s.tasks), "suggestions", len(Union(s.completed, s.deleted)))
	return nil
}

// deriveSuggestions folds completed task texts into the suggestion set and
// reports whether it grew.
func (s *Store) deriveSuggestions() bool {
	grew := false
	for _, text := range sortedKeys(s.tasks) {
		if s.tasks[text].Completed && s.completed.Add(text) {
			grew = true
		}
	}
	return grew
}

// Add creates a task with the current time, low priority, and not
// completed. An existing task with the same text is replaced. Blank text
// is ignored and yields a zero Task. Invalid UTF-8 in text is replaced with
// U+FFFD so the key survives a JSON round trip.
func (s *Store) Add(text string) (Task, error) {
	text = normalizeText(text)
	if strings.TrimSpace(text) == "" {
		return Task{}, nil
	}
	var task Task
	err := s.mutate(func() (bool, []string) {
		task = Task{
			Text:      text,
			Timestamp: s.now().Format(s.layout),
		}
		_, replaced := s.tasks[text]
		s.tasks[text] = task
		s.logger.Debug("task added", "text", text, "replaced", replaced)
		return true, []string{KeyData}
	})
	return task, err
}

// ToggleCompleted flips the completed flag. Unknown text is ignored.
func (s *Store) ToggleCompleted(text string) error {
	text = normalizeText(text)
	return s.mutate(func() (bool, []string) {
		task, ok := s.tasks[text]
		if !ok {
			return false, nil
		}
		task.Completed = !task.Completed
		s.tasks[text] = task
		s.logger.Debug("task toggled", "text", text, "completed", task.Completed)
		keys := []string{KeyData}
		if s.deriveSuggestions() {
			keys = append(keys, KeySuggestions)
		}
		return true, keys
	})
}

// SetPriority sets the priority of a task. Unknown text, out-of-range
// priorities, and unchanged values are ignored.
func (s *Store) SetPriority(text string, p Priority) error {
	if !p.Valid() {
		return nil
	}
	text = normalizeText(text)
	return s.mutate(func() (bool, []string) {
		task, ok := s.tasks[text]
		if !ok || task.Priority == p {
			return false, nil
		}
		task.Priority = p
		s.tasks[text] = task
		s.logger.Debug("task priority set", "text", text, "priority", p)
		return true, []string{KeyData}
	})
}

// Remove deletes a task and remembers its text as a suggestion. Unknown
// text is ignored.
func (s *Store) Remove(text string) error {
	text = normalizeText(text)
	return s.mutate(func() (bool, []string) {
		if _, ok := s.tasks[text]; !ok {
			return false, nil
		}
		delete(s.tasks, text)
		s.deleted.Add(text)
		s.logger.Debug("task removed", "text", text)
		return true, []string{KeyData, KeyDeletedTasks}
	})
}

// RemoveAll deletes every task, remembering each text as a suggestion.
// It returns the number of tasks removed.
func (s *Store) RemoveAll() (int, error) {
	return s.removeWhere(func(Task) bool { return true })
}

// RemoveCompleted deletes completed tasks, remembering each text as a
// suggestion. It returns the number of tasks removed.
func (s *Store) RemoveCompleted() (int, error) {
	return s.removeWhere(func(t Task) bool { return t.Completed })
}

func (s *Store) removeWhere(match func(Task) bool) (int, error) {
	removed := 0
	err := s.mutate(func() (bool, []string) {
		for _, text := range sortedKeys(s.tasks) {
			if !match(s.tasks[text]) {
				continue
			}
			delete(s.tasks, text)
			s.deleted.Add(text)
			removed++
		}
		if removed == 0 {
			return false, nil
		}
		s.logger.Debug("tasks removed", "count", removed, "remaining", len(s.tasks))
		return true, []string{KeyData, KeyDeletedTasks}
	})
	return removed, err
}

// Get returns the task with the given text.
func (s *Store) Get(text string) (Task, bool) {
	text = normalizeText(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[text]
	return task, ok
}

// Len returns the number of live tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tasks returns all tasks in display order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ordered(s.tasks)
}

// Suggestions returns completed texts followed by deleted texts, without
// duplicates.
func (s *Store) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Union(s.completed, s.deleted)
}

// Suggest returns the suggestions matching input.
func (s *Store) Suggest(input string) []string {
	return FilterSuggestions(s.Suggestions(), input)
}

// Snapshot returns the current ordered tasks and suggestions.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// mutate runs fn under the lock. When fn reports a change, the listed
// records are written and subscribers are notified after unlocking.
func (s *Store) mutate(fn func() (changed bool, keys []string)) error {
	s.mu.Lock()
	changed, keys := fn()
	if !changed {
		s.mu.Unlock()
		return nil
	}
	err := s.save(keys...)
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return err
}

func (s *Store) save(keys ...string) error {
	var errs []error
	for _, key := range keys {
		var (
			value string
			err   error
		)
		switch key {
		case KeyData:
			value, err = encodeData(s.tasks)
		case KeySuggestions:
			value, err = encodeTextList(key, s.completed)
		case KeyDeletedTasks:
			value, err = encodeTextList(key, s.deleted)
		default:
			err = fmt.Errorf("unknown record %q", key)
		}
		if err == nil {
			if err = s.storage.Set(key, value); err != nil {
				err = fmt.Errorf("write %s: %w", key, err)
			}
		}
		if err != nil {
			s.logger.Error("persist failed", "key", key, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Tasks:       Ordered(s.tasks),
		Suggestions: Union(s.completed, s.deleted),
	}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	fns := make([]func(Snapshot), len(s.subscribers))
	for i, sub := range s.subscribers {
		fns[i] = sub.fn
	}
	return fns
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

// normalizeText makes text valid UTF-8, as encoding/json would on write.
func normalizeText(text string) string {
	return strings.ToValidUTF8(text, "\uFFFD")
}

func sortedKeys(c Collection) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
