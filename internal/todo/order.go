package todo

import (
	"sort"
	"strings"
)

// Less reports whether a is displayed before b: higher priority first,
// then text in byte order.
func Less(a, b Task) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Text < b.Text
}

// Sort orders tasks in place for display.
func Sort(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Ordered returns the collection's tasks in display order.
func Ordered(c Collection) []Task {
	tasks := make([]Task, 0, len(c))
	for text, task := range c {
		task.Text = text
		tasks = append(tasks, task)
	}
	Sort(tasks)
	return tasks
}

// FilterSuggestions returns the suggestions containing input, ignoring
// case. Order is preserved. An empty input matches everything.
func FilterSuggestions(suggestions []string, input string) []string {
	needle := strings.ToLower(input)
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if needle == "" || strings.Contains(strings.ToLower(s), needle) {
			out = append(out, s)
		}
	}
	return out
}
