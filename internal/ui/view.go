package ui

import (
	"fmt"
	"strings"

	"github.com/nibzard/noter/internal/todo"
)

// emptyMessage is shown when there are no tasks.
const emptyMessage = "No notes yet"

var priorityMarks = [3]string{"   ", "!  ", "!!!"}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)
	m.writeInput(&b)
	m.writeTasks(&b)
	m.writeStatus(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := "Noter"
	b.WriteString(m.styles.title.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	b.WriteString(m.input.View() + "\n")
	if len(m.matches) > 0 {
		b.WriteString("  " + m.styles.suggestion.Render(strings.Join(m.matches, " · ")) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  " + m.styles.empty.Render(emptyMessage) + "\n\n")
		return
	}

	width := 0
	for _, task := range m.tasks {
		width = max(width, len([]rune(task.Text)))
	}
	for i, task := range m.tasks {
		line := m.formatTask(task, width)
		if m.focus == focusList && i == m.cursor {
			line = m.styles.selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	done := 0
	for _, task := range m.tasks {
		if task.Completed {
			done++
		}
	}
	b.WriteString(fmt.Sprintf("\n  %d tasks, %d done\n\n", len(m.tasks), done))
}

func (m *tuiModel) formatTask(task todo.Task, width int) string {
	check := "[ ]"
	text := m.styles.text.Render(padRight(task.Text, width))
	if task.Completed {
		check = "[x]"
		text = m.styles.completed.Render(padRight(task.Text, width))
	}

	mark := priorityMarks[todo.PriorityLow]
	style := m.styles.priority[todo.PriorityLow]
	if task.Priority.Valid() {
		mark = priorityMarks[task.Priority]
		style = m.styles.priority[task.Priority]
	}

	return fmt.Sprintf("%s %s %s  %s", check, style.Render(mark), text, m.styles.timestamp.Render(task.Timestamp))
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render("Error: "+m.err.Error()) + "\n\n")
	case m.status != "":
		b.WriteString(m.styles.status.Render(m.status) + "\n\n")
	}
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	if m.focus == focusInput {
		b.WriteString(m.help.View(inputKeys{m.keys}) + "\n")
		return
	}
	b.WriteString(m.help.View(listKeys{m.keys}) + "\n")
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
