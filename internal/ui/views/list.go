package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskboard/internal/model"
	"github.com/dori/taskboard/internal/ui/theme"
)

// visibleTaskCount returns how many list rows fit in the viewport
func (v KanbanView) visibleTaskCount() int {
	// Column header, two scroll indicators and the footer
	available := v.height - 5
	if available < 1 {
		available = 1
	}
	return available
}

func (v KanbanView) listDown() KanbanView {
	if v.listCursor < len(v.tasks.Visible())-1 {
		v.listCursor++
		v.ensureListCursorVisible()
	}
	return v
}

func (v KanbanView) listUp() KanbanView {
	if v.listCursor > 0 {
		v.listCursor--
		v.ensureListCursorVisible()
	}
	return v
}

// ensureListCursorVisible adjusts listScroll to keep the cursor in view
func (v *KanbanView) ensureListCursorVisible() {
	visible := v.visibleTaskCount()

	if v.listCursor < v.listScroll {
		v.listScroll = v.listCursor
	}
	if v.listCursor >= v.listScroll+visible {
		v.listScroll = v.listCursor - visible + 1
	}

	maxOffset := max(len(v.tasks.Visible())-visible, 0)
	v.listScroll = min(max(v.listScroll, 0), maxOffset)
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// renderList renders the filtered, sorted tasks as one table
func (v KanbanView) renderList() string {
	t := theme.Current.Theme
	tasks := v.tasks.Visible()

	statusWidth, assigneeWidth, scoreWidth, labelsWidth := 14, 12, 7, 24
	titleWidth := v.width - statusWidth - assigneeWidth - scoreWidth - labelsWidth - 8
	if titleWidth < 16 {
		titleWidth = 16
	}

	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(truncate(s, w-1))
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Subtle).Bold(true)
	header := headerStyle.Render("  " +
		cell("Title", titleWidth) +
		cell("Status", statusWidth) +
		cell("Assignee", assigneeWidth) +
		cell("Score", scoreWidth) +
		cell("Labels", labelsWidth))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	if len(tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Padding(1, 0)
		if v.filtersActive() {
			b.WriteString(emptyStyle.Render("No tasks match current filters. Press esc to reset."))
		} else {
			b.WriteString(emptyStyle.Render("No tasks. Press 'a' to add one."))
		}
		return b.String()
	}

	visible := v.visibleTaskCount()
	endIdx := min(v.listScroll+visible, len(tasks))

	if v.listScroll > 0 {
		b.WriteString(scrollHint(fmt.Sprintf("↑ %d more above", v.listScroll), v.width-4))
		b.WriteString("\n")
	}

	for i := v.listScroll; i < endIdx; i++ {
		task := tasks[i]
		rowStyle := lipgloss.NewStyle().Foreground(t.Foreground)
		if i == v.listCursor {
			rowStyle = rowStyle.Background(t.Highlight)
		}

		status := lipgloss.NewStyle().
			Foreground(t.StatusColor(task.Status)).
			Width(statusWidth).
			Render(statusTitle(v.tasks.Columns(), task.Status))

		row := priorityMark(task.Priority) + " " +
			cell(task.Title, titleWidth) +
			status +
			cell(task.Assignee, assigneeWidth) +
			cell(formatScore(task.Score), scoreWidth) +
			cell(strings.Join(task.Labels, ", "), labelsWidth)
		b.WriteString(rowStyle.Render(row))
		b.WriteString("\n")
	}

	if endIdx < len(tasks) {
		b.WriteString(scrollHint(fmt.Sprintf("↓ %d more below", len(tasks)-endIdx), v.width-4))
	}

	return strings.TrimRight(b.String(), "\n")
}

func statusTitle(columns []model.Column, s model.Status) string {
	for _, c := range columns {
		if c.Status == s {
			return c.Title
		}
	}
	return string(s)
}
