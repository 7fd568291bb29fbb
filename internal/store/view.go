package store

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dori/taskboard/internal/model"
)

// ColumnView is one board column as rendered: the filtered, sorted tasks in
// that status plus the unfiltered count of tasks in that status.
type ColumnView struct {
	Column model.Column
	Tasks  []model.Task
	Count  int
}

// Visible returns the tasks that pass the search and label filters, sorted by
// the current sort key. Ties keep their list order.
func (s *TaskSlice) Visible() []model.Task {
	return FilterAndSort(s.tasks, s.prefs)
}

// Board partitions Visible by column status, preserving relative order
func (s *TaskSlice) Board() []ColumnView {
	visible := s.Visible()
	out := make([]ColumnView, 0, len(s.columns))
	for _, col := range s.columns {
		cv := ColumnView{Column: col, Tasks: []model.Task{}}
		for _, t := range visible {
			if t.Status == col.Status {
				cv.Tasks = append(cv.Tasks, t)
			}
		}
		cv.Count = s.CountByStatus(col.Status)
		out = append(out, cv)
	}
	return out
}

// CountByStatus counts all tasks in a status, ignoring filters
func (s *TaskSlice) CountByStatus(status model.Status) int {
	n := 0
	for _, t := range s.tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

// AllLabels returns every label used by any task, in first-seen order
func (s *TaskSlice) AllLabels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.tasks {
		for _, l := range t.Labels {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

// FilterAndSort applies prefs to tasks and returns copies
func FilterAndSort(tasks []model.Task, prefs Prefs) []model.Task {
	search := strings.ToLower(prefs.SearchTerm)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if len(prefs.SelectedLabels) > 0 && !t.Labels.HasAny(prefs.SelectedLabels) {
			continue
		}
		out = append(out, t.Clone())
	}

	switch prefs.SortBy {
	case SortByPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		})
	case SortByTitle:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return col.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}
