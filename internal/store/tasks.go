package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/dori/taskboard/internal/model"
)

// SortKey selects the ordering of the derived task list
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByPriority SortKey = "priority"
	SortByTitle    SortKey = "title"
)

// ParseSortKey parses a sort key, defaulting to date
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate, true
	case SortByPriority:
		return SortByPriority, true
	case SortByTitle:
		return SortByTitle, true
	}
	return SortByDate, false
}

// Next cycles date -> priority -> title -> date
func (k SortKey) Next() SortKey {
	switch k {
	case SortByDate:
		return SortByPriority
	case SortByPriority:
		return SortByTitle
	default:
		return SortByDate
	}
}

// ViewMode is board (columns) or list (single sorted list)
type ViewMode string

const (
	ViewBoard ViewMode = "board"
	ViewList  ViewMode = "list"
)

// Prefs are the view preferences held in the task slice
type Prefs struct {
	SearchTerm     string
	SelectedLabels []string
	SortBy         SortKey
	ViewMode       ViewMode
}

// TaskSlice owns the task list, the fixed columns, and the view preferences.
// All mutations go through its methods. It is not safe for concurrent use;
// the UI applies every operation from its single update loop.
type TaskSlice struct {
	tasks   []model.Task
	columns []model.Column
	prefs   Prefs
	now     func() time.Time
	lastID  int
}

func newTaskSlice(seed []model.Task, now func() time.Time) *TaskSlice {
	s := &TaskSlice{
		columns: model.DefaultColumns(),
		prefs: Prefs{
			SelectedLabels: []string{},
			SortBy:         SortByDate,
			ViewMode:       ViewBoard,
		},
		now: now,
	}
	for _, t := range seed {
		t = t.Clone()
		t.Labels = model.NormalizeLabels(t.Labels)
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		if n, err := strconv.Atoi(t.ID); err == nil && n > s.lastID {
			s.lastID = n
		}
		s.tasks = append(s.tasks, t)
	}
	return s
}

// nextID hands out ids from a counter that only moves forward, so deleting
// tasks can never cause an id to be reused
func (s *TaskSlice) nextID() string {
	for {
		s.lastID++
		id := strconv.Itoa(s.lastID)
		if s.indexOf(id) == -1 {
			return id
		}
	}
}

func (s *TaskSlice) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// touch stamps updatedAt, keeping it strictly increasing per task
func (s *TaskSlice) touch(t *model.Task) {
	now := s.now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// AddTask appends a new task built from fields. Labels beyond the cap are dropped.
func (s *TaskSlice) AddTask(fields model.TaskFields) (model.Task, error) {
	if err := fields.Validate(); err != nil {
		return model.Task{}, err
	}

	status := fields.Status
	if !status.Valid() {
		status = model.StatusDraft
	}
	priority := fields.Priority
	if priority.Rank() == 0 {
		priority = model.PriorityMedium
	}

	now := s.now()
	t := model.Task{
		ID:          s.nextID(),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      status,
		Priority:    priority,
		Assignee:    fields.Assignee,
		Labels:      model.NormalizeLabels(fields.Labels),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fields.Score != nil {
		score := *fields.Score
		t.Score = &score
	}

	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

// UpdateTask merges patch into the task with id. A blank title or an unknown
// status/priority in the patch is ignored. Returns false if no task matched.
func (s *TaskSlice) UpdateTask(id string, patch model.TaskPatch) bool {
	i := s.indexOf(id)
	if i == -1 {
		return false
	}
	t := &s.tasks[i]

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil && patch.Status.Valid() {
		t.Status = *patch.Status
	}
	if patch.Priority != nil && patch.Priority.Rank() > 0 {
		t.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.Labels != nil {
		t.Labels = model.NormalizeLabels(*patch.Labels)
	}
	switch {
	case patch.Score != nil:
		score := *patch.Score
		t.Score = &score
	case patch.ClearScore:
		t.Score = nil
	}

	s.touch(t)
	return true
}

// DeleteTask removes the task with id. Returns false if no task matched.
func (s *TaskSlice) DeleteTask(id string) bool {
	i := s.indexOf(id)
	if i == -1 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return true
}

// MoveTask sets the status of the task with id. Position in the list is unchanged.
func (s *TaskSlice) MoveTask(id string, status model.Status) bool {
	if !status.Valid() {
		return false
	}
	i := s.indexOf(id)
	if i == -1 {
		return false
	}
	s.tasks[i].Status = status
	s.touch(&s.tasks[i])
	return true
}

// AddLabel adds one label to a task. It returns model.ErrLabelLimit, leaving
// the task untouched, when the task already holds the maximum.
func (s *TaskSlice) AddLabel(id, label string) error {
	i := s.indexOf(id)
	if i == -1 {
		return nil
	}
	t := &s.tasks[i]
	next, err := t.Labels.Add(label)
	if err != nil {
		return err
	}
	if len(next) != len(t.Labels) {
		t.Labels = next
		s.touch(t)
	}
	return nil
}

// RemoveLabel drops a label from a task. Returns true if the label was there.
func (s *TaskSlice) RemoveLabel(id, label string) bool {
	i := s.indexOf(id)
	if i == -1 || !s.tasks[i].Labels.Has(label) {
		return false
	}
	s.tasks[i].Labels = s.tasks[i].Labels.Remove(label)
	s.touch(&s.tasks[i])
	return true
}

// SetSearchTerm replaces the search term verbatim
func (s *TaskSlice) SetSearchTerm(term string) {
	s.prefs.SearchTerm = term
}

// SetSelectedLabels replaces the label filter verbatim
func (s *TaskSlice) SetSelectedLabels(labels []string) {
	s.prefs.SelectedLabels = append([]string{}, labels...)
}

// ToggleLabel adds the label to the filter, or removes it if already selected
func (s *TaskSlice) ToggleLabel(label string) {
	out := make([]string, 0, len(s.prefs.SelectedLabels)+1)
	found := false
	for _, l := range s.prefs.SelectedLabels {
		if l == label {
			found = true
			continue
		}
		out = append(out, l)
	}
	if !found {
		out = append(out, label)
	}
	s.prefs.SelectedLabels = out
}

// SetSortBy replaces the sort key verbatim
func (s *TaskSlice) SetSortBy(key SortKey) {
	s.prefs.SortBy = key
}

// SetViewMode replaces the view mode verbatim
func (s *TaskSlice) SetViewMode(mode ViewMode) {
	s.prefs.ViewMode = mode
}

// Tasks returns a copy of the task list in insertion order
func (s *TaskSlice) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns a copy of the task with id
func (s *TaskSlice) Task(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i == -1 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Len returns the number of tasks
func (s *TaskSlice) Len() int {
	return len(s.tasks)
}

// Columns returns the fixed board columns
func (s *TaskSlice) Columns() []model.Column {
	return append([]model.Column(nil), s.columns...)
}

// Prefs returns the current view preferences
func (s *TaskSlice) Prefs() Prefs {
	p := s.prefs
	p.SelectedLabels = append([]string{}, s.prefs.SelectedLabels...)
	return p
}
