package model

import (
	"errors"
	"strings"
	"time"
)

// ErrTitleRequired is returned when a task is created without a title
var ErrTitleRequired = errors.New("task title is required")

// Status represents the board column a task sits in
type Status string

const (
	StatusDraft       Status = "draft"
	StatusTodo        Status = "todo"
	StatusInProgress  Status = "in-progress"
	StatusUnderReview Status = "under-review"
	StatusDone        Status = "done"
)

// Statuses returns every status in board order
func Statuses() []Status {
	return []Status{StatusDraft, StatusTodo, StatusInProgress, StatusUnderReview, StatusDone}
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus accepts the canonical names plus a few loose spellings
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, true
	case "todo", "to-do", "to do":
		return StatusTodo, true
	case "in-progress", "in_progress", "inprogress", "doing":
		return StatusInProgress, true
	case "under-review", "under_review", "review":
		return StatusUnderReview, true
	case "done":
		return StatusDone, true
	}
	return "", false
}

// Priority represents task priority level
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities returns every priority from lowest to highest
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// Rank returns a numeric weight for sorting by priority
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Next cycles low -> medium -> high -> critical -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	case PriorityHigh:
		return PriorityCritical
	case PriorityCritical:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// ParsePriority accepts full names and short forms
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, true
	case "medium", "med", "m":
		return PriorityMedium, true
	case "high", "hi", "h":
		return PriorityHigh, true
	case "critical", "crit", "c":
		return PriorityCritical, true
	}
	return "", false
}

// Task represents a card on the board
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status    `json:"status" yaml:"status"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Assignee    string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Labels      Labels    `json:"labels" yaml:"labels"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	Score       *float64  `json:"score,omitempty" yaml:"score,omitempty"`
}

// Clone returns a deep copy so callers can't mutate store-owned slices
func (t Task) Clone() Task {
	c := t
	if t.Labels != nil {
		c.Labels = append(Labels{}, t.Labels...)
	}
	if t.Score != nil {
		s := *t.Score
		c.Score = &s
	}
	return c
}

// TaskFields is the payload for creating a task. ID and timestamps are assigned by the store.
type TaskFields struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Assignee    string
	Labels      []string
	Score       *float64
}

// Validate checks the fields a form must reject before submitting
func (f TaskFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	Assignee    *string
	Labels      *[]string
	Score       *float64
	ClearScore  bool
}

// PatchFromFields builds a patch that overwrites every editable field,
// which is what the edit form submits
func PatchFromFields(f TaskFields) TaskPatch {
	labels := append([]string(nil), f.Labels...)
	p := TaskPatch{
		Title:       &f.Title,
		Description: &f.Description,
		Status:      &f.Status,
		Priority:    &f.Priority,
		Assignee:    &f.Assignee,
		Labels:      &labels,
		Score:       f.Score,
	}
	if f.Score == nil {
		p.ClearScore = true
	}
	return p
}
