package views

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskboard/internal/model"
	"github.com/dori/taskboard/internal/ui/theme"
)

// formResult tells the board what the last key did to the form
type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

const (
	formTitle = iota
	formDescription
	formStatus
	formPriority
	formAssignee
	formLabels
	formScore
	formFieldCount
)

var formFieldNames = [formFieldCount]string{
	"Title", "Description", "Status", "Priority", "Assignee", "Labels", "Score",
}

// TaskForm edits every field of a task. An empty editID means a new task.
type TaskForm struct {
	editID   string
	inputs   map[int]*textinput.Model
	status   model.Status
	priority model.Priority
	focus    int
	err      string
}

func newFormInput(placeholder string, limit int) *textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return &ti
}

// NewTaskForm creates an empty form for a task in status
func NewTaskForm(status model.Status) TaskForm {
	f := TaskForm{
		inputs: map[int]*textinput.Model{
			formTitle:       newFormInput("What needs doing?", 256),
			formDescription: newFormInput("Details", 1024),
			formAssignee:    newFormInput("Who owns it", 64),
			formLabels:      newFormInput("Comma separated, at most 2", 128),
			formScore:       newFormInput("e.g. 7.5", 16),
		},
		status:   status,
		priority: model.PriorityMedium,
	}
	if !f.status.Valid() {
		f.status = model.StatusDraft
	}
	return f.focusField(formTitle)
}

// EditTaskForm creates a form prefilled from task
func EditTaskForm(task model.Task) TaskForm {
	f := NewTaskForm(task.Status)
	f.editID = task.ID
	f.priority = task.Priority
	f.inputs[formTitle].SetValue(task.Title)
	f.inputs[formDescription].SetValue(task.Description)
	f.inputs[formAssignee].SetValue(task.Assignee)
	f.inputs[formLabels].SetValue(strings.Join(task.Labels, ", "))
	if task.Score != nil {
		f.inputs[formScore].SetValue(strconv.FormatFloat(*task.Score, 'f', -1, 64))
	}
	f.inputs[formTitle].CursorEnd()
	return f
}

// EditID returns the id being edited, or "" for a new task
func (f TaskForm) EditID() string {
	return f.editID
}

// Err returns the validation message from the last submit
func (f TaskForm) Err() string {
	return f.err
}

func (f TaskForm) focusField(field int) TaskForm {
	for _, in := range f.inputs {
		in.Blur()
	}
	f.focus = field
	if in, ok := f.inputs[field]; ok {
		in.Focus()
	}
	return f
}

// Fields validates the form and returns the task payload
func (f TaskForm) Fields() (model.TaskFields, error) {
	fields := model.TaskFields{
		Title:       strings.TrimSpace(f.inputs[formTitle].Value()),
		Description: strings.TrimSpace(f.inputs[formDescription].Value()),
		Status:      f.status,
		Priority:    f.priority,
		Assignee:    strings.TrimSpace(f.inputs[formAssignee].Value()),
	}
	if err := fields.Validate(); err != nil {
		return fields, err
	}

	var labels model.Labels
	for _, raw := range strings.Split(f.inputs[formLabels].Value(), ",") {
		next, err := labels.Add(raw)
		if err != nil {
			return fields, err
		}
		labels = next
	}
	fields.Labels = []string(labels)

	if raw := strings.TrimSpace(f.inputs[formScore].Value()); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return fields, errScoreNotNumber
		}
		fields.Score = &score
	}
	return fields, nil
}

var errScoreNotNumber = errors.New("score must be a number")

func formErrorText(err error) string {
	switch {
	case errors.Is(err, model.ErrTitleRequired):
		return "Title is required"
	case errors.Is(err, model.ErrLabelLimit):
		return fmt.Sprintf("You can't add more than %d labels", model.MaxLabels)
	case errors.Is(err, errScoreNotNumber):
		return "Score must be a number"
	default:
		return err.Error()
	}
}

func cycleStatus(s model.Status, delta int) model.Status {
	all := model.Statuses()
	for i, known := range all {
		if known == s {
			return all[(i+delta+len(all))%len(all)]
		}
	}
	return all[0]
}

func cyclePriority(p model.Priority, delta int) model.Priority {
	all := model.Priorities()
	for i, known := range all {
		if known == p {
			return all[(i+delta+len(all))%len(all)]
		}
	}
	return model.PriorityMedium
}

// Update handles one key
func (f TaskForm) Update(msg tea.Msg) (TaskForm, formResult, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if in, ok := f.inputs[f.focus]; ok {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return f, formEditing, cmd
		}
		return f, formEditing, nil
	}

	switch keyMsg.String() {
	case "esc":
		return f, formCancelled, nil
	case "enter":
		if _, err := f.Fields(); err != nil {
			f.err = formErrorText(err)
			return f, formEditing, nil
		}
		f.err = ""
		return f, formSubmitted, nil
	case "tab", "down":
		return f.focusField((f.focus + 1) % formFieldCount), formEditing, nil
	case "shift+tab", "up":
		return f.focusField((f.focus - 1 + formFieldCount) % formFieldCount), formEditing, nil
	case "left", "right":
		delta := 1
		if keyMsg.String() == "left" {
			delta = -1
		}
		switch f.focus {
		case formStatus:
			f.status = cycleStatus(f.status, delta)
			return f, formEditing, nil
		case formPriority:
			f.priority = cyclePriority(f.priority, delta)
			return f, formEditing, nil
		}
	}

	in, ok := f.inputs[f.focus]
	if !ok {
		return f, formEditing, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(keyMsg)
	return f, formEditing, cmd
}

// View renders the form as a panel of width
func (f TaskForm) View(width int) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := "New task"
	if f.editID != "" {
		title = "Edit task #" + f.editID
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle).Width(13)
	activeLabel := labelStyle.Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	for field := 0; field < formFieldCount; field++ {
		ls := labelStyle
		if field == f.focus {
			ls = activeLabel
		}
		b.WriteString(ls.Render(formFieldNames[field]))

		switch field {
		case formStatus:
			b.WriteString(lipgloss.NewStyle().Foreground(t.StatusColor(f.status)).Render("‹ " + string(f.status) + " ›"))
		case formPriority:
			b.WriteString(lipgloss.NewStyle().Foreground(t.PriorityColor(f.priority)).Render("‹ " + string(f.priority) + " ›"))
		default:
			b.WriteString(f.inputs[field].View())
		}
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpDesc.Render("tab: next • ←/→: change status/priority • enter: save • esc: cancel"))

	panelWidth := width - 4
	if panelWidth > 80 {
		panelWidth = 80
	}
	if panelWidth < 40 {
		panelWidth = 40
	}
	return styles.Panel.BorderForeground(t.Primary).Width(panelWidth).Render(b.String())
}
