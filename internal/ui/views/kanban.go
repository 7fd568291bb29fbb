package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskboard/internal/model"
	"github.com/dori/taskboard/internal/notify"
	"github.com/dori/taskboard/internal/quickadd"
	"github.com/dori/taskboard/internal/store"
	"github.com/dori/taskboard/internal/ui/theme"
)

// KanbanMode represents the current input mode
type KanbanMode int

const (
	KanbanModeNormal KanbanMode = iota
	KanbanModeForm
	KanbanModeQuickAdd
	KanbanModeSearch
	KanbanModeLabels
	KanbanModeConfirmDelete
	KanbanModeLabelEdit
)

// KanbanView renders the task slice as columns, or as a single list when the
// view mode is list. Every change goes through the task slice.
type KanbanView struct {
	tasks    *store.TaskSlice
	notifier *notify.Notifier
	width    int
	height   int

	// Navigation state
	currentColumn int
	cursorRow     int
	columnScroll  []int
	listCursor    int
	listScroll    int

	// Input mode
	mode        KanbanMode
	textInput   textinput.Model
	form        TaskForm
	labelCursor int

	// Task targeted by delete confirmation or the label prompt
	deleteTaskID string
	labelTaskID  string
}

// NewKanbanView creates a new kanban view over tasks
func NewKanbanView(tasks *store.TaskSlice, notifier *notify.Notifier) KanbanView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return KanbanView{
		tasks:        tasks,
		notifier:     notifier,
		columnScroll: make([]int, len(tasks.Columns())),
		textInput:    ti,
	}
}

// Init initializes the kanban view
func (v KanbanView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v KanbanView) SetSize(width, height int) KanbanView {
	v.width = width
	v.height = height
	return v
}

// Mode returns the current input mode
func (v KanbanView) Mode() KanbanMode {
	return v.mode
}

func (v KanbanView) listMode() bool {
	return v.tasks.Prefs().ViewMode == store.ViewList
}

// selectedTask returns the task under the cursor
func (v KanbanView) selectedTask() (model.Task, bool) {
	if v.listMode() {
		visible := v.tasks.Visible()
		if v.listCursor < len(visible) {
			return visible[v.listCursor], true
		}
		return model.Task{}, false
	}

	board := v.tasks.Board()
	if v.currentColumn >= len(board) {
		return model.Task{}, false
	}
	col := board[v.currentColumn].Tasks
	if v.cursorRow < len(col) {
		return col[v.cursorRow], true
	}
	return model.Task{}, false
}

// Update handles messages
func (v KanbanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch v.mode {
		case KanbanModeForm:
			return v.handleFormMode(msg)
		case KanbanModeQuickAdd:
			return v.handleQuickAddMode(msg)
		case KanbanModeSearch:
			return v.handleSearchMode(msg)
		case KanbanModeLabels:
			return v.handleLabelMode(msg)
		case KanbanModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		case KanbanModeLabelEdit:
			return v.handleLabelEditMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	switch v.mode {
	case KanbanModeQuickAdd, KanbanModeSearch, KanbanModeLabelEdit:
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	case KanbanModeForm:
		var cmd tea.Cmd
		v.form, _, cmd = v.form.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleNormalMode handles keys in normal mode
func (v KanbanView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	// Column navigation
	case "h", "left":
		if !v.listMode() && v.currentColumn > 0 {
			v.currentColumn--
			v.clampCursor()
		}
		return v, nil

	case "l", "right":
		if !v.listMode() && v.currentColumn < len(v.columnScroll)-1 {
			v.currentColumn++
			v.clampCursor()
		}
		return v, nil

	// Row navigation
	case "j", "down":
		if v.listMode() {
			v = v.listDown()
			return v, nil
		}
		col := v.tasks.Board()[v.currentColumn].Tasks
		if v.cursorRow < len(col)-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
		return v, nil

	case "k", "up":
		if v.listMode() {
			v = v.listUp()
			return v, nil
		}
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
		return v, nil

	case "g":
		v.cursorRow = 0
		v.columnScroll[v.currentColumn] = 0
		v.listCursor = 0
		v.listScroll = 0
		return v, nil

	case "G":
		if v.listMode() {
			if n := len(v.tasks.Visible()); n > 0 {
				v.listCursor = n - 1
				v.ensureListCursorVisible()
			}
			return v, nil
		}
		col := v.tasks.Board()[v.currentColumn].Tasks
		if len(col) > 0 {
			v.cursorRow = len(col) - 1
			v.ensureCursorVisible()
		}
		return v, nil

	// Move task between columns
	case "H":
		v.moveTask(-1)
		return v, nil

	case "L":
		v.moveTask(1)
		return v, nil

	case "a":
		status := model.StatusDraft
		if !v.listMode() {
			status = v.tasks.Columns()[v.currentColumn].Status
		}
		v.form = NewTaskForm(status)
		v.mode = KanbanModeForm
		return v, textinput.Blink

	case "A":
		v.mode = KanbanModeQuickAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "Fix login #Security !high @Raju ~7.5"
		return v, v.textInput.Focus()

	case "enter":
		if task, ok := v.selectedTask(); ok {
			v.form = EditTaskForm(task)
			v.mode = KanbanModeForm
			return v, textinput.Blink
		}
		return v, nil

	case "d":
		if task, ok := v.selectedTask(); ok {
			v.deleteTaskID = task.ID
			v.mode = KanbanModeConfirmDelete
		}
		return v, nil

	// Cycle priority
	case "p":
		if task, ok := v.selectedTask(); ok {
			next := task.Priority.Next()
			v.tasks.UpdateTask(task.ID, model.TaskPatch{Priority: &next})
			v.notifier.Success(fmt.Sprintf("Priority: %s", next))
			v.clampCursor()
		}
		return v, nil

	case "#":
		if task, ok := v.selectedTask(); ok {
			v.labelTaskID = task.ID
			v.mode = KanbanModeLabelEdit
			v.textInput.SetValue("")
			v.textInput.Placeholder = "label, or -label to remove"
			return v, v.textInput.Focus()
		}
		return v, nil

	case "/":
		v.mode = KanbanModeSearch
		v.textInput.SetValue(v.tasks.Prefs().SearchTerm)
		v.textInput.Placeholder = "Search titles..."
		v.textInput.CursorEnd()
		return v, v.textInput.Focus()

	case "t":
		if len(v.tasks.AllLabels()) == 0 {
			v.notifier.Error("No labels to filter by")
			return v, nil
		}
		v.mode = KanbanModeLabels
		v.labelCursor = 0
		return v, nil

	case "s":
		next := v.tasks.Prefs().SortBy.Next()
		v.tasks.SetSortBy(next)
		v.notifier.Success(fmt.Sprintf("Sort: %s", next))
		v.clampCursor()
		return v, nil

	case "v":
		if v.listMode() {
			v.tasks.SetViewMode(store.ViewBoard)
		} else {
			v.tasks.SetViewMode(store.ViewList)
		}
		v.clampCursor()
		return v, nil

	// Clear filters
	case "esc":
		prefs := v.tasks.Prefs()
		if prefs.SearchTerm != "" || len(prefs.SelectedLabels) > 0 {
			v.tasks.SetSearchTerm("")
			v.tasks.SetSelectedLabels(nil)
			v.notifier.Success("Filters cleared")
			v.resetScroll()
		}
		return v, nil
	}

	return v, nil
}

// handleFormMode forwards keys to the task form and applies a submit
func (v KanbanView) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, result, cmd := v.form.Update(msg)
	v.form = form

	switch result {
	case formCancelled:
		v.mode = KanbanModeNormal
		return v, nil

	case formSubmitted:
		fields, err := form.Fields()
		if err != nil {
			return v, nil
		}
		v.mode = KanbanModeNormal

		if id := form.EditID(); id != "" {
			if v.tasks.UpdateTask(id, model.PatchFromFields(fields)) {
				v.notifier.Success("Task updated")
			}
		} else {
			task, err := v.tasks.AddTask(fields)
			if err != nil {
				v.notifier.Error(formErrorText(err))
				return v, nil
			}
			v.notifier.Success(fmt.Sprintf("Added #%s", task.ID))
		}
		v.clampCursor()
		return v, nil
	}

	return v, cmd
}

// handleQuickAddMode handles the one-line add prompt
func (v KanbanView) handleQuickAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		fields := quickadd.Parse(v.textInput.Value())
		if fields.Status == "" && !v.listMode() {
			fields.Status = v.tasks.Columns()[v.currentColumn].Status
		}
		task, err := v.tasks.AddTask(fields)
		if err != nil {
			v.notifier.Error(formErrorText(err))
			return v, nil
		}
		v.mode = KanbanModeNormal
		v.textInput.Blur()
		v.notifier.Success(fmt.Sprintf("Added #%s", task.ID))
		v.clampCursor()
		return v, nil
	case "esc":
		v.mode = KanbanModeNormal
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// handleLabelEditMode adds a label to the targeted task, or removes it when
// prefixed with '-'
func (v KanbanView) handleLabelEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(v.textInput.Value())
		if name, ok := strings.CutPrefix(input, "-"); ok {
			name = strings.TrimSpace(name)
			if v.tasks.RemoveLabel(v.labelTaskID, name) {
				v.notifier.Success(fmt.Sprintf("Removed #%s", name))
			} else {
				v.notifier.Error(fmt.Sprintf("No label #%s", name))
			}
		} else if input != "" {
			if err := v.tasks.AddLabel(v.labelTaskID, input); err != nil {
				v.notifier.Error(formErrorText(err))
				return v, nil
			}
			v.notifier.Success(fmt.Sprintf("Labelled #%s", input))
		}
		v.mode = KanbanModeNormal
		v.labelTaskID = ""
		v.textInput.Blur()
		v.clampCursor()
		return v, nil
	case "esc":
		v.mode = KanbanModeNormal
		v.labelTaskID = ""
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// handleSearchMode filters as the user types
func (v KanbanView) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		v.mode = KanbanModeNormal
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	v.tasks.SetSearchTerm(v.textInput.Value())
	v.resetScroll()
	return v, cmd
}

// handleLabelMode toggles labels in the filter
func (v KanbanView) handleLabelMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	labels := v.tasks.AllLabels()

	switch msg.String() {
	case "j", "down", "l", "right":
		if v.labelCursor < len(labels)-1 {
			v.labelCursor++
		}
	case "k", "up", "h", "left":
		if v.labelCursor > 0 {
			v.labelCursor--
		}
	case " ", "enter":
		if v.labelCursor < len(labels) {
			v.tasks.ToggleLabel(labels[v.labelCursor])
			v.resetScroll()
		}
	case "esc", "t":
		v.mode = KanbanModeNormal
	}
	return v, nil
}

// handleConfirmDeleteMode handles keys in delete confirmation mode
func (v KanbanView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = KanbanModeNormal
		task, _ := v.tasks.Task(v.deleteTaskID)
		if v.tasks.DeleteTask(v.deleteTaskID) {
			v.notifier.Success(fmt.Sprintf("Deleted '%s'", task.Title))
		}
		v.deleteTaskID = ""
		v.clampCursor()
		return v, nil
	case "n", "N", "esc":
		v.mode = KanbanModeNormal
		v.deleteTaskID = ""
		return v, nil
	}
	return v, nil
}

// moveTask moves the current task to an adjacent column
func (v *KanbanView) moveTask(direction int) {
	if v.listMode() {
		return
	}
	task, ok := v.selectedTask()
	if !ok {
		return
	}

	columns := v.tasks.Columns()
	target := v.currentColumn + direction
	if target < 0 || target >= len(columns) {
		return
	}

	if v.tasks.MoveTask(task.ID, columns[target].Status) {
		v.currentColumn = target
		// Follow the task into its new column
		for i, t := range v.tasks.Board()[target].Tasks {
			if t.ID == task.ID {
				v.cursorRow = i
			}
		}
		v.ensureCursorVisible()
	}
}

// clampCursor ensures cursors are valid after the task list changed
func (v *KanbanView) clampCursor() {
	if n := len(v.tasks.Visible()); v.listCursor >= n {
		v.listCursor = max(n-1, 0)
	}
	v.ensureListCursorVisible()

	col := v.tasks.Board()[v.currentColumn].Tasks
	if v.cursorRow >= len(col) {
		v.cursorRow = max(len(col)-1, 0)
	}
	v.ensureCursorVisible()
}

func (v *KanbanView) resetScroll() {
	v.cursorRow = 0
	v.listCursor = 0
	v.listScroll = 0
	for i := range v.columnScroll {
		v.columnScroll[i] = 0
	}
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *KanbanView) ensureCursorVisible() {
	visibleItems := v.visibleItemCount()
	col := v.currentColumn

	if v.cursorRow >= v.columnScroll[col]+visibleItems {
		v.columnScroll[col] = v.cursorRow - visibleItems + 1
	}
	if v.cursorRow < v.columnScroll[col] {
		v.columnScroll[col] = v.cursorRow
	}
}

// visibleItemCount returns how many items fit in the column height
func (v *KanbanView) visibleItemCount() int {
	// Header row, two border lines, two scroll indicators and the footer
	availableHeight := v.height - 7
	if availableHeight < 1 {
		return 5
	}
	return availableHeight
}

// visibleColumns returns the window of columns that fits the width
func (v KanbanView) visibleColumns(total int) (start, end, colWidth int) {
	n := (v.width - 4) / 26
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}

	start = v.currentColumn - n/2
	if start < 0 {
		start = 0
	}
	if start+n > total {
		start = total - n
	}

	colWidth = (v.width - 4) / n
	if colWidth < 24 {
		colWidth = 24
	}
	return start, start + n, colWidth
}

// View renders the board or the list
func (v KanbanView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	if v.mode == KanbanModeForm {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.form.View(v.width))
	}

	var body string
	if v.listMode() {
		body = v.renderList()
	} else {
		body = v.renderBoard()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, v.renderFooter())
}

func (v KanbanView) renderBoard() string {
	t := theme.Current.Theme
	board := v.tasks.Board()
	filtered := v.filtersActive()

	startCol, endCol, colWidth := v.visibleColumns(len(board))

	headerStyle := func(cv store.ColumnView, active bool) lipgloss.Style {
		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.StatusColor(cv.Column.Status)).
			Width(colWidth).
			Align(lipgloss.Center)
		if active {
			s = s.Background(t.Highlight)
		}
		return s
	}

	columnStyle := lipgloss.NewStyle().
		Width(colWidth).
		Height(v.height - 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	var headers []string
	for i := startCol; i < endCol; i++ {
		cv := board[i]
		header := fmt.Sprintf("%s (%d)", cv.Column.Title, cv.Count)
		if filtered && len(cv.Tasks) != cv.Count {
			header = fmt.Sprintf("%s (%d/%d)", cv.Column.Title, len(cv.Tasks), cv.Count)
		}
		headers = append(headers, headerStyle(cv, i == v.currentColumn).Render(header))
	}
	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headers...)

	visibleItems := v.visibleItemCount()
	var cols []string
	for i := startCol; i < endCol; i++ {
		tasks := board[i].Tasks
		isActiveCol := i == v.currentColumn
		scrollOffset := v.columnScroll[i]

		startIdx := min(scrollOffset, len(tasks))
		endIdx := min(scrollOffset+visibleItems, len(tasks))

		var items []string
		if scrollOffset > 0 {
			items = append(items, scrollHint(fmt.Sprintf("↑ %d more", scrollOffset), colWidth-4))
		}
		for j := startIdx; j < endIdx; j++ {
			items = append(items, renderCard(tasks[j], colWidth-4, isActiveCol && j == v.cursorRow))
		}
		if endIdx < len(tasks) {
			items = append(items, scrollHint(fmt.Sprintf("↓ %d more", len(tasks)-endIdx), colWidth-4))
		}

		content := strings.Join(items, "\n")
		if len(tasks) == 0 {
			content = lipgloss.NewStyle().
				Foreground(t.Subtle).
				Italic(true).
				Render("(empty)")
		}

		cs := columnStyle
		if isActiveCol {
			cs = cs.BorderForeground(t.Primary)
		}
		cols = append(cols, cs.Render(content))
	}
	columnsRow := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, columnsRow)
}

func scrollHint(text string, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Current.Theme.Subtle).
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}

// priorityMark returns the colored priority glyph for a task
func priorityMark(p model.Priority) string {
	t := theme.Current.Theme
	style := lipgloss.NewStyle().Foreground(t.PriorityColor(p))
	switch p {
	case model.PriorityCritical:
		return style.Render("!")
	case model.PriorityHigh:
		return style.Render("▲")
	case model.PriorityLow:
		return style.Render("▽")
	default:
		return style.Render("●")
	}
}

// renderCard renders one task on a single line: priority, title, labels
func renderCard(task model.Task, width int, selected bool) string {
	t := theme.Current.Theme

	cardStyle := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Foreground(t.Foreground)
	if selected {
		cardStyle = cardStyle.Background(t.Highlight)
	}

	var labelStr string
	labelLen := 0
	if len(task.Labels) > 0 {
		plain := " #" + strings.Join(task.Labels, " #")
		labelLen = len([]rune(plain))
		labelStr = lipgloss.NewStyle().Foreground(t.Info).Render(plain)
	}

	maxTitleLen := width - 6 - labelLen
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := truncate(task.Title, maxTitleLen)

	return cardStyle.Render(fmt.Sprintf("%s %s%s", priorityMark(task.Priority), title, labelStr))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func (v KanbanView) filtersActive() bool {
	prefs := v.tasks.Prefs()
	return prefs.SearchTerm != "" || len(prefs.SelectedLabels) > 0
}

// renderFooter renders the prompt or filter status under the board
func (v KanbanView) renderFooter() string {
	t := theme.Current.Theme
	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(v.width - 4)

	switch v.mode {
	case KanbanModeQuickAdd:
		return inputStyle.Render("Quick add: " + v.textInput.View())
	case KanbanModeSearch:
		return inputStyle.Render("Search: " + v.textInput.View())
	case KanbanModeLabelEdit:
		task, _ := v.tasks.Task(v.labelTaskID)
		return inputStyle.Render(fmt.Sprintf("Label '%s': ", truncate(task.Title, 30)) + v.textInput.View())
	case KanbanModeLabels:
		return v.renderLabelSelector()
	case KanbanModeConfirmDelete:
		task, _ := v.tasks.Task(v.deleteTaskID)
		return lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", task.Title))
	}

	prefs := v.tasks.Prefs()
	var parts []string
	if prefs.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("Search: %s", prefs.SearchTerm))
	}
	if len(prefs.SelectedLabels) > 0 {
		parts = append(parts, fmt.Sprintf("Labels: %s", strings.Join(prefs.SelectedLabels, ", ")))
	}
	parts = append(parts, fmt.Sprintf("Sort: %s", prefs.SortBy))

	status := lipgloss.NewStyle().Foreground(t.Info).Render("[" + strings.Join(parts, " | ") + "]")
	if v.filtersActive() {
		status += lipgloss.NewStyle().Foreground(t.Subtle).Render(" esc: clear")
	}
	return status
}

// renderLabelSelector renders the label palette as toggle badges
func (v KanbanView) renderLabelSelector() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	prefs := v.tasks.Prefs()

	var badges []string
	for i, label := range v.tasks.AllLabels() {
		style := styles.Badge
		if model.Labels(prefs.SelectedLabels).Has(label) {
			style = styles.BadgeOn
		}
		if i == v.labelCursor {
			style = style.Underline(true)
		}
		badges = append(badges, style.Render(label))
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Filter by label:"),
		lipgloss.JoinHorizontal(lipgloss.Top, badges...),
		lipgloss.NewStyle().Foreground(t.Subtle).Render("h/l: navigate • space: toggle • esc: done"),
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// IsInputMode returns whether the view is in input mode
func (v KanbanView) IsInputMode() bool {
	return v.mode != KanbanModeNormal
}
