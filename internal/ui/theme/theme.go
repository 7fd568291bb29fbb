package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskboard/internal/model"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow      lipgloss.Color
	PriorityMedium   lipgloss.Color
	PriorityHigh     lipgloss.Color
	PriorityCritical lipgloss.Color

	// Column colors
	StatusDraft       lipgloss.Color
	StatusTodo        lipgloss.Color
	StatusInProgress  lipgloss.Color
	StatusUnderReview lipgloss.Color
	StatusDone        lipgloss.Color
}

// PriorityColor returns the accent for a priority
func (t Theme) PriorityColor(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityCritical:
		return t.PriorityCritical
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityLow:
		return t.PriorityLow
	default:
		return t.PriorityMedium
	}
}

// StatusColor returns the header color of a column
func (t Theme) StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusTodo:
		return t.StatusTodo
	case model.StatusInProgress:
		return t.StatusInProgress
	case model.StatusUnderReview:
		return t.StatusUnderReview
	case model.StatusDone:
		return t.StatusDone
	default:
		return t.StatusDraft
	}
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	// Task styles
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Badge    lipgloss.Style
	BadgeOn  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	ErrorText    lipgloss.Style

	Panel lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Badge: lipgloss.NewStyle().
			Foreground(t.Info).
			Background(t.Highlight).
			Padding(0, 1).
			MarginRight(1),

		BadgeOn: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Info).
			Bold(true).
			Padding(0, 1).
			MarginRight(1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		ErrorText: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after the current one, wrapping around
func Next() Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == Current.Theme.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
