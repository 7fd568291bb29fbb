package model

// Column is a fixed board column bound to exactly one status
type Column struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// DefaultColumns returns the board layout. Callers get a fresh slice each time.
func DefaultColumns() []Column {
	return []Column{
		{ID: string(StatusDraft), Title: "Draft", Status: StatusDraft},
		{ID: string(StatusTodo), Title: "To Do", Status: StatusTodo},
		{ID: string(StatusInProgress), Title: "In Progress", Status: StatusInProgress},
		{ID: string(StatusUnderReview), Title: "Under Review", Status: StatusUnderReview},
		{ID: string(StatusDone), Title: "Done", Status: StatusDone},
	}
}
