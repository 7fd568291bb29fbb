package model

import (
	"errors"
	"strings"
)

// MaxLabels is the per-task label cap
const MaxLabels = 2

// ErrLabelLimit is returned when adding a label to a task that already has MaxLabels
var ErrLabelLimit = errors.New("you can't add more than 2 labels")

// Labels is an ordered set of label names. Entry order is kept for display.
type Labels []string

// Has reports whether the label is present
func (l Labels) Has(label string) bool {
	for _, existing := range l {
		if existing == label {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of the given labels is present
func (l Labels) HasAny(labels []string) bool {
	for _, want := range labels {
		if l.Has(want) {
			return true
		}
	}
	return false
}

// Add returns the set with label appended. Blank and duplicate labels are
// ignored; a new label on a full set returns ErrLabelLimit and the set unchanged.
func (l Labels) Add(label string) (Labels, error) {
	label = strings.TrimSpace(label)
	if label == "" || l.Has(label) {
		return l, nil
	}
	if len(l) >= MaxLabels {
		return l, ErrLabelLimit
	}
	out := make(Labels, 0, len(l)+1)
	out = append(out, l...)
	return append(out, label), nil
}

// Remove returns the set without label
func (l Labels) Remove(label string) Labels {
	out := make(Labels, 0, len(l))
	for _, existing := range l {
		if existing != label {
			out = append(out, existing)
		}
	}
	return out
}

// String joins labels for display
func (l Labels) String() string {
	return strings.Join(l, ", ")
}

// NormalizeLabels trims, dedupes and clamps raw input to MaxLabels, first entries win
func NormalizeLabels(raw []string) Labels {
	out := Labels{}
	for _, label := range raw {
		next, err := out.Add(label)
		if err != nil {
			break
		}
		out = next
	}
	return out
}
