package quickadd

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/dori/taskboard/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		title    string
		labels   []string
		priority model.Priority
		status   model.Status
		assignee string
		score    *float64
	}{
		{
			in:    "Buy groceries",
			title: "Buy groceries",
		},
		{
			in:       "Fix login redirect #Security !high @Raju ~7.5",
			title:    "Fix login redirect",
			labels:   []string{"Security"},
			priority: model.PriorityHigh,
			assignee: "Raju",
			score:    ptr(7.5),
		},
		{
			in:     "Ship #a #b #c status:done",
			title:  "Ship #c",
			labels: []string{"a", "b"},
			status: model.StatusDone,
		},
		{
			in:    "Odd !urgent ~abc status:later",
			title: "Odd !urgent ~abc status:later",
		},
		{
			in:       "Hot fix !c status:in-progress",
			title:    "Hot fix",
			priority: model.PriorityCritical,
			status:   model.StatusInProgress,
		},
		{
			in:     "Dup #ui #ui",
			title:  "Dup",
			labels: []string{"ui"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Parse(tt.in)
			if got.Title != tt.title {
				t.Errorf("title = %q, want %q", got.Title, tt.title)
			}
			if len(got.Labels) != len(tt.labels) || (len(tt.labels) > 0 && !reflect.DeepEqual(got.Labels, tt.labels)) {
				t.Errorf("labels = %v, want %v", got.Labels, tt.labels)
			}
			if got.Priority != tt.priority {
				t.Errorf("priority = %q, want %q", got.Priority, tt.priority)
			}
			if got.Status != tt.status {
				t.Errorf("status = %q, want %q", got.Status, tt.status)
			}
			if got.Assignee != tt.assignee {
				t.Errorf("assignee = %q, want %q", got.Assignee, tt.assignee)
			}
			switch {
			case tt.score == nil && got.Score != nil:
				t.Errorf("score = %v, want none", *got.Score)
			case tt.score != nil && (got.Score == nil || *got.Score != *tt.score):
				t.Errorf("score = %v, want %v", got.Score, *tt.score)
			}
		})
	}
}

func TestParseRejectsNonFiniteScore(t *testing.T) {
	for _, in := range []string{"x ~NaN", "x ~inf", "x ~-Inf"} {
		if got := Parse(in); got.Score != nil {
			t.Errorf("Parse(%q) score = %v, want none", in, *got.Score)
		}
	}
}

func TestProperty_ParseNeverExceedsLabelCap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		words := rapid.SliceOf(rapid.StringMatching(`[#!@~]?[a-z]{1,6}`)).Draw(rt, "words")
		got := Parse(strings.Join(words, " "))

		if len(got.Labels) > model.MaxLabels {
			rt.Fatalf("labels = %v", got.Labels)
		}
		if got.Priority != "" && got.Priority.Rank() == 0 {
			rt.Fatalf("priority = %q", got.Priority)
		}
		if got.Status != "" && !got.Status.Valid() {
			rt.Fatalf("status = %q", got.Status)
		}
	})
}

func ptr[T any](v T) *T { return &v }
