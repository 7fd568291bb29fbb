// Package quickadd parses one-line task descriptions such as
//
//	Fix login redirect #Security !high @Raju ~7.5 status:todo
//
// into task fields. Tokens that don't parse stay in the title.
package quickadd

import (
	"math"
	"strconv"
	"strings"

	"github.com/dori/taskboard/internal/model"
)

// Parse converts text into creation fields. Status and priority stay empty
// unless given, leaving the defaults to the caller. At most model.MaxLabels
// labels are taken; further #words remain part of the title.
func Parse(text string) model.TaskFields {
	var fields model.TaskFields

	var titleParts []string
	var labels model.Labels

	for _, word := range strings.Fields(text) {
		switch {
		// Labels (#Security, #Frontend)
		case strings.HasPrefix(word, "#") && len(word) > 1:
			next, err := labels.Add(strings.TrimPrefix(word, "#"))
			if err != nil {
				titleParts = append(titleParts, word)
				continue
			}
			labels = next

		// Priority (!low, !high, !crit)
		case strings.HasPrefix(word, "!"):
			if p, ok := model.ParsePriority(strings.TrimPrefix(word, "!")); ok {
				fields.Priority = p
			} else {
				titleParts = append(titleParts, word)
			}

		// Assignee (@Raju)
		case strings.HasPrefix(word, "@") && len(word) > 1:
			fields.Assignee = strings.TrimPrefix(word, "@")

		// Score (~7.5)
		case strings.HasPrefix(word, "~"):
			score, err := strconv.ParseFloat(strings.TrimPrefix(word, "~"), 64)
			if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
				titleParts = append(titleParts, word)
				continue
			}
			fields.Score = &score

		case strings.HasPrefix(strings.ToLower(word), "status:"):
			if s, ok := model.ParseStatus(word[len("status:"):]); ok {
				fields.Status = s
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	fields.Title = strings.Join(titleParts, " ")
	fields.Labels = []string(labels)
	return fields
}
