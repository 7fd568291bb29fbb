package store

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dori/taskboard/internal/model"
	"github.com/dori/taskboard/internal/seed"
)

func drawFields(rt *rapid.T) model.TaskFields {
	f := model.TaskFields{
		Title:       rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,20}`).Draw(rt, "title"),
		Description: rapid.String().Draw(rt, "description"),
		Status:      rapid.SampledFrom(model.Statuses()).Draw(rt, "status"),
		Priority:    rapid.SampledFrom(model.Priorities()).Draw(rt, "priority"),
		Assignee:    rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(rt, "assignee"),
		Labels:      rapid.SliceOfN(rapid.SampledFrom([]string{"Security", "API", "Database", "Web"}), 0, 2).Draw(rt, "labels"),
	}
	if rapid.Bool().Draw(rt, "hasScore") {
		score := rapid.Float64Range(0, 10).Draw(rt, "score")
		f.Score = &score
	}
	return f
}

func propertyStore() *Store {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(WithTasks(seed.Default()), WithClock(clock.Now))
}

// Adding a task then deleting it restores the previous list
func TestProperty_AddDeleteRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := propertyStore()
		tasks := s.Tasks()
		before := tasks.Tasks()

		added, err := tasks.AddTask(drawFields(rt))
		if err != nil {
			rt.Fatalf("AddTask: %v", err)
		}
		tasks.DeleteTask(added.ID)

		if !reflect.DeepEqual(before, tasks.Tasks()) {
			rt.Fatalf("round trip changed the task list")
		}
	})
}

// Updating a title changes only title and updatedAt, and updatedAt strictly grows
func TestProperty_UpdateTitle(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := propertyStore()
		tasks := s.Tasks()
		all := tasks.Tasks()
		target := rapid.SampledFrom(all).Draw(rt, "task")
		title := rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,30}`).Draw(rt, "newTitle")

		tasks.UpdateTask(target.ID, model.TaskPatch{Title: &title})
		after, _ := tasks.Task(target.ID)

		if after.Title != title {
			rt.Fatalf("title = %q, want %q", after.Title, title)
		}
		if !after.UpdatedAt.After(target.UpdatedAt) {
			rt.Fatalf("updatedAt did not increase")
		}
		after.Title = target.Title
		after.UpdatedAt = target.UpdatedAt
		if !reflect.DeepEqual(after, target) {
			rt.Fatalf("other fields changed")
		}
	})
}

// Moving changes only status and updatedAt
func TestProperty_MoveTask(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := propertyStore()
		tasks := s.Tasks()
		target := rapid.SampledFrom(tasks.Tasks()).Draw(rt, "task")
		status := rapid.SampledFrom(model.Statuses()).Draw(rt, "status")

		tasks.MoveTask(target.ID, status)
		after, _ := tasks.Task(target.ID)

		if after.Status != status || !after.UpdatedAt.After(target.UpdatedAt) {
			rt.Fatalf("move not applied: %+v", after)
		}
		after.Status = target.Status
		after.UpdatedAt = target.UpdatedAt
		if !reflect.DeepEqual(after, target) {
			rt.Fatalf("other fields changed")
		}
	})
}

// Column counts always cover every task regardless of filters, and
// updatedAt never falls behind createdAt
func TestProperty_BoardInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := propertyStore()
		tasks := s.Tasks()

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ids := tasks.Tasks()
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				tasks.AddTask(drawFields(rt))
			case 1:
				if len(ids) > 0 {
					tasks.DeleteTask(rapid.SampledFrom(ids).Draw(rt, "del").ID)
				}
			case 2:
				if len(ids) > 0 {
					tasks.MoveTask(rapid.SampledFrom(ids).Draw(rt, "mv").ID, rapid.SampledFrom(model.Statuses()).Draw(rt, "to"))
				}
			case 3:
				tasks.SetSearchTerm(rapid.StringMatching(`[a-z]{0,3}`).Draw(rt, "search"))
			case 4:
				tasks.SetSortBy(rapid.SampledFrom([]SortKey{SortByDate, SortByPriority, SortByTitle}).Draw(rt, "sort"))
			}
		}

		total := 0
		for _, col := range tasks.Board() {
			total += col.Count
		}
		if total != tasks.Len() {
			rt.Fatalf("counts sum to %d, want %d", total, tasks.Len())
		}

		seen := map[string]bool{}
		for _, task := range tasks.Tasks() {
			if task.UpdatedAt.Before(task.CreatedAt) {
				rt.Fatalf("task %s: updatedAt before createdAt", task.ID)
			}
			if seen[task.ID] {
				rt.Fatalf("duplicate id %s", task.ID)
			}
			seen[task.ID] = true
		}

		term := strings.ToLower(tasks.Prefs().SearchTerm)
		for _, task := range tasks.Visible() {
			if !strings.Contains(strings.ToLower(task.Title), term) {
				rt.Fatalf("visible task %q does not match %q", task.Title, term)
			}
		}
	})
}
