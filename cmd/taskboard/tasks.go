package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dori/taskboard/internal/model"
	"github.com/dori/taskboard/internal/quickadd"
	"github.com/dori/taskboard/internal/store"
)

func newTasksCmd(opts *rootOptions) *cobra.Command {
	var (
		search string
		labels []string
		sortBy string
		board  bool
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print the seed board through the search, label and sort filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			slice := a.Store.Tasks()
			slice.SetSearchTerm(search)
			slice.SetSelectedLabels(labels)
			if sortBy != "" {
				key, ok := store.ParseSortKey(sortBy)
				if !ok {
					return fmt.Errorf("invalid --sort %q (date, priority, title)", sortBy)
				}
				slice.SetSortBy(key)
			}

			out := cmd.OutOrStdout()
			if board {
				for _, cv := range slice.Board() {
					fmt.Fprintf(out, "== %s (%d/%d)\n", cv.Column.Title, len(cv.Tasks), cv.Count)
					writeTasks(out, cv.Tasks)
				}
				return nil
			}
			writeTasks(out, slice.Visible())
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title filter")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "show tasks with any of these labels (repeatable)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort key: date, priority, title")
	cmd.Flags().BoolVar(&board, "board", false, "group by column with counts")
	return cmd
}

func writeTasks(out io.Writer, tasks []model.Task) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		score := "-"
		if t.Score != nil {
			score = strconv.FormatFloat(*t.Score, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "#%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Status, t.Priority, orDash(t.Assignee), score, orDash(t.Labels.String()))
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Preview a task written in quick add syntax",
		Long: `Parse quick add syntax and show the task it would create.

Tasks are not saved between runs, so this only previews the result.

  #label        add a label (at most two)
  !priority     low, medium, high, critical (l, m, h, c)
  @assignee     assignee name
  ~score        numeric score
  status:<s>    draft, todo, in-progress, under-review, done`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			fields := quickadd.Parse(strings.Join(args, " "))
			task, err := a.Store.Tasks().AddTask(fields)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Would create #%s: %s\n", task.ID, task.Title)
			fmt.Fprintf(out, "Status: %s\nPriority: %s\n", task.Status, task.Priority)
			if task.Assignee != "" {
				fmt.Fprintf(out, "Assignee: %s\n", task.Assignee)
			}
			if len(task.Labels) > 0 {
				fmt.Fprintf(out, "Labels: %s\n", task.Labels.String())
			}
			if task.Score != nil {
				fmt.Fprintf(out, "Score: %s\n", strconv.FormatFloat(*task.Score, 'f', -1, 64))
			}
			return nil
		},
	}
}
