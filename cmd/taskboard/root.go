package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/taskboard/internal/app"
	"github.com/dori/taskboard/internal/config"
	"github.com/dori/taskboard/internal/store"
	"github.com/dori/taskboard/internal/ui"
	"github.com/dori/taskboard/internal/ui/theme"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	configPath string
	view       string
	theme      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "taskboard",
		Short: "A kanban board for the terminal",
		Long: `taskboard is a kanban board in the terminal. Sign in, then add, edit,
move, filter and sort tasks across five columns: Draft, To Do, In Progress,
Under Review and Done.

Only the signed-in user is remembered between runs. Tasks start from the
seed board every time.

Quick add syntax (A in the board, or "taskboard add"):
  taskboard add "Fix login redirect #Security !high @Raju ~7.5 status:todo"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <data_dir>/config.yaml)")
	cmd.Flags().StringVar(&opts.view, "view", "", "starting view (board, list)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme name (nord, dracula, gruvbox, catppuccin)")

	cmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(opts),
		newSignupCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newTasksCmd(opts),
		newAddCmd(opts),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskboard %s\ncommit: %s\n", version, commit)
		},
	}
}

// loadConfig reads configuration and applies the root flags
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.view != "" {
		cfg.UI.View = store.ViewMode(opts.view)
	}
	if opts.theme != "" {
		if _, ok := theme.ByName(opts.theme); !ok {
			return nil, fmt.Errorf("unknown theme %q", opts.theme)
		}
		cfg.UI.Theme = opts.theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp builds the application for a one-shot command
func openApp(cmd *cobra.Command, opts *rootOptions, appOpts ...app.Option) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, appOpts...)
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	application, err := openApp(cmd, opts, app.WithSingleInstance())
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(
		ui.NewRootModel(cmd.Context(), application),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	_, err = p.Run()
	return err
}
