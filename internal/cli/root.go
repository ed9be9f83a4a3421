package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/ui"
)

// NewRootCommand creates the top-level Cobra command hosting subcommands and
// the week browser.
func NewRootCommand(ctx context.Context) *cobra.Command {
	return newRootCommand(ctx, &app{})
}

func newRootCommand(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pacli",
		Short: "Schedule, find and edit your events from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.ready() {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := ui.NewModel(ctx, a.store, a.mutator, a.now())
			if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.home, "home", "", "Base directory (default: $PACLI_HOME or ~/.pacli)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: <home>/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newScheduleCommand(ctx, a),
		newEventsCommand(ctx, a),
		newFindCommand(ctx, a),
		newEditCommand(ctx, a),
		newFindEditCommand(ctx, a),
		newDeleteCommand(ctx, a),
		newSortCommand(ctx, a),
		newDayCommand(a),
		newToolCommand(ctx, a),
		newToolsCommand(a),
		newDigestCommand(ctx, a),
		newServeCommand(ctx, a),
		newExportCommand(ctx, a),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	return NewRootCommand(ctx).Execute()
}

// Main is a helper used by cmd/pacli/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ExecuteCommand(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
