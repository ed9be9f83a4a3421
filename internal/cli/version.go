package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		// Skips config loading so version works without a base directory.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pacli %s\n", version.Info())
			return nil
		},
	}
}
