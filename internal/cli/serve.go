package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/calexport"
	"github.com/faizmokh/pacli/internal/serve"
)

func newServeCommand(ctx context.Context, a *app) *cobra.Command {
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the events read-only over HTTP with CORS enabled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.cfg.Serve.Listen
			if listenFlag != "" {
				addr = listenFlag
			}
			printInfo(cmd.OutOrStdout(), "Serving events at http://%s/events", addr)
			return serve.NewServer(a.store, a.loc, a.logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listenFlag, "listen", "", "Address to listen on (default: serve.listen)")

	return cmd
}

func newExportCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		outputFlag string
		publicFlag bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as an iCalendar (.ics) feed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.store.Load(ctx)
			if err != nil {
				return err
			}
			opts := calexport.Options{Location: a.loc, PublicOnly: publicFlag, Now: a.now()}

			if outputFlag == "" || outputFlag == "-" {
				skipped, err := calexport.Write(cmd.OutOrStdout(), all, opts)
				if skipped > 0 {
					printWarning(cmd.ErrOrStderr(), "Skipped %d event%s with unreadable dates.", skipped, pluralS(skipped))
				}
				return err
			}

			f, err := os.Create(outputFlag)
			if err != nil {
				return fmt.Errorf("create %s: %w", outputFlag, err)
			}
			skipped, werr := calexport.Write(f, all, opts)
			if err := f.Close(); err != nil && werr == nil {
				werr = err
			}
			if werr != nil {
				return werr
			}
			if skipped > 0 {
				printWarning(cmd.OutOrStdout(), "Skipped %d event%s with unreadable dates.", skipped, pluralS(skipped))
			}
			printSuccess(cmd.OutOrStdout(), "Exported calendar to %s", outputFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&publicFlag, "public", false, "Only export public events")

	return cmd
}
