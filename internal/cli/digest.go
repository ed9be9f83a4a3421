package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/pacli/internal/digest"
)

func newDigestCommand(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Mail summaries of upcoming events.",
	}

	cmd.AddCommand(newDigestSendCommand(ctx, a), newDigestRunCommand(ctx, a))
	return cmd
}

func newDigestSendCommand(ctx context.Context, a *app) *cobra.Command {
	var (
		toFlag      string
		previewFlag bool
		publicFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the digest now.",
		Long: "send mails the public digest to every recipient and the full digest to the owner. " +
			"--preview prints the plain-text body instead of sending.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if previewFlag {
				all, err := a.store.Load(ctx)
				if err != nil {
					return err
				}
				d := digest.Build(all, a.now(), publicFlag, a.cfg.Digest.Subject)
				text, err := digest.Text(d)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, d.Subject)
				fmt.Fprintln(out)
				fmt.Fprint(out, text)
				return nil
			}

			sender, err := a.digestSender()
			if err != nil {
				return err
			}
			if toFlag != "" {
				sender.Recipients = splitList(toFlag)
				sender.Owner = ""
			}

			report, err := sender.Send(ctx)
			for _, to := range report.Sent {
				printSuccess(out, "Digest sent to %s", to)
			}
			for _, to := range report.Failed {
				printError(out, "Digest failed for %s", to)
			}
			if err != nil {
				return err
			}
			if len(report.Sent) == 0 {
				printWarning(out, "No recipients configured; set digest.recipients, digest.owner or %s.", "PACLI_MAIL_TO")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "Comma separated recipients overriding the config (public events only)")
	cmd.Flags().BoolVar(&previewFlag, "preview", false, "Print the digest instead of sending it")
	cmd.Flags().BoolVar(&publicFlag, "public", false, "With --preview, show the public digest")

	return cmd
}

func newDigestRunCommand(ctx context.Context, a *app) *cobra.Command {
	var cronFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send the digest on the configured cron schedule until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := a.digestSender()
			if err != nil {
				return err
			}
			spec := a.cfg.Digest.Cron
			if cronFlag != "" {
				spec = cronFlag
			}
			return digest.Run(ctx, spec, a.loc, sender, a.logger)
		},
	}

	cmd.Flags().StringVar(&cronFlag, "cron", "", "Cron spec overriding digest.cron")

	return cmd
}

func (a *app) digestSender() (*digest.Sender, error) {
	mailer, err := digest.NewMailer(a.cfg.Mail, a.logger)
	if err != nil {
		return nil, err
	}
	return &digest.Sender{
		Store:      a.store,
		Mailer:     mailer,
		Recipients: a.cfg.Digest.Recipients,
		Owner:      a.cfg.Digest.Owner,
		Subject:    a.cfg.Digest.Subject,
		Logger:     a.logger,
		Now:        a.now,
	}, nil
}
