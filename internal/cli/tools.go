package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newToolCommand(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool <name> [json-args|-]",
		Short: "Call an assistant tool with JSON arguments.",
		Long:  "tool runs one named tool the way an assistant would. Pass - to read the arguments from stdin.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := "{}"
			if len(args) == 2 {
				raw = args[1]
			}
			if raw == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read arguments: %w", err)
				}
				raw = string(data)
			}

			out, err := a.tools.Call(ctx, args[0], json.RawMessage(raw))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	return cmd
}

func newToolsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the assistant tools and their arguments.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range a.tools.Tools() {
				fmt.Fprintf(out, "%s\n", infoStyle.Render(t.Name))
				fmt.Fprintf(out, "  %s\n", t.Description)
				for _, p := range t.Params {
					req := ""
					if p.Required {
						req = ", required"
					}
					fmt.Fprintf(out, "  - %s (%s%s): %s\n", p.Name, p.Type, req, dimStyle.Render(p.Description))
				}
			}
			return nil
		},
	}

	return cmd
}

// splitList parses a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
