package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/support-menu/internal/bridge"
	"github.com/kingrea/support-menu/internal/support"
)

func listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the composed Support menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := host.cfg.Support()
			entries := support.Compose(cfg)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bridge.NewMenuPayload(entries))
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tLABEL\tACTION\tDESTINATION")
			for _, entry := range entries {
				if entry.Separator {
					fmt.Fprintln(w, "-\t-\t\t")
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", entry.Tag(), entry.Label(), entry.Action.Slug(), destination(entry.Action, cfg))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rendered menu as JSON")
	return cmd
}

func destination(action support.Action, cfg support.Config) string {
	if action == support.ActionEmailSupport {
		return "mailto:" + support.SupportEmail
	}
	link, err := support.ResolveFor(action, cfg, host.caps)
	if err != nil {
		return ""
	}
	return link.URL()
}
