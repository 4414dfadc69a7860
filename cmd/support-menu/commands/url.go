package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/support-menu/internal/platform"
	"github.com/kingrea/support-menu/internal/support"
)

func urlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <action>",
		Short: "Print the URI an action resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := support.ParseAction(args[0])
			if err != nil {
				return err
			}
			uri, err := resolveURI(action)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		},
	}
}

// resolveURI returns the link for action, or the mailto: draft for the
// email action.
func resolveURI(action support.Action) (string, error) {
	cfg := host.cfg.Support()
	link, err := support.ResolveFor(action, cfg, host.caps)
	if errors.Is(err, support.ErrComposeAction) {
		to, subject, body := host.controller(support.Ports{}).EmailDraft()
		uri, ok := platform.MailtoURL(to, subject, body)
		if !ok {
			return "", fmt.Errorf("cannot build mailto link for %s", to)
		}
		return uri, nil
	}
	if err != nil {
		return "", err
	}
	return link.URL(), nil
}
