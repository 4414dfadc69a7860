package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/support-menu/internal/platform"
	"github.com/kingrea/support-menu/internal/support"
)

// openPorts is replaced in tests so no real launcher runs.
var openPorts = func(cmd *cobra.Command) support.Ports {
	return platform.Ports(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <action|tag>",
		Short: "Perform a Support action through the OS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := support.ParseAction(args[0])
			if err != nil {
				return err
			}
			controller := host.controller(openPorts(cmd))
			sel, err := controller.Dispatch(action)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch sel.Outcome {
			case support.OutcomeOpened:
				fmt.Fprintf(out, "Opened %s\n", sel.URL)
			case support.OutcomeComposed:
				fmt.Fprintf(out, "Composing email to %s\n", support.SupportEmail)
			case support.OutcomeAlerted:
				fmt.Fprintln(out, support.MailUnavailableDetail)
			case support.OutcomeOpenFailed:
				return fmt.Errorf("could not open %s", sel.URL)
			}
			return nil
		},
	}
}
