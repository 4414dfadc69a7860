package commands

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/support-menu/internal/platform"
	"github.com/kingrea/support-menu/internal/support"
	"github.com/kingrea/support-menu/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal Support menu",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	alerts := tui.NewAlertPresenter()
	opener := platform.NewOpener()
	controller := host.controller(support.Ports{
		Opener: opener,
		Mail:   platform.NewMailComposer(opener),
		Alerts: alerts,
	})
	host.log.Info("Session opened · %s", controller.Config().AppName)
	app := tui.NewApp(controller, tui.WithAlerts(alerts), tui.WithLogbook(host.log))
	return tui.Run(app)
}
