package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/support-menu/internal/bridge"
	"github.com/kingrea/support-menu/internal/platform"
	"github.com/kingrea/support-menu/internal/support"
)

func serveCmd() *cobra.Command {
	var (
		bindHost string
		bindPort int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the loopback bridge for native menu shells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagOverrides bridge.Overrides
			if cmd.Flags().Changed("host") {
				flagOverrides.Host = &bindHost
			}
			if cmd.Flags().Changed("port") {
				flagOverrides.Port = &bindPort
			}
			settings, err := bridge.SettingsFromConfig(host.cfg).Apply(flagOverrides)
			if err != nil {
				return err
			}

			hub := bridge.NewHub(bridge.HubWithLogger(host.log))
			opener := platform.NewOpener()
			controller := host.controller(support.Ports{
				Opener: opener,
				Mail:   platform.NewMailComposer(opener),
				Alerts: hub,
			}, support.WithObserver(hub))
			srv := bridge.NewServer(settings, controller, hub, bridge.WithLogger(host.log))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Start(ctx); err != nil {
				if errors.Is(err, bridge.ErrServerDisabled) {
					return fmt.Errorf("bridge disabled: set bridge.enabled or SUPPORT_BRIDGE_ENABLED")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Support bridge listening on %s\n", srv.BaseURL())

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = srv.Shutdown(shutdownCtx)
			hub.CloseAll()
			host.log.Info("bridge: stopped")
			return err
		},
	}
	cmd.Flags().StringVar(&bindHost, "host", "", "bind host (overrides bridge.host)")
	cmd.Flags().IntVar(&bindPort, "port", 0, "bind port (overrides bridge.port)")
	return cmd
}
