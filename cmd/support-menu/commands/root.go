package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/support-menu/internal/config"
	"github.com/kingrea/support-menu/internal/logbook"
	"github.com/kingrea/support-menu/internal/platform"
	"github.com/kingrea/support-menu/internal/support"
)

var (
	projectDir      string
	storeID         string
	appName         string
	restricted      bool
	reviewDeepLinks string
	verbose         bool

	host *hostContext

	// probe is replaced in tests so capability detection never shells out.
	probe = platform.Probe
)

// hostContext is shared by every subcommand.
type hostContext struct {
	cfg  *config.Config
	log  *logbook.Logbook
	caps support.Capabilities
}

func (h *hostContext) controller(ports support.Ports, opts ...support.ControllerOption) *support.Controller {
	base := []support.ControllerOption{
		support.WithCapabilities(h.caps),
		support.WithLogger(h.log),
	}
	return support.NewController(h.cfg.Support(), ports, append(base, opts...)...)
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "support-menu",
		Short:        "Support menu for desktop apps",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHost(cmd)
			if err != nil {
				return err
			}
			host = h
			return nil
		},
		RunE: runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&projectDir, "project", "", "project directory holding .support/ (default current directory)")
	flags.StringVar(&storeID, "store-id", "", "App Store identifier (overrides app.store_id)")
	flags.StringVar(&appName, "app-name", "", "app name used in the support email subject (overrides app.name)")
	flags.BoolVar(&restricted, "restricted", false, "hide mailing list, review, social and store entries")
	flags.StringVar(&reviewDeepLinks, "review-deep-links", "", "auto, true or false (overrides platform.review_deep_links)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "echo log entries to stderr")

	root.AddCommand(tuiCmd(), listCmd(), urlCmd(), openCmd(), serveCmd())
	return root
}

func loadHost(cmd *cobra.Command) (*hostContext, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}
	if err := config.InitSupportDir(dir); err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(overridesFrom(cmd)); err != nil {
		return nil, err
	}

	var opts []logbook.Option
	if verbose {
		opts = append(opts, logbook.WithEcho(cmd.ErrOrStderr()))
	}
	lb, err := logbook.New(cfg.LogPath(), opts...)
	if err != nil {
		return nil, err
	}

	h := &hostContext{cfg: cfg, log: lb}
	if enabled, auto := cfg.ReviewDeepLinks(); auto {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		h.caps = probe(ctx)
	} else {
		h.caps.ReviewDeepLinks = enabled
	}
	return h, nil
}

func overridesFrom(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("app-name") {
		o.AppName = &appName
	}
	if flags.Changed("store-id") {
		o.StoreID = &storeID
	}
	if flags.Changed("restricted") {
		o.Restricted = &restricted
	}
	if flags.Changed("review-deep-links") {
		o.ReviewDeepLinks = &reviewDeepLinks
	}
	return o
}
