// Package main provides the entry point for mulltray, a system tray status
// indicator for the Mullvad VPN daemon.
//
// Without a sub-command mulltray shows the tray icon. The sub-commands talk
// to the same daemon from a terminal:
//
//	mulltray [flags]
//	mulltray status | locations | connect | disconnect | watch
//	mulltray location COUNTRY [CITY [HOSTNAME]]
//
// Environment:
//
//	The Mullvad daemon must be running and reachable on its management
//	socket (default /var/run/mullvad-vpn).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yllada/mulltray/cli"
	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/config"
	"github.com/yllada/mulltray/daemon"
	"github.com/yllada/mulltray/ui"
	"github.com/yllada/mulltray/vpn"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

type options struct {
	configPath      string
	socketPath      string
	verbose         bool
	noNotifications bool
	showVersion     bool

	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	common.CloseLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           common.AppName,
		Short:         "System tray status indicator for the Mullvad VPN daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.Flags().Changed("socket"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.showVersion {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return runTray(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default ~/.config/mulltray/config.yaml)")
	flags.StringVar(&opts.socketPath, "socket", common.DefaultSocketPath, "daemon management socket")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.noNotifications, "no-notifications", false, "disable desktop notifications")
	root.Flags().BoolVar(&opts.showVersion, "version", false, "show version and exit")

	root.AddCommand(
		statusCmd(opts),
		locationsCmd(opts),
		connectCmd(opts),
		disconnectCmd(opts),
		locationCmd(opts),
		watchCmd(opts),
	)
	return root
}

// setup loads the configuration, applies flag overrides and starts logging.
func (o *options) setup(socketChanged bool) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil || cfg == nil {
		fmt.Fprintf(os.Stderr, "Warning: using default configuration: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if socketChanged {
		cfg.SocketPath = o.socketPath
	}
	if o.noNotifications {
		cfg.ShowNotifications = false
	}

	level := common.ParseLogLevel(cfg.LogLevel)
	if o.verbose {
		level = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:      level,
		EnableFile: cfg.LogToFile,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}

	o.cfg = cfg
	return nil
}

func (o *options) dial() (*daemon.GRPCLink, error) {
	common.LogDebug("Connecting to daemon at %s", o.cfg.SocketPath)
	return daemon.Dial(o.cfg.SocketPath)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", common.AppName, appVersion)
	if buildTime != "unknown" {
		fmt.Fprintf(w, "  Build:  %s\n", buildTime)
		fmt.Fprintf(w, "  Commit: %s\n", commitSHA)
	}
}

func runTray(ctx context.Context, opts *options) error {
	common.LogInfo("Starting %s %s", common.AppName, appVersion)

	app, err := newApplication(ctx, opts)
	if err != nil {
		return err
	}
	return app.Run()
}

func newApplication(ctx context.Context, opts *options) (*ui.Application, error) {
	link, err := opts.dial()
	if err != nil {
		return nil, err
	}
	app, err := ui.NewApplication(ctx, opts.cfg, link)
	if err != nil {
		link.Close()
		return nil, err
	}
	return app, nil
}

// withCLI runs fn with a one-shot CLI bound to a fresh daemon link.
func withCLI(cmd *cobra.Command, opts *options, fn func(c *cli.CLI, ctx context.Context) error) error {
	link, err := opts.dial()
	if err != nil {
		return err
	}
	defer link.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.cfg.CommandTimeout)
	defer cancel()
	return fn(cli.New(link, cmd.OutOrStdout()), ctx)
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current tray status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(cmd, opts, (*cli.CLI).Status)
		},
	}
}

func locationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List selectable relays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(cmd, opts, (*cli.CLI).Locations)
		},
	}
}

func connectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect the tunnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(cmd, opts, (*cli.CLI).Connect)
		},
	}
}

func disconnectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the tunnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(cmd, opts, (*cli.CLI).Disconnect)
		},
	}
}

func locationCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "location COUNTRY [CITY [HOSTNAME]]",
		Short:   "Select the relay location",
		Example: "  mulltray location se got se-got-wg-001",
		Args:    cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := vpn.Target{Country: args[0]}
			if len(args) > 1 {
				target.City = args[1]
			}
			if len(args) > 2 {
				target.Hostname = args[2]
			}
			return withCLI(cmd, opts, func(c *cli.CLI, ctx context.Context) error {
				return c.SetLocation(ctx, target)
			})
		},
	}
}

func watchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the status in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()
			app.WatchNotifications()
			return cli.Watch(app)
		},
	}
}
