package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/traingate/traingate/internal/cmd"
	"github.com/traingate/traingate/internal/config"
	"github.com/traingate/traingate/internal/daemon"
	"github.com/traingate/traingate/internal/flags"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev       bool
	Addr      string
	cfgLoader config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: &config.DefaultLoader{},
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Launches a traingate daemon instance",
		Long:  "Launches a traingate daemon instance, which monitors backend services and provides routing via HTTP API",
		RunE:  c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		"dev",
		false,
		"Run the daemon in development-focused mode",
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		"Address for the daemon to bind (overrides the config file, not applicable in --dev mode)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive("dev", "addr")

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	addr := resolveAddr(cfg, strings.TrimSpace(c.Addr))

	// Override address for dev mode.
	if c.Dev {
		devAddr := "localhost:8095"
		logger.Info("Development-focused mode", "addr", addr, "override", devAddr)
		addr = devAddr
	}

	opts, err := daemonOptions(cfg)
	if err != nil {
		return fmt.Errorf("error configuring traingate daemon options: %w", err)
	}

	deps, err := daemon.NewDependencies(logger, addr, cfg.Services)
	if err != nil {
		return err
	}

	d, err := daemon.NewDaemon(deps, opts...)
	if err != nil {
		return fmt.Errorf("failed to create traingate daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	if c.Dev {
		banner := fmt.Sprintf("traingate daemon running in 'dev' mode.\n\n"+
			"  Local API:\thttp://%s/api/v1\n"+
			"  OpenAPI UI:\thttp://%s/docs\n"+
			"  Config file:\t%s\n",
			addr, addr, flags.ConfigFile)

		if flags.LogPath != "" {
			banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
		}

		banner += "\nPress Ctrl+C to stop.\n\n"
		fmt.Print(banner)
	}

	if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Daemon stopped")
	return nil
}

// resolveAddr picks the bind address: flag, then config file, then default.
func resolveAddr(cfg *config.Config, flagAddr string) string {
	if flagAddr != "" {
		return flagAddr
	}
	if cfg.API != nil && cfg.API.Addr != nil && strings.TrimSpace(*cfg.API.Addr) != "" {
		return strings.TrimSpace(*cfg.API.Addr)
	}
	return "0.0.0.0:8095"
}

// daemonOptions converts config file sections into daemon options.
func daemonOptions(cfg *config.Config) ([]daemon.Option, error) {
	var opts []daemon.Option

	if cfg.Health != nil {
		if cfg.Health.Interval != nil {
			opts = append(opts, daemon.WithHealthCheckInterval(time.Duration(*cfg.Health.Interval)))
		}
		if cfg.Health.Timeout != nil {
			opts = append(opts, daemon.WithHealthCheckTimeout(time.Duration(*cfg.Health.Timeout)))
		}
		if cfg.Health.Path != nil {
			opts = append(opts, daemon.WithHealthCheckPath(*cfg.Health.Path))
		}
	}

	if cfg.Proxy != nil {
		if cfg.Proxy.Timeout != nil {
			opts = append(opts, daemon.WithProxyTimeout(time.Duration(*cfg.Proxy.Timeout)))
		}
		if cfg.Proxy.FailFast != nil {
			opts = append(opts, daemon.WithProxyFailFast(*cfg.Proxy.FailFast))
		}
	}

	if cfg.Errors != nil && cfg.Errors.Capacity != nil {
		opts = append(opts, daemon.WithErrorLogCapacity(*cfg.Errors.Capacity))
	}

	var apiOpts []daemon.APIOption
	if cfg.API != nil {
		if cfg.API.ShutdownTimeout != nil {
			apiOpts = append(apiOpts, daemon.WithShutdownTimeout(time.Duration(*cfg.API.ShutdownTimeout)))
		}
		if cfg.API.CORS != nil {
			if cfg.API.CORS.Enable != nil {
				apiOpts = append(apiOpts, daemon.WithCORSEnabled(*cfg.API.CORS.Enable))
			}
			if len(cfg.API.CORS.Origins) > 0 {
				apiOpts = append(apiOpts, daemon.WithCORSAllowOrigins(cfg.API.CORS.Origins))
			}
			if len(cfg.API.CORS.Methods) > 0 {
				apiOpts = append(apiOpts, daemon.WithCORSAllowMethods(cfg.API.CORS.Methods))
			}
			if len(cfg.API.CORS.Headers) > 0 {
				apiOpts = append(apiOpts, daemon.WithCORSAllowHeaders(cfg.API.CORS.Headers))
			}
		}
	}
	if len(apiOpts) > 0 {
		opts = append(opts, daemon.WithAPIOptions(apiOpts...))
	}

	return opts, nil
}
