package cmd

import (
	"github.com/spf13/cobra"

	"github.com/traingate/traingate/internal/cmd"
	"github.com/traingate/traingate/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() error {
	rootCmd, err := NewRootCmd()
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

func NewRootCmd() (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: &cmd.BaseCmd{},
	}

	rootCmd := &cobra.Command{
		Use:          "traingate <command> [args]",
		Short:        "'traingate' is the inter-service gateway for the travel-booking backend.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	daemonCmd, err := NewDaemonCmd(c.BaseCmd)
	if err != nil {
		return nil, err
	}

	rootCmd.AddCommand(NewInitCmd(c.BaseCmd))
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(NewStatusCmd(c.BaseCmd))

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `'traingate' maintains a live registry of the travel-booking backend services,
monitors their health, proxies requests to them on behalf of callers, and keeps
an auditable history of backend errors.`
}
