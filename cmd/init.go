package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/traingate/traingate/internal/cmd"
	"github.com/traingate/traingate/internal/config"
	"github.com/traingate/traingate/internal/flags"
)

// InitCmd should be used to represent the 'init' command.
type InitCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

// NewInitCmd creates a newly configured (Cobra) command.
func NewInitCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &InitCmd{
		BaseCmd:   baseCmd,
		cfgLoader: &config.DefaultLoader{},
	}

	return &cobra.Command{
		Use:   "init",
		Short: "Creates the traingate config file",
		Long:  "Creates the traingate config file, seeded with the standard travel-booking backend services",
		RunE:  c.run,
	}
}

func (c *InitCmd) run(_ *cobra.Command, _ []string) error {
	path := flags.ConfigFile

	if err := c.cfgLoader.Init(path); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
