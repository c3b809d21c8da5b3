package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/traingate/traingate/internal/api"
	"github.com/traingate/traingate/internal/cmd"
)

// StatusCmd should be used to represent the 'status' command.
// It queries a running daemon's health endpoint and prints the result.
type StatusCmd struct {
	*cmd.BaseCmd
	Addr   string
	Format cmd.OutputFormat
}

// NewStatusCmd creates a newly configured (Cobra) command.
func NewStatusCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &StatusCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
	}

	cobraCommand := &cobra.Command{
		Use:   "status [--addr] [--format]",
		Short: "Shows the health of all services tracked by a running daemon",
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"localhost:8095",
		"Address of the running daemon",
	)

	allowedFormats := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %v", allowedFormats.String()),
	)

	return cobraCommand
}

// statusReport mirrors the health endpoint's response body.
type statusReport struct {
	Services []api.ServiceHealth `json:"services" yaml:"services"`
}

func (c *StatusCmd) run(_ *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	url := fmt.Sprintf("http://%s/api/v1/health", c.Addr)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", c.Addr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon at %s returned status %d", c.Addr, resp.StatusCode)
	}

	var report statusReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("failed to decode health response: %w", err)
	}

	return c.print(report)
}

func (c *StatusCmd) print(report statusReport) error {
	switch c.Format {
	case cmd.FormatJSON:
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case cmd.FormatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		if len(report.Services) == 0 {
			fmt.Println("No services tracked.")
			return nil
		}
		for _, s := range report.Services {
			line := fmt.Sprintf("%-28s %s", s.Name, s.Status)
			if s.Latency != nil {
				line += fmt.Sprintf(" (%s)", *s.Latency)
			}
			if s.Detail != "" {
				line += fmt.Sprintf(" - %s", s.Detail)
			}
			fmt.Println(line)
		}
	}

	return nil
}
