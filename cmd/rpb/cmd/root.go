package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/internal/config"
	"github.com/reportobello/rpb/pkg/client"
)

var (
	host    string
	apiKey  string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "rpb",
	Short: "Reportobello CLI - Manage report templates from the command line",
	Long: `Reportobello CLI (rpb) is a command-line tool for the Reportobello
report-generation service.

It uploads and versions document templates, builds PDFs locally or on the
server, rebuilds on file changes, and manages account environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Reportobello host (default $REPORTOBELLO_HOST or "+client.DefaultHost+")")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Reportobello API key (default $REPORTOBELLO_API_KEY)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")
}

// newClient resolves configuration and builds the API client for one command.
func newClient() (*client.Client, error) {
	cfg, err := config.Load(config.Overrides{Host: host, APIKey: apiKey, Timeout: timeout})
	if err != nil {
		return nil, err
	}
	c := client.NewClient(cfg.Host, cfg.APIKey)
	c.SetTimeout(cfg.Timeout)
	return c, nil
}

// commandContext is cancelled by process interrupt so in-flight calls and
// loops unwind cleanly.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
