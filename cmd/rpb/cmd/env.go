package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage account environment variables",
	Long: `List, set, and remove the key/value environment variables stored with
your Reportobello account. These are injected into server-side builds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		vars, err := c.GetEnvVars(ctx)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\n", k, vars[k])
		}
		w.Flush()

		return nil
	},
}

var envSetCmd = &cobra.Command{
	Use:   "set KEY=VALUE...",
	Short: "Set account environment variables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := config.ParseEnvArgs(args)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if err := c.UpdateEnvVars(ctx, vars); err != nil {
			return err
		}

		fmt.Printf("Set %d env var(s)\n", len(vars))
		return nil
	},
}

var envRmCmd = &cobra.Command{
	Use:   "rm KEY...",
	Short: "Remove account environment variables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if err := c.DeleteEnvVars(ctx, args); err != nil {
			return err
		}

		fmt.Printf("Removed %d env var(s)\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)

	envCmd.AddCommand(envSetCmd)
	envCmd.AddCommand(envRmCmd)
}
