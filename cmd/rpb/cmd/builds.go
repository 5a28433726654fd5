package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var buildsBefore string

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

var buildsCmd = &cobra.Command{
	Use:   "builds <template>",
	Short: "Show the recent build history of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var before *time.Time
		if buildsBefore != "" {
			t, err := time.Parse(time.RFC3339, buildsBefore)
			if err != nil {
				return fmt.Errorf("invalid --before timestamp %q: %w", buildsBefore, err)
			}
			before = &t
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		reports, err := c.GetRecentBuilds(ctx, args[0], before)
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Println("No builds found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tVERSION\tSTATUS\tFILE")
		for _, r := range reports {
			status := successStyle.Render("ok")
			if !r.WasSuccessful() {
				status = failureStyle.Render("failed: " + r.ErrorMessage)
			}
			fmt.Fprintf(w, "%s\tv%d\t%s\t%s\n",
				r.StartedAt.Format(time.RFC3339), r.ActualVersion, status, r.Filename)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildsCmd)

	buildsCmd.Flags().StringVar(&buildsBefore, "before", "", "Only show builds started before this RFC 3339 timestamp")
}
