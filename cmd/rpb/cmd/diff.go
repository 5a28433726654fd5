package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/internal/diff"
)

var diffVersionFlag int

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

var diffCmd = &cobra.Command{
	Use:   "diff <template>",
	Short: "Show changes between a template version and its predecessor",
	Long: `Show a unified diff between a template version and the version before
it. Defaults to the latest version; pick another with --version.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		versions, err := c.GetTemplateVersions(ctx, args[0])
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			return fmt.Errorf("template %q has no versions", args[0])
		}

		index := 0
		if diffVersionFlag > 0 {
			index = -1
			for i, v := range versions {
				if v.Version == diffVersionFlag {
					index = i
					break
				}
			}
			if index < 0 {
				return fmt.Errorf("template %q has no version %d", args[0], diffVersionFlag)
			}
		}
		if index+1 >= len(versions) {
			fmt.Println("(no previous version)")
			return nil
		}

		current, previous := versions[index], versions[index+1]
		lines, err := diff.Compute(
			current.Content, previous.Content,
			fmt.Sprintf("v%d", current.Version), fmt.Sprintf("v%d", previous.Version),
		)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("(no diff)")
			return nil
		}

		for _, line := range lines {
			switch line.Kind {
			case diff.Added:
				fmt.Println(addedStyle.Render(line.Text))
			case diff.Removed:
				fmt.Println(removedStyle.Render(line.Text))
			case diff.Hunk:
				fmt.Println(hunkStyle.Render(line.Text))
			default:
				fmt.Println(line.Text)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().IntVar(&diffVersionFlag, "version", 0, "Diff this version against its predecessor (default latest)")
}
