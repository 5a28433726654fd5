package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull <template> [file]",
	Short: "Download the latest version of a template",
	Long: `Download the latest version of a template. The output file defaults
to the template name with a .typ extension.`,
	Args: cobra.RangeArgs(1, 2),
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
		latest := versions[0]

		filename := latest.Name + ".typ"
		if len(args) == 2 {
			filename = args[1]
		}
		if err := os.WriteFile(filename, []byte(latest.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}

		fmt.Printf("Downloaded template `%s` v%d successfully!\n", latest.Name, latest.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
