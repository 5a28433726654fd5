package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <template> <file>...",
	Short: "Attach auxiliary files to a template",
	Long: `Attach auxiliary files (images, fonts, data) to a template so they
are available during server-side builds.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		files := args[1:]
		if err := c.UploadDataFiles(ctx, args[0], files...); err != nil {
			return err
		}

		fmt.Printf("Attached %d file(s) to `%s`\n", len(files), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
