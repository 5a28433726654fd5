package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/pkg/types"
)

var pushCmd = &cobra.Command{
	Use:   "push <file> [template]",
	Short: "Upload a template",
	Long: `Upload a template source file, creating a new version. The template
name defaults to the filename without its extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		if name == "" {
			base := filepath.Base(file)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		template := types.NewTemplate(name)
		template.File = file
		uploaded, err := c.CreateOrUpdateTemplate(ctx, template)
		if err != nil {
			return err
		}

		fmt.Printf("Uploaded template `%s` v%d successfully!\n", uploaded.Name, uploaded.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
