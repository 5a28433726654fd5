package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/pkg/types"
)

var (
	lsAll    bool
	lsFormat string
)

var lsCmd = &cobra.Command{
	Use:   "ls [template]",
	Short: "List templates, or every version of one template",
	Long: `List the latest version of every template, or all versions of one
template (newest first).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		var templates []types.Template
		if len(args) == 1 {
			templates, err = c.GetTemplateVersions(ctx, args[0])
		} else {
			templates, err = c.GetTemplates(ctx)
		}
		if err != nil {
			return err
		}

		if lsFormat == "json" {
			rows := make([]map[string]any, 0, len(templates))
			for _, t := range templates {
				row := map[string]any{"name": t.Name, "version": t.Version}
				if lsAll {
					row["content"] = t.Content
				}
				rows = append(rows, row)
			}
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if lsAll {
			fmt.Fprintln(w, "NAME\tVERSION\tTEMPLATE")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%d\t%s\n", t.Name, t.Version, strconv.Quote(t.Content))
			}
		} else {
			fmt.Fprintln(w, "NAME\tVERSION")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Version)
			}
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVarP(&lsAll, "all", "a", false, "Show template contents as well")
	lsCmd.Flags().StringVar(&lsFormat, "format", "pretty", "Output format: pretty or json")
}
