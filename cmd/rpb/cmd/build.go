package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/internal/builder"
	"github.com/reportobello/rpb/internal/config"
	"github.com/reportobello/rpb/internal/typst"
)

var (
	buildRemote  bool
	buildData    string
	buildEnvArgs []string
)

var buildCmd = &cobra.Command{
	Use:   "build <template>",
	Short: "Build a PDF from a template",
	Long: `Build a PDF. By default the argument is a local source file compiled
with typst. With --remote the argument is a template name and the build runs
server-side with JSON input data (--data file, - for stdin, default data.json).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		if buildRemote {
			c, err := newClient()
			if err != nil {
				return err
			}
			b := &builder.Builder{Client: c}
			result, err := b.Build(ctx, builder.Request{
				Remote:   true,
				Template: args[0],
				DataPath: buildData,
				Stdin:    os.Stdin,
			})
			if err != nil {
				return err
			}

			output := args[0] + ".pdf"
			fmt.Printf("Saving PDF to %s\n", output)
			return result.PDF.SaveTo(ctx, output)
		}

		compiler, err := localCompiler(buildEnvArgs)
		if err != nil {
			return err
		}
		b := &builder.Builder{Compile: compiler.Compile}
		result, err := b.Build(ctx, builder.Request{Template: args[0]})
		if err != nil {
			return err
		}

		fmt.Printf("Saving PDF to %s\n", result.OutputFile)
		return nil
	},
}

// localCompiler assembles the compile inputs from the .env base layer with
// explicit KEY=VALUE overrides on top, later layers winning.
func localCompiler(envArgs []string) (*typst.Compiler, error) {
	envFile, err := config.ReadEnvFile(config.DefaultEnvFile)
	if err != nil {
		return nil, err
	}
	overrides, err := config.ParseEnvArgs(envArgs)
	if err != nil {
		return nil, err
	}
	return &typst.Compiler{Inputs: config.MergeEnv(envFile, overrides)}, nil
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&buildRemote, "remote", false, "Build on the server instead of locally")
	buildCmd.Flags().StringVar(&buildData, "data", "", "JSON input data for a remote build (file path, or - for stdin)")
	buildCmd.Flags().StringArrayVar(&buildEnvArgs, "env", nil, "Pass an environment variable to the template (KEY=VALUE)")
}
