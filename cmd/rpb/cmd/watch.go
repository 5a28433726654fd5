package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reportobello/rpb/internal/builder"
	"github.com/reportobello/rpb/internal/watch"
)

var (
	watchEnvArgs  []string
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <template>",
	Short: "Rebuild a local template whenever it changes",
	Long: `Watch a local template source file and recompile it on every save.
A compile failure is reported and watching continues; interrupt to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		compiler, err := localCompiler(watchEnvArgs)
		if err != nil {
			return err
		}
		b := &builder.Builder{Compile: compiler.Compile}
		output := builder.OutputPath(args[0])

		watcher := &watch.Watcher{
			File:     args[0],
			Interval: watchInterval,
			Log:      logrus.New(),
			Rebuild: func(ctx context.Context) error {
				fmt.Printf("Saving PDF to %s\n", output)
				_, err := b.Build(ctx, builder.Request{Template: args[0]})
				return err
			},
		}

		ctx, cancel := commandContext()
		defer cancel()

		err = watcher.Run(ctx)
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nExiting...")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringArrayVar(&watchEnvArgs, "env", nil, "Pass an environment variable to the template (KEY=VALUE)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultInterval, "Poll interval for file changes")
}
