package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mouse-blink/remix/internal/domain"
	m "github.com/mouse-blink/remix/internal/model"
)

var buildParallelFlag int
var buildAppNameFlag string
var buildAppVersionFlag string

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Build a variant bundle",
		Long:  buildLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			configureLogger("", viper.GetBool(logVerboseKey))

			source := "."
			if len(args) == 1 {
				source = args[0]
			}

			return pipeline.Build(context.Background(), domain.BuildArgs{
				Source:  m.Path(source),
				Output:  m.Path(viper.GetString(outputFlagName)),
				Threads: viper.GetInt(parallelConfigKey),
				Overrides: domain.ManifestOverrides{
					Name:    buildAppNameFlag,
					Version: buildAppVersionFlag,
				},
			})
		},
	}

	configureBuildFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func configureBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&buildParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers for file processing")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().StringVar(&buildAppNameFlag, appNameFlagName, "", "override the descriptor name field")
	cmd.Flags().StringVar(&buildAppVersionFlag, appVersionFlagName, "", "override the descriptor version field")
}
