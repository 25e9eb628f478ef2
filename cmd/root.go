// Package cmd provides the root command and CLI setup for remix.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mouse-blink/remix/internal/adapter"
	"github.com/mouse-blink/remix/internal/controller"
	"github.com/mouse-blink/remix/internal/domain"
)

var fsAdapter adapter.BundleFSAdapter
var transformerAdapter adapter.ScriptTransformer
var ui controller.UI
var pipeline domain.Pipeline

// outputDirFlag is a root-level flag shared by commands that write bundles.
var outputDirFlag string

// verboseFlag raises the log level to debug when set.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	fsAdapter = adapter.NewLocalBundleFSAdapter()
	transformerAdapter = adapter.NewLocalObfuscatorAdapter(viper.GetString(engineConfigKey))
	pipeline = domain.NewPipeline(fsAdapter, transformerAdapter, ui)
}

const rootLongDescription = `Remix prepares a distributable variant of an application bundle. Every
build samples a fresh transformation recipe for its scripts and re-stamps
the bundled native modules, so no two builds share a content digest while
runtime behavior stays identical.`

const buildLongDescription = `Build a variant bundle from the given source directory (default: current
directory). Scripts are rewritten with the run's shared recipe, native
modules are re-stamped, and everything else is copied verbatim.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remix",
		Short: "Variant bundle builder",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for the variant bundle",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
