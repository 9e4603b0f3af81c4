// Package main is the entry point for the xctriage CLI.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/boyarskiy/xctriage/internal/logging"
	"github.com/boyarskiy/xctriage/internal/report"
)

const (
	exitSuccess      = 0
	exitFailureFound = 1
	exitToolError    = 2
)

// exitCode is set by subcommands when a build or test failure was
// detected; tool errors surface through RunE instead.
var exitCode = exitSuccess

var rootCmd = &cobra.Command{
	Use:   "xctriage",
	Short: "Triage xcodebuild and swift test logs",
	Long: `xctriage reads a captured xcodebuild or test log and turns it into
classified issues and test outcomes.

The log is expected to be the combined stdout/stderr of a finished
invocation; xctriage never runs the toolchain itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debugLog, _ := cmd.Flags().GetString("debug-log")
		return logging.Init(debugLog)
	},
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(testCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("debug-log", "", "write debug logs to this file")

	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		renderToolError(err)
		os.Exit(exitToolError)
	}
	os.Exit(exitCode)
}

// renderOptions resolves the persistent display flags.
func renderOptions(cmd *cobra.Command) report.Options {
	mode, _ := cmd.Flags().GetString("color")
	opts := report.Options{Width: 100}
	switch mode {
	case "on":
		opts.Color = true
	case "off":
		opts.Color = false
	default:
		opts.Color = !color.NoColor
	}
	return opts
}
