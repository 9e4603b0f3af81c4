package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boyarskiy/xctriage/internal/buildlog"
	"github.com/boyarskiy/xctriage/internal/logging"
	"github.com/boyarskiy/xctriage/internal/report"
	"github.com/boyarskiy/xctriage/internal/testlog"
)

var testCmd = &cobra.Command{
	Use:   "test [logfile]",
	Short: "Summarize a captured test log",
	Long: `Reads a test log (file or stdin) and reports the reconciled outcome
across XCTest and Swift Testing output. When the build failed before
any test ran, the build issues are classified and shown instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTest,
}

func init() {
	testCmd.Flags().Bool("json", false, "print the outcome as JSON")
}

func runTest(cmd *cobra.Command, args []string) error {
	buf, err := readLog(args)
	if err != nil {
		return err
	}

	outcome := testlog.Parse(buf)
	logging.Logger().Debug("parsed test log",
		"bytes", len(buf),
		"executed", outcome.ExecutedCount,
		"failures", outcome.FailureCount)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := report.MarshalJSON(outcome)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		opts := renderOptions(cmd)
		if err := report.RenderTestOutcome(os.Stdout, outcome, opts); err != nil {
			return err
		}
		// A failed outcome with zero executed tests usually means the
		// build broke first; surface the classified build issues.
		if !outcome.Success && outcome.ExecutedCount == 0 {
			if issues := buildlog.Dedup(buildlog.Parse(buf)); len(issues) > 0 {
				fmt.Fprintln(os.Stdout)
				if err := report.RenderIssues(os.Stdout, issues, opts); err != nil {
					return err
				}
			}
		}
	}

	if !outcome.Success {
		exitCode = exitFailureFound
	}
	return nil
}
