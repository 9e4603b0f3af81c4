package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boyarskiy/xctriage/internal/buildlog"
	"github.com/boyarskiy/xctriage/internal/logging"
	"github.com/boyarskiy/xctriage/internal/model"
	"github.com/boyarskiy/xctriage/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build [logfile]",
	Short: "Classify a captured xcodebuild log",
	Long: `Reads an xcodebuild log (file or stdin) and reports classified,
deduplicated issues. Whether the build succeeded is taken from the
caller via --succeeded, never inferred from the absence of recognized
failure patterns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("scheme", "", "scheme name, shown in the report header")
	buildCmd.Flags().String("platform", "", "platform, shown in the report header")
	buildCmd.Flags().String("configuration", "", "build configuration, shown in the report header")
	buildCmd.Flags().Bool("succeeded", false, "the tool exited successfully (exit-code authority)")
	buildCmd.Flags().String("log-path", "", "path where the raw log was saved, echoed in the report")
	buildCmd.Flags().Bool("json", false, "print the report as JSON")
	buildCmd.Flags().String("json-out", "", "also write a JSON report to this file")
	buildCmd.Flags().String("markdown-out", "", "also write a Markdown report to this file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	buf, err := readLog(args)
	if err != nil {
		return err
	}

	issues := buildlog.Dedup(buildlog.Parse(buf))
	logging.Logger().Debug("parsed build log", "bytes", len(buf), "issues", len(issues))

	succeeded, _ := cmd.Flags().GetBool("succeeded")
	scheme, _ := cmd.Flags().GetString("scheme")
	platform, _ := cmd.Flags().GetString("platform")
	configuration, _ := cmd.Flags().GetString("configuration")
	logPath, _ := cmd.Flags().GetString("log-path")

	rpt := model.BuildReport{
		Scheme:        scheme,
		Platform:      platform,
		Configuration: configuration,
		Succeeded:     succeeded,
		Issues:        issues,
		LogPath:       logPath,
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := report.MarshalJSON(rpt)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			if err := report.RenderBuild(os.Stdout, rpt, renderOptions(cmd)); err != nil {
				return err
			}
		}
	}

	if jsonPath, _ := cmd.Flags().GetString("json-out"); jsonPath != "" {
		if err := report.WriteJSON(jsonPath, rpt); err != nil {
			return err
		}
	}

	if mdPath, _ := cmd.Flags().GetString("markdown-out"); mdPath != "" {
		if err := report.WriteMarkdown(mdPath, rpt); err != nil {
			return err
		}
	}

	if !succeeded {
		exitCode = exitFailureFound
	}
	return nil
}
