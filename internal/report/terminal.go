// Package report renders parsed issues and outcomes for display.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/wordwrap"

	"github.com/boyarskiy/xctriage/internal/model"
)

// Truncation limits per severity. Beyond these a single summary line
// reports how many issues were omitted.
const (
	maxRenderedErrors   = 50
	maxRenderedWarnings = 20
)

// Options holds configuration for terminal output.
type Options struct {
	Color bool
	Width int // wrap width for suggestion text, 0 disables wrapping
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.Faint)
)

func paint(opts Options, c *color.Color, s string) string {
	if !opts.Color {
		return s
	}
	return c.Sprint(s)
}

// RenderIssues writes the issue block: every error before any warning,
// each severity truncated independently. It is a pure projection of
// the already-classified issues and never re-derives anything.
func RenderIssues(w io.Writer, issues []model.Issue, opts Options) error {
	var errs, warns []model.Issue
	for _, iss := range issues {
		if iss.Severity == model.SeverityWarning {
			warns = append(warns, iss)
		} else {
			errs = append(errs, iss)
		}
	}

	if err := renderSeverity(w, errs, maxRenderedErrors, "errors", errorColor, opts); err != nil {
		return err
	}
	return renderSeverity(w, warns, maxRenderedWarnings, "warnings", warningColor, opts)
}

func renderSeverity(w io.Writer, issues []model.Issue, limit int, noun string, c *color.Color, opts Options) error {
	shown := len(issues)
	if shown > limit {
		shown = limit
	}
	for _, iss := range issues[:shown] {
		if _, err := fmt.Fprintln(w, paint(opts, c, issueLine(iss))); err != nil {
			return err
		}
		if iss.Suggestion != "" {
			suggestion := "  suggestion: " + iss.Suggestion
			if opts.Width > 0 {
				suggestion = wordwrap.String(suggestion, opts.Width)
			}
			if _, err := fmt.Fprintln(w, paint(opts, dimColor, suggestion)); err != nil {
				return err
			}
		}
	}
	if len(issues) > limit {
		if _, err := fmt.Fprintf(w, "... and %d more %s\n", len(issues)-limit, noun); err != nil {
			return err
		}
	}
	return nil
}

// issueLine renders one issue as file:line[:column]: message when the
// location is known, otherwise the message alone.
func issueLine(iss model.Issue) string {
	if !iss.Located() {
		return iss.Message()
	}
	var sb strings.Builder
	sb.WriteString(iss.File)
	sb.WriteString(fmt.Sprintf(":%d", iss.Line))
	if iss.Column > 0 {
		sb.WriteString(fmt.Sprintf(":%d", iss.Column))
	}
	sb.WriteString(": ")
	sb.WriteString(iss.Message())
	return sb.String()
}

// RenderBuild writes the full build block: result marker, the context
// the caller supplied, the issue block, and the caller-provided log
// location when present.
func RenderBuild(w io.Writer, rpt model.BuildReport, opts Options) error {
	if rpt.Succeeded {
		fmt.Fprintln(w, paint(opts, successColor, "** BUILD SUCCEEDED **"))
	} else {
		fmt.Fprintln(w, paint(opts, errorColor, "** BUILD FAILED **"))
	}

	if rpt.Scheme != "" {
		fmt.Fprintf(w, "Scheme:        %s\n", rpt.Scheme)
	}
	if rpt.Platform != "" {
		fmt.Fprintf(w, "Platform:      %s\n", rpt.Platform)
	}
	if rpt.Configuration != "" {
		fmt.Fprintf(w, "Configuration: %s\n", rpt.Configuration)
	}

	if len(rpt.Issues) > 0 {
		fmt.Fprintln(w)
		if err := RenderIssues(w, rpt.Issues, opts); err != nil {
			return err
		}
	} else if !rpt.Succeeded {
		// Absence of recognized markers is not proof of anything.
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No recognized failure detail; inspect the full log.")
	}

	if rpt.LogPath != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "logs saved to: %s\n", rpt.LogPath)
	}
	return nil
}

// RenderTestOutcome writes the test summary line and, when per-test
// detail exists, the failing identifiers.
func RenderTestOutcome(w io.Writer, outcome model.TestOutcome, opts Options) error {
	passed := outcome.ExecutedCount - outcome.FailureCount
	if passed < 0 {
		passed = 0
	}
	summary := fmt.Sprintf("%d passed, %d failed", passed, outcome.FailureCount)
	if outcome.Success {
		fmt.Fprintln(w, paint(opts, successColor, summary))
	} else {
		fmt.Fprintln(w, paint(opts, errorColor, summary))
	}

	if len(outcome.FailingTests) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failing tests:")
		for _, name := range outcome.FailingTests {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}
	return nil
}

// RenderFailure dispatches on the failure tag assigned where the
// failure originated; no shape probing happens here.
func RenderFailure(w io.Writer, f model.Failure, opts Options) error {
	switch f.Kind {
	case model.ValidationFailure:
		fmt.Fprintln(w, paint(opts, errorColor, "Invalid input: "+f.Message))
		if f.Action != "" {
			fmt.Fprintln(w, paint(opts, dimColor, "  "+f.Action))
		}
		return nil
	case model.BuildFailure:
		return RenderIssues(w, f.Issues, opts)
	default:
		fmt.Fprintln(w, paint(opts, errorColor, f.Message))
		return nil
	}
}
