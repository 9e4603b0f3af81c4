package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/boyarskiy/xctriage/internal/model"
)

// WriteMarkdown writes the build report as Markdown to the given path.
func WriteMarkdown(path string, rpt model.BuildReport) error {
	content := RenderMarkdown(rpt)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown renders the build report as a Markdown string. The
// same ordering and truncation policy as the terminal renderer applies.
func RenderMarkdown(rpt model.BuildReport) string {
	var sb strings.Builder

	if rpt.Succeeded {
		sb.WriteString("# Build Succeeded\n\n")
	} else {
		sb.WriteString("# Build Failed\n\n")
	}

	sb.WriteString("| Context | Value |\n")
	sb.WriteString("|---------|-------|\n")
	if rpt.Scheme != "" {
		sb.WriteString(fmt.Sprintf("| Scheme | %s |\n", escapeMarkdown(rpt.Scheme)))
	}
	if rpt.Platform != "" {
		sb.WriteString(fmt.Sprintf("| Platform | %s |\n", escapeMarkdown(rpt.Platform)))
	}
	if rpt.Configuration != "" {
		sb.WriteString(fmt.Sprintf("| Configuration | %s |\n", escapeMarkdown(rpt.Configuration)))
	}
	sb.WriteString(fmt.Sprintf("| Errors | %d |\n", rpt.ErrorCount()))
	sb.WriteString(fmt.Sprintf("| Warnings | %d |\n", rpt.WarningCount()))
	sb.WriteString("\n")

	var errs, warns []model.Issue
	for _, iss := range rpt.Issues {
		if iss.Severity == model.SeverityWarning {
			warns = append(warns, iss)
		} else {
			errs = append(errs, iss)
		}
	}

	writeIssueSection(&sb, "Errors", errs, maxRenderedErrors)
	writeIssueSection(&sb, "Warnings", warns, maxRenderedWarnings)

	if rpt.LogPath != "" {
		sb.WriteString(fmt.Sprintf("logs saved to: `%s`\n", rpt.LogPath))
	}
	return sb.String()
}

func writeIssueSection(sb *strings.Builder, heading string, issues []model.Issue, limit int) {
	if len(issues) == 0 {
		return
	}
	sb.WriteString("## " + heading + "\n\n")
	sb.WriteString("| Location | Category | Message |\n")
	sb.WriteString("|----------|----------|---------|\n")

	shown := len(issues)
	if shown > limit {
		shown = limit
	}
	for _, iss := range issues[:shown] {
		location := "-"
		if iss.Located() {
			location = fmt.Sprintf("%s:%d", iss.File, iss.Line)
			if iss.Column > 0 {
				location = fmt.Sprintf("%s:%d", location, iss.Column)
			}
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			escapeMarkdown(location), iss.Category, escapeMarkdown(iss.Message())))
	}
	if len(issues) > limit {
		sb.WriteString(fmt.Sprintf("\n... and %d more %s\n", len(issues)-limit, strings.ToLower(heading)))
	}
	sb.WriteString("\n")
}

// escapeMarkdown escapes characters that break Markdown tables.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
