package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boyarskiy/xctriage/internal/model"
)

func plainOpts() Options {
	return Options{Color: false}
}

func errIssue(msg string) model.Issue {
	return model.Issue{Severity: model.SeverityError, Category: model.CategoryGeneric, Title: msg}
}

func warnIssue(msg string) model.Issue {
	return model.Issue{Severity: model.SeverityWarning, Category: model.CategoryGeneric, Title: msg}
}

func TestRenderIssues_ErrorsBeforeWarnings(t *testing.T) {
	issues := []model.Issue{
		warnIssue("warn one"),
		errIssue("err one"),
		warnIssue("warn two"),
		errIssue("err two"),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderIssues(&buf, issues, plainOpts()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"err one", "err two", "warn one", "warn two"}, lines)
}

func TestRenderIssues_TruncatesErrorsAtFifty(t *testing.T) {
	var issues []model.Issue
	for i := 0; i < 55; i++ {
		issues = append(issues, errIssue(fmt.Sprintf("error number %d", i)))
	}

	var buf bytes.Buffer
	require.NoError(t, RenderIssues(&buf, issues, plainOpts()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 51)
	assert.Equal(t, "error number 49", lines[49])
	assert.Equal(t, "... and 5 more errors", lines[50])
}

func TestRenderIssues_TruncatesWarningsAtTwenty(t *testing.T) {
	var issues []model.Issue
	for i := 0; i < 25; i++ {
		issues = append(issues, warnIssue(fmt.Sprintf("warning number %d", i)))
	}

	var buf bytes.Buffer
	require.NoError(t, RenderIssues(&buf, issues, plainOpts()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "... and 5 more warnings", lines[20])
}

func TestRenderIssues_LocationAndSuggestion(t *testing.T) {
	issues := []model.Issue{
		{
			Severity:   model.SeverityError,
			Category:   model.CategoryDependency,
			Title:      "Missing module 'Alamofire'",
			Detail:     "no such module 'Alamofire'",
			Suggestion: "Add the package to the project dependencies.",
			File:       "/Users/dev/App/App.swift",
			Line:       1,
			Column:     8,
		},
		{
			Severity: model.SeverityError,
			Category: model.CategoryGeneric,
			Title:    "unlocated failure",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderIssues(&buf, issues, plainOpts()))

	out := buf.String()
	assert.Contains(t, out, "/Users/dev/App/App.swift:1:8: no such module 'Alamofire'")
	assert.Contains(t, out, "suggestion: Add the package")
	assert.Contains(t, out, "unlocated failure")
}

func TestRenderIssues_LineWithoutColumn(t *testing.T) {
	issues := []model.Issue{
		{Severity: model.SeverityError, Title: "boom", File: "a.swift", Line: 7},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderIssues(&buf, issues, plainOpts()))
	assert.Equal(t, "a.swift:7: boom\n", buf.String())
}

func TestRenderBuild_FailedWithContext(t *testing.T) {
	rpt := model.BuildReport{
		Scheme:        "App",
		Platform:      "iOS Simulator",
		Configuration: "Debug",
		Succeeded:     false,
		Issues:        []model.Issue{errIssue("boom")},
		LogPath:       "/tmp/xctriage/build.log",
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBuild(&buf, rpt, plainOpts()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "** BUILD FAILED **\n"))
	assert.Contains(t, out, "Scheme:        App")
	assert.Contains(t, out, "Platform:      iOS Simulator")
	assert.Contains(t, out, "Configuration: Debug")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "logs saved to: /tmp/xctriage/build.log")
}

func TestRenderBuild_FailedWithoutRecognizedIssues(t *testing.T) {
	rpt := model.BuildReport{Succeeded: false}

	var buf bytes.Buffer
	require.NoError(t, RenderBuild(&buf, rpt, plainOpts()))
	assert.Contains(t, buf.String(), "No recognized failure detail")
}

func TestRenderBuild_Succeeded(t *testing.T) {
	rpt := model.BuildReport{Succeeded: true}

	var buf bytes.Buffer
	require.NoError(t, RenderBuild(&buf, rpt, plainOpts()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "** BUILD SUCCEEDED **\n"))
	assert.NotContains(t, out, "No recognized failure detail")
}

func TestRenderTestOutcome_Summary(t *testing.T) {
	outcome := model.TestOutcome{
		Success:       false,
		ExecutedCount: 10,
		FailureCount:  2,
		FailingTests:  []string{"testFoo", "broken()"},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderTestOutcome(&buf, outcome, plainOpts()))

	out := buf.String()
	assert.Contains(t, out, "8 passed, 2 failed")
	assert.Contains(t, out, "Failing tests:")
	assert.Contains(t, out, "- testFoo")
	assert.Contains(t, out, "- broken()")
}

func TestRenderTestOutcome_AllPassed(t *testing.T) {
	outcome := model.TestOutcome{Success: true, ExecutedCount: 5}

	var buf bytes.Buffer
	require.NoError(t, RenderTestOutcome(&buf, outcome, plainOpts()))

	assert.Equal(t, "5 passed, 0 failed\n", buf.String())
}

func TestRenderFailure_DispatchesOnKind(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderFailure(&buf, model.Failure{
		Kind:    model.ValidationFailure,
		Message: "log is empty",
		Action:  "Capture combined stdout and stderr.",
	}, plainOpts()))
	assert.Contains(t, buf.String(), "Invalid input: log is empty")
	assert.Contains(t, buf.String(), "Capture combined stdout")

	buf.Reset()
	require.NoError(t, RenderFailure(&buf, model.Failure{
		Kind:   model.BuildFailure,
		Issues: []model.Issue{errIssue("boom")},
	}, plainOpts()))
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	require.NoError(t, RenderFailure(&buf, model.Failure{
		Kind:    model.GenericFailure,
		Message: "something broke",
	}, plainOpts()))
	assert.Contains(t, buf.String(), "something broke")
}

func TestRenderMarkdown_SectionsAndTruncation(t *testing.T) {
	var issues []model.Issue
	for i := 0; i < 55; i++ {
		issues = append(issues, errIssue(fmt.Sprintf("error number %d", i)))
	}
	issues = append(issues, warnIssue("lone warning"))

	rpt := model.BuildReport{
		Scheme:    "App",
		Succeeded: false,
		Issues:    issues,
		LogPath:   "/tmp/build.log",
	}

	out := RenderMarkdown(rpt)
	assert.Contains(t, out, "# Build Failed")
	assert.Contains(t, out, "| Scheme | App |")
	assert.Contains(t, out, "| Errors | 55 |")
	assert.Contains(t, out, "| Warnings | 1 |")
	assert.Contains(t, out, "... and 5 more errors")
	assert.Contains(t, out, "lone warning")
	assert.Contains(t, out, "logs saved to: `/tmp/build.log`")

	errSection := strings.Index(out, "## Errors")
	warnSection := strings.Index(out, "## Warnings")
	require.GreaterOrEqual(t, errSection, 0)
	require.Greater(t, warnSection, errSection)
}

func TestRenderMarkdown_EscapesTableBreakers(t *testing.T) {
	rpt := model.BuildReport{
		Succeeded: false,
		Issues:    []model.Issue{errIssue("a | b")},
	}

	assert.Contains(t, RenderMarkdown(rpt), `a \| b`)
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.json")

	rpt := model.BuildReport{
		Scheme:    "App",
		Succeeded: false,
		Issues:    []model.Issue{errIssue("boom")},
	}
	require.NoError(t, WriteJSON(path, rpt))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded model.BuildReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "App", decoded.Scheme)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "boom", decoded.Issues[0].Title)
}

func TestWriteMarkdown_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	require.NoError(t, WriteMarkdown(path, model.BuildReport{Succeeded: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Build Succeeded")
}
