// Package model defines shared data types for xctriage.
package model

// Severity is the coarse axis of an issue: error or warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category is the fine axis of an issue: the failure family it belongs to.
type Category string

const (
	CategoryScheme        Category = "scheme"
	CategorySigning       Category = "signing"
	CategoryProvisioning  Category = "provisioning"
	CategoryDependency    Category = "dependency"
	CategoryConfiguration Category = "configuration"
	CategorySDK           Category = "sdk"
	CategoryDestination   Category = "destination"
	CategoryGeneric       Category = "generic"
)

// Issue represents one classified diagnostic extracted from build output.
// Severity and Category are orthogonal axes: a dependency issue is still
// an error on the coarse axis. File/Line/Column are populated only when
// the matched line carried a path:line:column: prefix; Line is never set
// without File, and Column never without Line.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Title      string   `json:"title"`
	Detail     string   `json:"detail,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	RawLine    string   `json:"rawLine,omitempty"`
}

// Located reports whether the issue carries a source location.
func (i Issue) Located() bool {
	return i.File != "" && i.Line > 0
}

// Message returns the display text for the issue: the extracted detail
// when present, otherwise the title.
func (i Issue) Message() string {
	if i.Detail != "" {
		return i.Detail
	}
	return i.Title
}

// TestOutcome represents the reconciled result of one test invocation,
// possibly spanning multiple test frameworks in the same log.
type TestOutcome struct {
	Success       bool     `json:"success"`
	Output        string   `json:"output,omitempty"`
	ExecutedCount int      `json:"executedCount"`
	FailureCount  int      `json:"failureCount"`
	FailingTests  []string `json:"failingTests,omitempty"`
}

// BuildReport pairs parsed issues with caller-supplied display context.
// Succeeded reflects the tool's exit status as observed by the caller;
// parsing never declares success on its own, an empty issue list only
// means no failure pattern was recognized.
type BuildReport struct {
	Scheme        string  `json:"scheme,omitempty"`
	Platform      string  `json:"platform,omitempty"`
	Configuration string  `json:"configuration,omitempty"`
	Succeeded     bool    `json:"succeeded"`
	Issues        []Issue `json:"issues"`
	LogPath       string  `json:"logPath,omitempty"`
}

// ErrorCount returns the number of error-severity issues.
func (r BuildReport) ErrorCount() int {
	n := 0
	for _, iss := range r.Issues {
		if iss.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity issues.
func (r BuildReport) WarningCount() int {
	return len(r.Issues) - r.ErrorCount()
}

// FailureKind tags a Failure with the rendering strategy it needs.
// The tag is assigned once, where the failure originates, so formatters
// never probe shapes at render time.
type FailureKind string

const (
	// ValidationFailure covers rejected input: unreadable, oversized,
	// or empty log buffers.
	ValidationFailure FailureKind = "validation"
	// BuildFailure carries classified build issues.
	BuildFailure FailureKind = "build"
	// GenericFailure carries an error with no structured detail.
	GenericFailure FailureKind = "generic"
)

// Failure is the tagged union handed to the formatter. Exactly the
// fields implied by Kind are set: Issues for BuildFailure, Message and
// Action for ValidationFailure, Message alone for GenericFailure.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Action  string      `json:"action,omitempty"`
	Issues  []Issue     `json:"issues,omitempty"`
}
