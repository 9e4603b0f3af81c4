// Package testlog reconciles test-runner output into one outcome.
//
// The same toolchain emits two incompatible reporting vocabularies
// (XCTest and Swift Testing), sometimes both in one run when a package
// mixes test targets. Each vocabulary has its own parser; recognized
// counts are additive and overall success is the AND of every
// recognized suite or run outcome.
package testlog

import (
	"strings"

	"github.com/boyarskiy/xctriage/internal/logtext"
	"github.com/boyarskiy/xctriage/internal/model"
)

// frameworkParser recognizes one test-reporting vocabulary.
type frameworkParser interface {
	// Detect returns true if the buffer contains this vocabulary.
	Detect(buf string) bool
	// Parse extracts the outcome for this vocabulary alone.
	Parse(buf string) frameworkResult
}

type frameworkResult struct {
	success  bool
	executed int
	failures int
	failing  []string
}

var frameworks = []frameworkParser{xcTestParser{}, swiftTestingParser{}}

// buildFailureMarkers indicate the run died before any test executed.
var buildFailureMarkers = []string{
	"** BUILD FAILED **",
	"Build failed",
	"Testing cancelled because the build failed",
	"xcodebuild: error:",
}

// testMarkers indicate that some framework started reporting.
var testMarkers = []string{
	"Test Suite",
	"Test Case",
	"Test run with",
	"✗ Test",
	"✘ Test",
	"✔ Test",
}

// Parse reconciles a fully captured test log into a TestOutcome. The
// raw buffer is kept verbatim on the outcome for downstream debugging.
//
// Malformed or unrecognized content degrades to a failed outcome with
// zero counts rather than an error; callers fall back to Output for
// manual inspection. A build-phase failure preceding any test marker
// short-circuits the same way, deferring classification of the failure
// text to the build parser run separately by the caller.
func Parse(buf string) model.TestOutcome {
	cleaned := logtext.Clean(buf)
	out := model.TestOutcome{Output: buf}

	if buildFailedBeforeTests(cleaned) {
		return out
	}

	recognized := false
	success := true
	for _, f := range frameworks {
		if !f.Detect(cleaned) {
			continue
		}
		res := f.Parse(cleaned)
		recognized = true
		success = success && res.success
		out.ExecutedCount += res.executed
		out.FailureCount += res.failures
		out.FailingTests = append(out.FailingTests, res.failing...)
	}
	if !recognized {
		return out
	}
	out.Success = success && out.FailureCount == 0
	return out
}

// buildFailedBeforeTests reports whether a build-phase failure marker
// appears before the first test marker.
func buildFailedBeforeTests(buf string) bool {
	buildIdx := firstIndex(buf, buildFailureMarkers)
	if buildIdx < 0 {
		return false
	}
	testIdx := firstIndex(buf, testMarkers)
	return testIdx < 0 || buildIdx < testIdx
}

func firstIndex(buf string, markers []string) int {
	first := -1
	for _, m := range markers {
		if idx := strings.Index(buf, m); idx >= 0 && (first < 0 || idx < first) {
			first = idx
		}
	}
	return first
}
