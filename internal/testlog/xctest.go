package testlog

import (
	"regexp"
	"strconv"
	"strings"
)

// XCTest vocabulary. Suites nest, and the final aggregate suite repeats
// the totals, so the last "Executed" summary sets the counts rather
// than every occurrence adding up.
var (
	xcSuitePattern = regexp.MustCompile(`Test Suite '([^']+)' (passed|failed)`)

	// Executed 10 tests, with 1 failure (0 unexpected) in 0.123 seconds
	xcExecutedPattern = regexp.MustCompile(`Executed (\d+) tests?(?:, with (\d+) failures?)?`)

	// Test Case '-[ModuleTests.SuiteTests testFoo]' failed (0.001 seconds).
	xcFailedCasePattern = regexp.MustCompile(`Test Case '-\[(\S+) (\w+)\]' failed`)
)

// xcTestParser parses the legacy XCTest reporting format.
type xcTestParser struct{}

func (xcTestParser) Detect(buf string) bool {
	return strings.Contains(buf, "Test Suite") || strings.Contains(buf, "Test Case '-[")
}

func (xcTestParser) Parse(buf string) frameworkResult {
	res := frameworkResult{success: true}

	// A suite that only reported "started" never stated an outcome;
	// without at least one outcome or summary line the log is
	// truncated and must not read as a pass.
	sawOutcome := false

	suites := xcSuitePattern.FindAllStringSubmatch(buf, -1)
	for _, m := range suites {
		sawOutcome = true
		if m[2] == "failed" {
			res.success = false
		}
	}

	if executed := xcExecutedPattern.FindAllStringSubmatch(buf, -1); len(executed) > 0 {
		sawOutcome = true
		last := executed[len(executed)-1]
		res.executed, _ = strconv.Atoi(last[1])
		if last[2] != "" {
			res.failures, _ = strconv.Atoi(last[2])
		}
	}

	if !sawOutcome {
		res.success = false
	}

	seen := make(map[string]bool)
	for _, m := range xcFailedCasePattern.FindAllStringSubmatch(buf, -1) {
		name := m[2]
		if seen[name] {
			continue
		}
		seen[name] = true
		res.failing = append(res.failing, name)
	}

	if res.failures > 0 || len(res.failing) > 0 {
		res.success = false
	}
	return res
}
