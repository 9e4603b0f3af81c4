package testlog

import (
	"regexp"
	"strconv"
)

// Swift Testing vocabulary. The ✗ glyph appears both on per-test
// failure lines and on the run summary; only lines with the "() failed"
// suffix count as per-test failures, so a failing run is never
// double-counted.
var (
	// ✔ Test run with 5 tests passed after 0.003 seconds.
	// ✗ Test run with 3 test(s) failed after 0.012 seconds.
	stRunPattern = regexp.MustCompile(`Test run with (\d+) test(?:\(s\)|s)? (passed|failed)`)

	// ✗ Test example() failed after 0.001 seconds with 1 issue.
	stFailedTestPattern = regexp.MustCompile(`[✗✘]\s+Test\s+(\S+?)\(\)\s+failed`)
)

// swiftTestingParser parses the modern Swift Testing reporting format.
type swiftTestingParser struct{}

func (swiftTestingParser) Detect(buf string) bool {
	return stRunPattern.MatchString(buf) || stFailedTestPattern.MatchString(buf)
}

func (swiftTestingParser) Parse(buf string) frameworkResult {
	res := frameworkResult{success: true}

	for _, m := range stRunPattern.FindAllStringSubmatch(buf, -1) {
		n, _ := strconv.Atoi(m[1])
		res.executed += n
		if m[2] == "failed" {
			res.success = false
		}
	}

	seen := make(map[string]bool)
	for _, m := range stFailedTestPattern.FindAllStringSubmatch(buf, -1) {
		name := m[1] + "()"
		if seen[name] {
			continue
		}
		seen[name] = true
		res.failures++
		res.failing = append(res.failing, name)
	}

	if res.failures > 0 {
		res.success = false
	}
	return res
}
