// Package logtext provides cleanup helpers for captured toolchain logs.
package logtext

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// MaxLogBytes is the ceiling enforced when reading a log from a file or
// stream. Captured xcodebuild logs above this size are rejected rather
// than parsed; the parse functions themselves accept any string.
const MaxLogBytes = 10 << 20

var (
	// ansiPattern matches ANSI escape sequences (colors, cursor moves).
	// Emoji markers are plain runes and survive the strip.
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

	// timestampPattern matches CI log timestamp prefixes.
	// Format: 2026-01-26T14:49:40.7760945Z
	timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z\s*`)
)

// StripANSI removes ANSI escape sequences from the log.
func StripANSI(log string) string {
	return ansiPattern.ReplaceAllString(log, "")
}

// StripTimestamps removes CI timestamp prefixes from each line.
// Input:  "2026-01-26T14:49:40.7760945Z ** BUILD FAILED **"
// Output: "** BUILD FAILED **"
func StripTimestamps(log string) string {
	lines := strings.Split(log, "\n")
	for i, line := range lines {
		lines[i] = timestampPattern.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

// Clean applies all cleanup operations so colorized or CI-prefixed logs
// classify the same as plain captures.
func Clean(log string) string {
	log = StripTimestamps(log)
	log = StripANSI(log)
	return log
}

// ErrTooLarge is returned by ReadAllBounded when the input exceeds the
// configured limit.
var ErrTooLarge = errors.New("log exceeds size limit")

// ReadAllBounded reads r fully, failing with ErrTooLarge once more than
// max bytes have been consumed.
func ReadAllBounded(r io.Reader, max int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return "", fmt.Errorf("failed to read log: %w", err)
	}
	if int64(len(data)) > max {
		return "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, max)
	}
	return string(data), nil
}
