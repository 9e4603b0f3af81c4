package buildlog

import (
	"strconv"

	"github.com/boyarskiy/xctriage/internal/model"
)

// Dedup collapses issues repeated by multi-architecture build passes:
// the same compiler error is reported once per slice (arm64, x86_64)
// with an identical (file, line, message) triple. The first occurrence
// wins and keeps its metadata untouched; the operation is idempotent.
func Dedup(issues []model.Issue) []model.Issue {
	if len(issues) == 0 {
		return issues
	}
	seen := make(map[string]bool, len(issues))
	out := make([]model.Issue, 0, len(issues))
	for _, iss := range issues {
		key := iss.File + ":" + strconv.Itoa(iss.Line) + ":" + iss.Message()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, iss)
	}
	return out
}
