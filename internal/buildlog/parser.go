package buildlog

import (
	"strings"

	"github.com/boyarskiy/xctriage/internal/logtext"
	"github.com/boyarskiy/xctriage/internal/model"
)

// Parse classifies a fully captured build log into an ordered issue
// list. The two classification vocabularies are mutually exclusive for
// a buffer: when xcbeautify markers are present anywhere, only the
// prettified path runs; otherwise the raw rule set is applied line by
// line, first matching rule wins. Unrecognized text produces nothing,
// so success-only or empty buffers yield an empty list. An empty list
// means "no recognized failure", never "guaranteed success".
func Parse(buf string) []model.Issue {
	cleaned := logtext.Clean(buf)
	if hasBeautifiedMarkers(cleaned) {
		return parseBeautified(cleaned)
	}

	lines := strings.Split(cleaned, "\n")
	var issues []model.Issue
	for i := 0; i < len(lines); i++ {
		for _, r := range ruleSet {
			if !r.match(lines[i]) {
				continue
			}
			iss, consumed := r.extract(lines, i)
			if iss != nil {
				issues = append(issues, *iss)
			}
			if consumed > 1 {
				i += consumed - 1
			}
			break
		}
	}
	return issues
}
