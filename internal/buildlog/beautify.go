package buildlog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/boyarskiy/xctriage/internal/model"
)

// xcbeautify prefixes failed lines with ❌ and warnings with ⚠️.
var (
	beautifyErrorPattern   = regexp.MustCompile(`^\s*❌\s+(.+)$`)
	beautifyWarningPattern = regexp.MustCompile(`^\s*⚠️\s+(.+)$`)

	beautifyLocationPattern = regexp.MustCompile(`^(.+?):(\d+):(\d+):?\s+(.*)$`)

	// A location prefix must look like a path; "at 10:30:45" and
	// similar time-like prefixes match the shape above but carry no
	// source location.
	pathExtPattern = regexp.MustCompile(`\.[A-Za-z]\w*$`)
)

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || pathExtPattern.MatchString(s)
}

// hasBeautifiedMarkers reports whether the buffer came through a log
// prettifier. Marker presence anywhere selects the prettified
// vocabulary for the whole buffer.
func hasBeautifiedMarkers(buf string) bool {
	return strings.Contains(buf, "❌") || strings.Contains(buf, "⚠️")
}

// parseBeautified classifies xcbeautify-style output. Severity comes
// from the marker; the fine category is derived from the message text
// with the same families the raw rule set recognizes.
func parseBeautified(buf string) []model.Issue {
	var issues []model.Issue
	for _, line := range strings.Split(buf, "\n") {
		var msg string
		sev := model.SeverityError
		if m := beautifyErrorPattern.FindStringSubmatch(line); m != nil {
			msg = m[1]
		} else if m := beautifyWarningPattern.FindStringSubmatch(line); m != nil {
			msg = m[1]
			sev = model.SeverityWarning
		} else {
			continue
		}

		iss := model.Issue{
			Severity: sev,
			Category: model.CategoryGeneric,
			RawLine:  line,
		}

		if m := beautifyLocationPattern.FindStringSubmatch(msg); m != nil && looksLikePath(m[1]) {
			iss.File = m[1]
			iss.Line, _ = strconv.Atoi(m[2])
			iss.Column, _ = strconv.Atoi(m[3])
			msg = m[4]
		}
		msg = strings.TrimPrefix(msg, "error: ")
		msg = strings.TrimPrefix(msg, "warning: ")
		iss.Detail = msg
		iss.Title = msg

		if cat, title, suggestion, ok := classifyMessage(msg); ok {
			iss.Category = cat
			iss.Title = title
			iss.Suggestion = suggestion
		}
		issues = append(issues, iss)
	}
	return issues
}

// classifyMessage assigns a fine category to prettified message text,
// reusing the raw vocabulary's patterns in the same priority order.
func classifyMessage(msg string) (model.Category, string, string, bool) {
	switch {
	case schemeNotFoundPattern.MatchString(msg):
		return model.CategoryScheme, "Scheme not found", "Check available schemes with xcodebuild -list.", true
	case codeSignPattern.MatchString(msg):
		return model.CategorySigning, "Code signing failed", "Verify the signing certificate and team in the target's Signing & Capabilities settings.", true
	case provisioningPattern.MatchString(msg):
		return model.CategoryProvisioning, "Provisioning profile problem", "Regenerate the provisioning profile in the developer portal and select it for the target.", true
	case missingModulePattern.MatchString(msg):
		m := missingModulePattern.FindStringSubmatch(msg)
		return model.CategoryDependency, "Missing module '" + m[1] + "'", "Add the package to the project dependencies, or resolve packages again.", true
	case unresolvedPattern.MatchString(msg):
		return model.CategoryDependency, msg, "Check that the declaring module is imported and the dependency is linked.", true
	case repoNotFoundPattern.MatchString(msg):
		return model.CategoryDependency, "Repository not found", "Check the package repository URL and your access rights.", true
	case configurationPattern.MatchString(msg):
		return model.CategoryConfiguration, "Configuration not found", "List configurations with xcodebuild -list and pass one of them via -configuration.", true
	case sdkNotInstalledPattern.MatchString(msg):
		m := sdkNotInstalledPattern.FindStringSubmatch(msg)
		return model.CategorySDK, strings.TrimSpace(m[1]) + " SDK is not installed", "Install the platform in Xcode Settings > Components, or run xcodebuild -downloadPlatform.", true
	case noDestinationPattern.MatchString(msg):
		return model.CategoryDestination, "No matching destination", "List valid destinations with xcodebuild -showdestinations and adjust the -destination specifier.", true
	}
	return model.CategoryGeneric, "", "", false
}
