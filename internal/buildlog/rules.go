// Package buildlog classifies raw xcodebuild output into issues.
package buildlog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/boyarskiy/xctriage/internal/model"
)

// Patterns for the raw xcodebuild vocabulary. Grouped by the rule family
// that owns them; rules are evaluated in the order declared in ruleSet.
var (
	schemeNotFoundPattern = regexp.MustCompile(`[Tt]he scheme "([^"]+)" could not be found`)
	schemeErrorPattern    = regexp.MustCompile(`(?i)xcodebuild: error:.*\bscheme\b`)

	codeSignPattern = regexp.MustCompile(`(?i)(code ?sign(ing)? error|code signing is required|no signing certificate|signing identity|codesign failed)`)

	provisioningPattern = regexp.MustCompile(`(?i)(provisioning profile[^\n]*(not found|doesn't (include|support)|required)|no profiles? for '?[^'\n]*'? (were |was )?found)`)

	cloneFailedPattern    = regexp.MustCompile(`Failed to clone repository (\S+)`)
	missingModulePattern  = regexp.MustCompile(`no such module '([^']+)'`)
	unresolvedPattern     = regexp.MustCompile(`cannot find '([^']+)' in scope|use of unresolved identifier '([^']+)'`)
	repoNotFoundPattern   = regexp.MustCompile(`fatal: repository '?([^'\s]+)'? not found`)
	unknownPackagePattern = regexp.MustCompile(`unknown package '([^']+)' in dependencies`)

	configurationPattern = regexp.MustCompile(`[Cc]onfiguration "([^"]+)" (?:could not be found|not found)|does not contain a configuration named "([^"]+)"|(?i)invalid configuration`)

	sdkNotInstalledPattern = regexp.MustCompile(`\b([A-Za-z][A-Za-z ]*?[\d.]+) is not installed\b`)

	noDestinationPattern    = regexp.MustCompile(`Unable to find a destination matching`)
	ineligibleHeaderPattern = regexp.MustCompile(`Ineligible destinations for`)
	destinationEntryPattern = regexp.MustCompile(`\{.*platform:([^,}]+).*error:([^}]+)\}`)

	platformUnsupportedPattern = regexp.MustCompile(`platform '([^']+)' (?:is )?not supported|(?i)\binvalid destination\b`)

	projectMissingPattern = regexp.MustCompile(`([^\s"']+\.(?:xcodeproj|xcworkspace))["']?\s+does not exist|(?i)could not open (?:project|workspace)`)
	// Resource-loading diagnostics mention "does not exist" next to
	// project-like paths but describe a different problem entirely;
	// they must not classify as a missing project file.
	resourceDiagPattern = regexp.MustCompile(`(?i)(extension point|plug-?in|resource|asset)`)

	buildCommandsFailedPattern = regexp.MustCompile(`^The following build commands failed:`)

	locatedDiagPattern     = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s+(error|warning):\s+(.+)$`)
	bareDiagPattern        = regexp.MustCompile(`^\s*(error|warning):\s+(.+)$`)
	xcodebuildErrorPattern = regexp.MustCompile(`^xcodebuild: error:\s+(.+)$`)
)

// rule pairs a line predicate with an extractor. Extractors return the
// issue (nil for exclusion rules) and the number of lines consumed,
// at least 1.
type rule struct {
	name    string
	match   func(line string) bool
	extract func(lines []string, i int) (*model.Issue, int)
}

// ruleSet is the classifier, in priority order: the first rule whose
// match accepts a line owns it, and a line never yields more than one
// issue.
var ruleSet = []rule{
	{
		name:  "scheme-not-found",
		match: func(l string) bool { return schemeNotFoundPattern.MatchString(l) || schemeErrorPattern.MatchString(l) },
		extract: func(lines []string, i int) (*model.Issue, int) {
			line := lines[i]
			title := "Scheme not found"
			detail := strings.TrimSpace(line)
			if m := schemeNotFoundPattern.FindStringSubmatch(line); m != nil {
				detail = `scheme "` + m[1] + `" could not be found`
			}
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryScheme,
				Title:      title,
				Detail:     detail,
				Suggestion: "Check available schemes with xcodebuild -list.",
				RawLine:    line,
			}, 1
		},
	},
	{
		name:  "code-signing",
		match: codeSignPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategorySigning,
				Title:      "Code signing failed",
				Detail:     strings.TrimSpace(lines[i]),
				Suggestion: "Verify the signing certificate and team in the target's Signing & Capabilities settings.",
				RawLine:    lines[i],
			}, 1
		},
	},
	{
		name:  "provisioning-profile",
		match: provisioningPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryProvisioning,
				Title:      "Provisioning profile problem",
				Detail:     strings.TrimSpace(lines[i]),
				Suggestion: "Regenerate the provisioning profile in the developer portal and select it for the target.",
				RawLine:    lines[i],
			}, 1
		},
	},
	{
		// Multi-line block; owns the bare "fatal: ... not found" line
		// inside it so the repo-not-found rule never fires twice for
		// one clone failure.
		name:    "clone-failed",
		match:   cloneFailedPattern.MatchString,
		extract: extractCloneFailure,
	},
	{
		name:  "missing-module",
		match: missingModulePattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			line := lines[i]
			m := missingModulePattern.FindStringSubmatch(line)
			iss := locatedIssue(line, model.CategoryDependency)
			iss.Title = "Missing module '" + m[1] + "'"
			iss.Suggestion = "Add the package to the project dependencies, or resolve packages again."
			return iss, 1
		},
	},
	{
		name:  "unresolved-identifier",
		match: unresolvedPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			line := lines[i]
			m := unresolvedPattern.FindStringSubmatch(line)
			ident := m[1]
			if ident == "" {
				ident = m[2]
			}
			iss := locatedIssue(line, model.CategoryDependency)
			iss.Title = "Unresolved identifier '" + ident + "'"
			iss.Suggestion = "Check that the declaring module is imported and the dependency is linked."
			return iss, 1
		},
	},
	{
		name:  "repository-not-found",
		match: repoNotFoundPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			m := repoNotFoundPattern.FindStringSubmatch(lines[i])
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryDependency,
				Title:      "Repository not found",
				Detail:     "repository " + m[1] + " not found",
				Suggestion: "Check the package repository URL and your access rights.",
				RawLine:    lines[i],
			}, 1
		},
	},
	{
		name:  "unknown-package",
		match: unknownPackagePattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			m := unknownPackagePattern.FindStringSubmatch(lines[i])
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryDependency,
				Title:      "Unknown package '" + m[1] + "'",
				Detail:     strings.TrimSpace(lines[i]),
				Suggestion: "Make sure the target dependency name matches a declared package product.",
				RawLine:    lines[i],
			}, 1
		},
	},
	{
		name:  "configuration-not-found",
		match: configurationPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			line := lines[i]
			title := "Configuration not found"
			if m := configurationPattern.FindStringSubmatch(line); m != nil {
				name := m[1]
				if name == "" {
					name = m[2]
				}
				if name != "" {
					title = `Configuration "` + name + `" not found`
				}
			}
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryConfiguration,
				Title:      title,
				Detail:     strings.TrimSpace(line),
				Suggestion: "List configurations with xcodebuild -list and pass one of them via -configuration.",
				RawLine:    line,
			}, 1
		},
	},
	{
		name:  "sdk-not-installed",
		match: func(l string) bool { return sdkNotInstalledPattern.MatchString(l) && !strings.Contains(l, "{") },
		extract: func(lines []string, i int) (*model.Issue, int) {
			m := sdkNotInstalledPattern.FindStringSubmatch(lines[i])
			return sdkIssue(strings.TrimSpace(m[1]), strings.TrimSpace(lines[i]), lines[i]), 1
		},
	},
	{
		// Covers both the nested SDK cause and the plain
		// destination mismatch; the block scan decides which.
		name:    "destination-block",
		match:   noDestinationPattern.MatchString,
		extract: extractDestinationBlock,
	},
	{
		name:  "platform-unsupported",
		match: platformUnsupportedPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryConfiguration,
				Title:      "Platform or destination not supported",
				Detail:     strings.TrimSpace(lines[i]),
				Suggestion: "Pick a destination supported by the scheme's targets.",
				RawLine:    lines[i],
			}, 1
		},
	},
	{
		// Exclusion: resource-loading diagnostics that merely mention
		// "does not exist" near a project-like path produce nothing.
		name: "resource-diagnostic-exclusion",
		match: func(l string) bool {
			return strings.Contains(l, "does not exist") && projectMissingPattern.MatchString(l) && resourceDiagPattern.MatchString(l)
		},
		extract: func(lines []string, i int) (*model.Issue, int) { return nil, 1 },
	},
	{
		name:  "project-missing",
		match: projectMissingPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			line := lines[i]
			title := "Project file not found"
			if m := projectMissingPattern.FindStringSubmatch(line); m != nil && m[1] != "" {
				title = m[1] + " not found"
			}
			return &model.Issue{
				Severity:   model.SeverityError,
				Category:   model.CategoryConfiguration,
				Title:      title,
				Detail:     strings.TrimSpace(line),
				Suggestion: "Verify the -project or -workspace path.",
				RawLine:    line,
			}, 1
		},
	},
	{
		name:    "build-commands-failed",
		match:   buildCommandsFailedPattern.MatchString,
		extract: extractBuildCommandsFailed,
	},
	{
		name:  "located-diagnostic",
		match: locatedDiagPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			return locatedIssue(lines[i], model.CategoryGeneric), 1
		},
	},
	{
		name:  "bare-diagnostic",
		match: bareDiagPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			m := bareDiagPattern.FindStringSubmatch(lines[i])
			sev := model.SeverityError
			if m[1] == "warning" {
				sev = model.SeverityWarning
			}
			return &model.Issue{
				Severity: sev,
				Category: model.CategoryGeneric,
				Title:    m[2],
				RawLine:  lines[i],
			}, 1
		},
	},
	{
		name:  "xcodebuild-error",
		match: xcodebuildErrorPattern.MatchString,
		extract: func(lines []string, i int) (*model.Issue, int) {
			m := xcodebuildErrorPattern.FindStringSubmatch(lines[i])
			return &model.Issue{
				Severity: model.SeverityError,
				Category: model.CategoryGeneric,
				Title:    "xcodebuild error",
				Detail:   m[1],
				RawLine:  lines[i],
			}, 1
		},
	},
}

// locatedIssue builds an issue from a line that may carry a
// path:line:column: prefix, falling back to an unlocated issue when it
// does not.
func locatedIssue(line string, cat model.Category) *model.Issue {
	iss := &model.Issue{
		Severity: model.SeverityError,
		Category: cat,
		RawLine:  line,
	}
	if m := locatedDiagPattern.FindStringSubmatch(line); m != nil {
		iss.File = m[1]
		iss.Line, _ = strconv.Atoi(m[2])
		iss.Column, _ = strconv.Atoi(m[3])
		if m[4] == "warning" {
			iss.Severity = model.SeverityWarning
		}
		iss.Title = m[5]
		iss.Detail = m[5]
		return iss
	}
	msg := strings.TrimSpace(line)
	msg = strings.TrimPrefix(msg, "error: ")
	iss.Title = msg
	iss.Detail = msg
	return iss
}

// sdkIssue builds the uninstalled-platform issue shared by the direct
// and nested extraction paths.
func sdkIssue(platform, detail, raw string) *model.Issue {
	return &model.Issue{
		Severity:   model.SeverityError,
		Category:   model.CategorySDK,
		Title:      platform + " SDK is not installed",
		Detail:     detail,
		Suggestion: "Install the platform in Xcode Settings > Components, or run xcodebuild -downloadPlatform.",
		RawLine:    raw,
	}
}

// extractCloneFailure captures the clone-failure block: the opening line
// plus the following indented detail lines, including any nested
// "fatal: ... not found" which would otherwise classify separately.
func extractCloneFailure(lines []string, i int) (*model.Issue, int) {
	m := cloneFailedPattern.FindStringSubmatch(lines[i])
	repo := strings.TrimSuffix(m[1], ":")
	detail := []string{strings.TrimSpace(lines[i])}
	consumed := 1
	for j := i + 1; j < len(lines) && j < i+6; j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" {
			break
		}
		// Only continuation lines belong to the block.
		if !strings.HasPrefix(lines[j], " ") && !strings.HasPrefix(lines[j], "\t") && !strings.HasPrefix(trimmed, "fatal:") {
			break
		}
		detail = append(detail, trimmed)
		consumed++
	}
	return &model.Issue{
		Severity:   model.SeverityError,
		Category:   model.CategoryDependency,
		Title:      "Failed to clone repository " + repo,
		Detail:     strings.Join(detail, "\n"),
		Suggestion: "Check the package URL and your network or credentials, then resolve packages again.",
		RawLine:    lines[i],
	}, consumed
}

// extractDestinationBlock inspects the destination report that follows
// an "Unable to find a destination matching" error. When an ineligible
// entry carries an "is not installed" error the real cause is a missing
// platform SDK; extraction of that nested format is best-effort and
// falls back to a plain destination issue when the structure is absent.
func extractDestinationBlock(lines []string, i int) (*model.Issue, int) {
	consumed := 1
	inIneligible := false
	for j := i + 1; j < len(lines); j++ {
		line := lines[j]
		trimmed := strings.TrimSpace(line)
		partOfBlock := trimmed == "" && j+1 < len(lines) && blockContinues(lines[j+1])
		if !partOfBlock {
			partOfBlock = blockContinues(line)
		}
		if !partOfBlock {
			break
		}
		consumed++
		if ineligibleHeaderPattern.MatchString(line) {
			inIneligible = true
			continue
		}
		if strings.Contains(line, "Available destinations for") {
			inIneligible = false
			continue
		}
		if !inIneligible {
			continue
		}
		if m := destinationEntryPattern.FindStringSubmatch(line); m != nil {
			errText := strings.TrimSpace(m[2])
			if sm := sdkNotInstalledPattern.FindStringSubmatch(errText); sm != nil {
				iss := sdkIssue(strings.TrimSpace(sm[1]), errText, line)
				return iss, consumed
			}
		}
	}
	return &model.Issue{
		Severity:   model.SeverityError,
		Category:   model.CategoryDestination,
		Title:      "No matching destination",
		Detail:     strings.TrimSpace(lines[i]),
		Suggestion: "List valid destinations with xcodebuild -showdestinations and adjust the -destination specifier.",
		RawLine:    lines[i],
	}, consumed
}

// blockContinues reports whether a line still belongs to the
// destination report: headers or indented destination entries.
func blockContinues(line string) bool {
	if strings.Contains(line, "destinations for") {
		return true
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && strings.HasPrefix(trimmed, "{")
}

// extractBuildCommandsFailed captures up to the first 3 failed command
// lines as detail.
func extractBuildCommandsFailed(lines []string, i int) (*model.Issue, int) {
	var detail []string
	consumed := 1
	for j := i + 1; j < len(lines) && len(detail) < 3; j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" {
			break
		}
		detail = append(detail, trimmed)
		consumed++
	}
	return &model.Issue{
		Severity:   model.SeverityError,
		Category:   model.CategoryGeneric,
		Title:      "Build commands failed",
		Detail:     strings.Join(detail, "\n"),
		Suggestion: "Inspect the first failed command above for the underlying compiler error.",
		RawLine:    lines[i],
	}, consumed
}
