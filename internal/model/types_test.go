package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssue_Message(t *testing.T) {
	assert.Equal(t, "detail wins", Issue{Title: "title", Detail: "detail wins"}.Message())
	assert.Equal(t, "title", Issue{Title: "title"}.Message())
}

func TestIssue_Located(t *testing.T) {
	assert.False(t, Issue{}.Located())
	assert.False(t, Issue{File: "a.swift"}.Located())
	assert.True(t, Issue{File: "a.swift", Line: 3}.Located())
}

func TestBuildReport_Counts(t *testing.T) {
	rpt := BuildReport{Issues: []Issue{
		{Severity: SeverityError},
		{Severity: SeverityWarning},
		{Severity: SeverityError},
	}}

	assert.Equal(t, 2, rpt.ErrorCount())
	assert.Equal(t, 1, rpt.WarningCount())
}
