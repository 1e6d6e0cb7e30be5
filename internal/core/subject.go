package core

// subject.go classifies subject identifier values. Submissions must carry
// de-identified initials, never personal names or placeholder strings, so
// these findings are collected separately and never block a run on their own.

import (
	"regexp"
	"strings"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
)

const (
	msgSubjectUnknown = `Subject ID should not be "unknown"`
	msgSubjectName    = "Subject ID appears to be a full name. Use initials instead"
	msgSubjectInvalid = `Subject ID must be initials (e.g., "JD", "J.D.", "J.D.S")`
)

var (
	lettersOnlyRe = regexp.MustCompile(`^[A-Za-z]+$`)
	dottedRe      = regexp.MustCompile(`^[A-Za-z](\.[A-Za-z])*\.?$`)
)

// classifySubjectID checks a non-empty subject identifier against the policy.
// The returned issue has its Row and Column filled in by the caller.
func classifySubjectID(value string, policy template.SubjectIDPolicy) (SubjectIssue, bool) {
	if policy.Rejects(value) {
		return SubjectIssue{
			Finding: Finding{Value: value, Message: msgSubjectUnknown},
			Kind:    SubjectUnknown,
		}, true
	}

	if looksLikeName(value) {
		return SubjectIssue{
			Finding: Finding{Value: value, Message: msgSubjectName},
			Kind:    SubjectName,
		}, true
	}

	if !validInitials(value, policy.MaxInitialsLen) {
		return SubjectIssue{
			Finding: Finding{Value: value, Message: msgSubjectInvalid},
			Kind:    SubjectInvalid,
		}, true
	}

	return SubjectIssue{}, false
}

// looksLikeName flags values with two or more space-separated parts where at
// least one part is longer than three characters. "J D" stays an initials
// candidate; "John Smith" does not.
func looksLikeName(value string) bool {
	if !strings.Contains(value, " ") {
		return false
	}
	parts := strings.Fields(value)
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if len(p) > 3 {
			return true
		}
	}
	return false
}

// validInitials accepts plain letter runs up to maxLen characters ("JD") and
// dotted initials of any length ("J.D.", "J.D.S").
func validInitials(value string, maxLen int) bool {
	if lettersOnlyRe.MatchString(value) {
		return len(value) <= maxLen
	}
	return dottedRe.MatchString(value)
}
