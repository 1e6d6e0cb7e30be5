package core

import (
	"testing"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySubjectID(t *testing.T) {
	policy := template.DefaultSubjectIDPolicy()

	tests := []struct {
		name     string
		value    string
		flagged  bool
		wantKind SubjectIssueKind
	}{
		{"plain initials", "JD", false, ""},
		{"three initials", "JDS", false, ""},
		{"four initials", "ABCD", false, ""},
		{"dotted initials", "J.D.", false, ""},
		{"dotted three", "J.D.S", false, ""},
		{"unknown literal", "unknown", true, SubjectUnknown},
		{"unknown uppercase", "UNKNOWN", true, SubjectUnknown},
		{"unk shorthand", "unk", true, SubjectUnknown},
		{"full name", "John Smith", true, SubjectName},
		{"three part name", "Mary Jo Watson", true, SubjectName},
		{"spaced initials are invalid", "J D", true, SubjectInvalid},
		{"too long", "ABCDE", true, SubjectInvalid},
		{"digits", "AB123", true, SubjectInvalid},
		{"symbols", "J-D", true, SubjectInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, flagged := classifySubjectID(tt.value, policy)
			require.Equal(t, tt.flagged, flagged)
			if flagged {
				assert.Equal(t, tt.wantKind, issue.Kind)
				assert.Equal(t, tt.value, issue.Value)
				assert.NotEmpty(t, issue.Message)
			}
		})
	}
}

func TestSubjectIDPolicyOverrides(t *testing.T) {
	policy := template.SubjectIDPolicy{
		MaxInitialsLen:   5,
		RejectedLiterals: []string{"redacted"},
	}

	_, flagged := classifySubjectID("ABCDE", policy)
	assert.False(t, flagged, "longer initials allowed by policy")

	issue, flagged := classifySubjectID("REDACTED", policy)
	require.True(t, flagged)
	assert.Equal(t, SubjectUnknown, issue.Kind)

	// "unknown" is no longer rejected once the literals are replaced, but it
	// still fails the length check for plain initials.
	issue, flagged = classifySubjectID("unknown", policy)
	require.True(t, flagged)
	assert.Equal(t, SubjectInvalid, issue.Kind)
}

func TestSubjectIssuesAreCollectedSeparately(t *testing.T) {
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "subject_id", Required: true, Type: template.TypeSubjectID},
	}}

	res := Validate(tpl, parseDoc(t, "subject_id\nJohn Smith\nunknown\nAB123\nJD\n"))

	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.SubjectIDIssues, 3)

	unknown, name, invalid := res.SubjectCounts()
	assert.Equal(t, 1, unknown)
	assert.Equal(t, 1, name)
	assert.Equal(t, 1, invalid)

	// Rows ascend: the passing value contributes nothing.
	assert.Equal(t, 2, res.SubjectIDIssues[0].Row)
	assert.Equal(t, 3, res.SubjectIDIssues[1].Row)
	assert.Equal(t, 4, res.SubjectIDIssues[2].Row)
}
