// Package core implements the validation engine: comparing a parsed CSV
// document against a template and classifying every anomaly into errors,
// warnings and subject-ID issues. This package has no I/O and no UI
// dependencies; hosts feed it parsed inputs and render its Result.
package core

// Status is the overall outcome of one validation run.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Finding is a single reported error or warning tied to a row and column.
type Finding struct {
	// Row is the 1-based raw file row. Header-level findings use row 1.
	Row int `json:"row"`

	// Column is the template column name. Structural row findings leave it empty.
	Column string `json:"column,omitempty"`

	// Value is the offending cell value, trimmed.
	Value string `json:"currentValue,omitempty"`

	Message string `json:"message"`
}

// SubjectIssueKind classifies a subject-ID finding.
type SubjectIssueKind string

const (
	SubjectUnknown SubjectIssueKind = "unknown" // placeholder literal
	SubjectName    SubjectIssueKind = "name"    // looks like a full name
	SubjectInvalid SubjectIssueKind = "invalid" // not an initials pattern
)

// SubjectIssue is a subject-identifier formatting finding.
type SubjectIssue struct {
	Finding
	Kind SubjectIssueKind `json:"kind"`
}

// HeaderDiff compares the document's headers against the template's
// expectations. Comparison is exact-string: case- and whitespace-sensitive.
type HeaderDiff struct {
	// Missing are expected names absent from the document, in template order.
	Missing []string `json:"missing"`

	// Extra are document names the template does not expect, in document order.
	Extra []string `json:"extra"`

	// Matched are names present in both, in template order.
	Matched []string `json:"matched"`
}

// Result is the immutable outcome of one validation run. It is fully
// deterministic: identical inputs produce identical Results.
type Result struct {
	HeaderDiff      HeaderDiff     `json:"headerDiff"`
	Errors          []Finding      `json:"errors"`
	Warnings        []Finding      `json:"warnings"`
	SubjectIDIssues []SubjectIssue `json:"subjectIdIssues"`
	RowCount        int            `json:"rowCount"`
	Status          Status         `json:"status"`
}

// SubjectCounts returns how many subject-ID issues fall into each kind.
func (r *Result) SubjectCounts() (unknown, name, invalid int) {
	for _, issue := range r.SubjectIDIssues {
		switch issue.Kind {
		case SubjectUnknown:
			unknown++
		case SubjectName:
			name++
		case SubjectInvalid:
			invalid++
		}
	}
	return unknown, name, invalid
}

// deriveStatus computes the overall status from the collected findings.
// Subject-ID issues are non-blocking and count as warnings.
func (r *Result) deriveStatus() Status {
	switch {
	case len(r.Errors) > 0:
		return StatusFailed
	case len(r.Warnings) > 0 || len(r.SubjectIDIssues) > 0:
		return StatusWarning
	default:
		return StatusPassed
	}
}
