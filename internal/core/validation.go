package core

// validation.go is the heart of the engine.
//
// Validation happens at two levels:
//  1. Header validation: the document's headers are diffed against the
//     template, and every missing required header becomes one header-level
//     error. Columns that are entirely missing are never cell-validated.
//  2. Cell validation: every row is checked against each matched column's
//     spec (required, enum membership, date/time format, subject-ID shape).
//
// Validate never stops at the first violation; every anomaly in well-formed
// input becomes a Result entry, never an error return.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/document"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
)

const (
	msgRequiredEmpty = "Required field is empty."
	msgInvalidDate   = "Invalid date format. Expected MM/DD/YYYY"
	msgInvalidTime   = "Invalid time format. Expected HH:MM"
	msgTwelveHour    = "Time is in 12-hour format. Prefer 24-hour HH:MM"
	msgNotANumber    = "Must be a number"
)

// enumValuePreview caps how many allowed values an enum error message lists.
const enumValuePreview = 5

// Validate compares a parsed document against a template and returns the
// complete, immutable Result. It is pure: no I/O, no mutation of inputs,
// and deterministic ordering (row ascending, then template column order).
func Validate(tpl *template.Template, doc *document.Document) *Result {
	res := &Result{
		Errors:          []Finding{},
		Warnings:        []Finding{},
		SubjectIDIssues: []SubjectIssue{},
	}

	matched := diffHeaders(tpl, doc, res)

	// Required-header gate: one header-level error per missing required
	// column, reported at the header row.
	missing := make(map[string]struct{}, len(res.HeaderDiff.Missing))
	for _, name := range res.HeaderDiff.Missing {
		missing[name] = struct{}{}
	}
	for _, spec := range tpl.Columns {
		if _, gone := missing[spec.Name]; gone && spec.Required {
			res.Errors = append(res.Errors, Finding{
				Row:     1,
				Column:  spec.Name,
				Message: fmt.Sprintf("Missing required header: %s", spec.Name),
			})
		}
	}

	for _, row := range doc.Rows {
		res.RowCount++
		validateRow(row, matched, doc, res)
	}

	res.Status = res.deriveStatus()
	return res
}

// diffHeaders fills the Result's HeaderDiff and returns the template columns
// present in the document, in template order.
func diffHeaders(tpl *template.Template, doc *document.Document, res *Result) []template.ColumnSpec {
	res.HeaderDiff = HeaderDiff{
		Missing: []string{},
		Extra:   []string{},
		Matched: []string{},
	}

	expected := make(map[string]struct{}, len(tpl.Columns))
	var matched []template.ColumnSpec

	for _, spec := range tpl.Columns {
		expected[spec.Name] = struct{}{}
		if _, ok := doc.HeaderPos(spec.Name); ok {
			res.HeaderDiff.Matched = append(res.HeaderDiff.Matched, spec.Name)
			matched = append(matched, spec)
		} else {
			res.HeaderDiff.Missing = append(res.HeaderDiff.Missing, spec.Name)
		}
	}

	seen := make(map[string]struct{}, len(doc.Headers))
	for _, h := range doc.Headers {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if _, ok := expected[h]; !ok {
			res.HeaderDiff.Extra = append(res.HeaderDiff.Extra, h)
		}
	}

	return matched
}

// validateRow applies the structural field-count check, then every matched
// column's rule, appending findings in deterministic order.
func validateRow(row document.Row, matched []template.ColumnSpec, doc *document.Document, res *Result) {
	if len(row.Fields) != len(doc.Headers) {
		res.Errors = append(res.Errors, Finding{
			Row:     row.Number,
			Message: fmt.Sprintf("Row has %d fields, expected %d.", len(row.Fields), len(doc.Headers)),
		})
	}

	for _, spec := range matched {
		raw, present := doc.Cell(row, spec.Name)
		if !present {
			// Short row: the structural error above already covers the
			// absent fields; no per-cell finding is produced.
			continue
		}

		value := strings.TrimSpace(raw)

		if value == "" {
			if spec.Required {
				res.Errors = append(res.Errors, Finding{
					Row:     row.Number,
					Column:  spec.Name,
					Message: msgRequiredEmpty,
				})
			}
			continue
		}

		validateCell(row.Number, value, spec, res)
	}
}

// validateCell checks one non-empty cell against its column spec.
func validateCell(rowNum int, value string, spec template.ColumnSpec, res *Result) {
	switch spec.Type {
	case template.TypeList:
		if !containsExact(spec.Values, value) {
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: enumMessage(spec.Values),
			})
		}

	case template.TypeDate:
		if !ValidDate(value) {
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: msgInvalidDate,
			})
		}

	case template.TypeTime:
		ok, twelveHour := ValidTime(value, spec.Allow12Hour)
		if !ok {
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: msgInvalidTime,
			})
		} else if twelveHour {
			res.Warnings = append(res.Warnings, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: msgTwelveHour,
			})
		}

	case template.TypeNumber:
		num, err := strconv.ParseFloat(value, 64)
		switch {
		case err != nil:
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: msgNotANumber,
			})
		case spec.Min != nil && num < *spec.Min:
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: fmt.Sprintf("Value must be >= %s", formatBound(*spec.Min)),
			})
		case spec.Max != nil && num > *spec.Max:
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: fmt.Sprintf("Value must be <= %s", formatBound(*spec.Max)),
			})
		}

	case template.TypePattern:
		if !spec.MatchesPattern(value) {
			res.Errors = append(res.Errors, Finding{
				Row:     rowNum,
				Column:  spec.Name,
				Value:   value,
				Message: spec.PatternMessage(),
			})
		}

	case template.TypeSubjectID:
		if issue, flagged := classifySubjectID(value, spec.Policy()); flagged {
			issue.Row = rowNum
			issue.Column = spec.Name
			res.SubjectIDIssues = append(res.SubjectIDIssues, issue)
		}
	}
}

// containsExact reports case-sensitive membership. Dropdown values must be
// copied verbatim from the template; "yes" does not satisfy "Yes".
func containsExact(values []string, v string) bool {
	for _, allowed := range values {
		if allowed == v {
			return true
		}
	}
	return false
}

// formatBound renders a numeric bound the way it reads in the template:
// whole bounds without a trailing ".0", fractional ones as written.
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// enumMessage lists the allowed values, previewing at most enumValuePreview
// of them so messages for large dropdowns stay readable.
func enumMessage(values []string) string {
	preview := values
	suffix := ""
	if len(values) > enumValuePreview {
		preview = values[:enumValuePreview]
		suffix = "..."
	}
	return fmt.Sprintf("Must be one of: %s%s", strings.Join(preview, ", "), suffix)
}
