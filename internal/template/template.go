// Package template defines the validation ruleset model and its JSON loading.
//
// A Template is an immutable value: it is loaded once (from the embedded
// default or an external file), never mutated, and shared freely across
// concurrent validation runs. External templates replace the embedded default
// wholesale; there is no field-level merging.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ColumnType identifies the validation rule applied to a column's cells.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeList      ColumnType = "list"
	TypeDate      ColumnType = "date"
	TypeTime      ColumnType = "time"
	TypeNumber    ColumnType = "number"
	TypePattern   ColumnType = "pattern"
	TypeSubjectID ColumnType = "subject_id"

	// TypeOther marks columns carried for completeness: presence and the
	// required check apply, cell content does not.
	TypeOther ColumnType = "other"
)

// SubjectIDPolicy configures the subject identifier heuristics.
// Zero values fall back to the defaults used by DefaultSubjectIDPolicy.
type SubjectIDPolicy struct {
	// MaxInitialsLen is the maximum length of an unpunctuated initials value.
	MaxInitialsLen int `json:"maxInitialsLen,omitempty"`
	// RejectedLiterals are values reported as placeholder IDs (case-insensitive).
	RejectedLiterals []string `json:"rejectedLiterals,omitempty"`
}

// DefaultSubjectIDPolicy returns the policy applied when a subject_id column
// does not carry an explicit one.
func DefaultSubjectIDPolicy() SubjectIDPolicy {
	return SubjectIDPolicy{
		MaxInitialsLen:   4,
		RejectedLiterals: []string{"unknown", "unk"},
	}
}

// ColumnSpec defines the expected header name and validation rule for one column.
type ColumnSpec struct {
	// Name must match the CSV header exactly, including case and whitespace.
	Name     string     `json:"name"`
	Required bool       `json:"required"`
	Type     ColumnType `json:"type"`

	// Values is the allowed value set for TypeList columns (case-sensitive).
	Values []string `json:"values,omitempty"`

	// Format is a display tag for date/time columns ("MM/DD/YYYY", "HH:MM").
	Format string `json:"format,omitempty"`

	// Allow12Hour permits H:MM AM/PM style values in TypeTime columns.
	Allow12Hour bool `json:"allow12Hour,omitempty"`

	// Min and Max bound TypeNumber columns; nil means unbounded.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// Pattern is the regular expression for TypePattern columns. It is
	// matched against the uppercased cell value, anchored at the start.
	Pattern string `json:"pattern,omitempty"`

	// Description is the error message shown for TypePattern violations.
	// Empty falls back to a generic "Must match pattern" message.
	Description string `json:"description,omitempty"`

	// SubjectID overrides the default policy for TypeSubjectID columns.
	SubjectID *SubjectIDPolicy `json:"subjectId,omitempty"`

	patternRe *regexp.Regexp
}

// Template is the versioned ruleset a document is validated against.
type Template struct {
	Version string       `json:"version"`
	Source  string       `json:"source,omitempty"`
	Columns []ColumnSpec `json:"columns"`
}

// ColumnNames returns the expected header names in template order.
func (t *Template) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the spec for an exact header name.
func (t *Template) Column(name string) (ColumnSpec, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Parse decodes a template from JSON and validates its structure.
// The source tag is recorded on the returned template for reporting.
func Parse(data []byte, source string) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &TemplateError{Source: source, Message: "invalid JSON", Err: err}
	}
	t.Source = source

	if err := t.validate(); err != nil {
		return nil, &TemplateError{Source: source, Message: err.Error(), Err: errors.Join(ErrInvalidTemplate, err)}
	}
	return &t, nil
}

// validate checks the structural invariants: a non-empty column list,
// unique names, and per-type constraint completeness. Pattern columns get
// their expression compiled here so a bad regex fails the load, not a run.
func (t *Template) validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Name == "" {
			return fmt.Errorf("column %d has no name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}

		switch c.Type {
		case TypeText, TypeDate, TypeTime, TypeSubjectID, TypeOther, "":
			// Format and policy tags are optional; defaults apply.
		case TypeList:
			if len(c.Values) == 0 {
				return fmt.Errorf("list column %q has no values", c.Name)
			}
		case TypeNumber:
			if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
				return fmt.Errorf("number column %q has min %v above max %v", c.Name, *c.Min, *c.Max)
			}
		case TypePattern:
			if c.Pattern == "" {
				return fmt.Errorf("pattern column %q has no pattern", c.Name)
			}
			re, err := compilePattern(c.Pattern)
			if err != nil {
				return fmt.Errorf("pattern column %q: %v", c.Name, err)
			}
			c.patternRe = re
		default:
			return fmt.Errorf("column %q has unknown type %q", c.Name, c.Type)
		}
	}
	return nil
}

// compilePattern anchors the expression at the start of the value, matching
// how pattern rules are written in templates (prefix match, not search).
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")")
}

// MatchesPattern reports whether the uppercased value satisfies a
// TypePattern column's expression. Templates built by Parse carry a
// pre-compiled expression; hand-built specs compile on first use.
func (c ColumnSpec) MatchesPattern(value string) bool {
	re := c.patternRe
	if re == nil {
		var err error
		re, err = compilePattern(c.Pattern)
		if err != nil {
			return false
		}
	}
	return re.MatchString(strings.ToUpper(value))
}

// PatternMessage is the finding message for a pattern violation.
func (c ColumnSpec) PatternMessage() string {
	if c.Description != "" {
		return c.Description
	}
	return fmt.Sprintf("Must match pattern: %s", c.Pattern)
}

// Policy resolves the effective subject-ID policy for a column,
// filling unset fields from the defaults.
func (c ColumnSpec) Policy() SubjectIDPolicy {
	p := DefaultSubjectIDPolicy()
	if c.SubjectID == nil {
		return p
	}
	if c.SubjectID.MaxInitialsLen > 0 {
		p.MaxInitialsLen = c.SubjectID.MaxInitialsLen
	}
	if len(c.SubjectID.RejectedLiterals) > 0 {
		p.RejectedLiterals = c.SubjectID.RejectedLiterals
	}
	return p
}

// Rejects reports whether the policy rejects the given literal value.
func (p SubjectIDPolicy) Rejects(value string) bool {
	for _, lit := range p.RejectedLiterals {
		if strings.EqualFold(lit, value) {
			return true
		}
	}
	return false
}
