package core

import (
	"testing"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/document"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTemplate is a compact ruleset exercising every column type.
func testTemplate(t *testing.T) *template.Template {
	t.Helper()
	return &template.Template{
		Version: "test",
		Columns: []template.ColumnSpec{
			{Name: "incident_number", Required: true, Type: template.TypeText},
			{Name: "incident_date", Required: true, Type: template.TypeDate, Format: "MM/DD/YYYY"},
			{Name: "incident_time", Required: true, Type: template.TypeTime, Format: "HH:MM", Allow12Hour: true},
			{Name: "subject_id", Required: true, Type: template.TypeSubjectID},
			{Name: "officer_injury", Required: true, Type: template.TypeList, Values: []string{"Yes", "No"}},
			{Name: "narrative", Required: false, Type: template.TypeText},
		},
	}
}

func parseDoc(t *testing.T, raw string) *document.Document {
	t.Helper()
	doc, err := document.ParseBytes([]byte(raw))
	require.NoError(t, err)
	return doc
}

const goodCSV = "incident_number,incident_date,incident_time,subject_id,officer_injury,narrative\n" +
	"2024-0001,02/29/2024,08:21,JD,Yes,routine\n" +
	"2024-0002,12/31/2024,23:59,J.D.S,No,\n"

func TestValidatePasses(t *testing.T) {
	res := Validate(testTemplate(t), parseDoc(t, goodCSV))

	assert.Equal(t, StatusPassed, res.Status)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.SubjectIDIssues)
	assert.Equal(t, 2, res.RowCount)
	assert.Empty(t, res.HeaderDiff.Missing)
	assert.Empty(t, res.HeaderDiff.Extra)
	assert.Len(t, res.HeaderDiff.Matched, 6)
}

func TestValidateIsDeterministic(t *testing.T) {
	tpl := testTemplate(t)
	doc := parseDoc(t, "incident_number,incident_date,subject_id,officer_injury\n"+
		"x,13/01/2024,John Smith,maybe\n")

	first := Validate(tpl, doc)
	second := Validate(tpl, doc)

	require.Equal(t, first, second)
}

func TestMissingRequiredHeader(t *testing.T) {
	// subject_id column absent entirely.
	doc := parseDoc(t, "incident_number,incident_date,incident_time,officer_injury,narrative\n"+
		"2024-0001,01/15/2024,08:00,Yes,\n")
	res := Validate(testTemplate(t), doc)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.HeaderDiff.Missing, "subject_id")

	var headerErrs []Finding
	for _, f := range res.Errors {
		if f.Column == "subject_id" {
			headerErrs = append(headerErrs, f)
		}
	}
	// Exactly one header-level error and no per-row findings for the column.
	require.Len(t, headerErrs, 1)
	assert.Equal(t, 1, headerErrs[0].Row)
	assert.Equal(t, "Missing required header: subject_id", headerErrs[0].Message)
}

func TestHeaderComparisonIsExact(t *testing.T) {
	// Trailing space and different case are different headers.
	doc := parseDoc(t, "Incident_Number,incident_date ,incident_time,subject_id,officer_injury,narrative\n")
	res := Validate(testTemplate(t), doc)

	assert.Contains(t, res.HeaderDiff.Missing, "incident_number")
	assert.Contains(t, res.HeaderDiff.Missing, "incident_date")
	assert.Contains(t, res.HeaderDiff.Extra, "Incident_Number")
	assert.Contains(t, res.HeaderDiff.Extra, "incident_date ")
}

func TestEnumIsCaseSensitive(t *testing.T) {
	doc := parseDoc(t, "officer_injury\nyes\n")
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "officer_injury", Required: true, Type: template.TypeList, Values: []string{"Yes", "No"}},
	}}

	res := Validate(tpl, doc)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Must be one of: Yes, No", res.Errors[0].Message)
	assert.Equal(t, "yes", res.Errors[0].Value)
	assert.Equal(t, 2, res.Errors[0].Row)
}

func TestEnumMessagePreviewsLargeSets(t *testing.T) {
	msg := enumMessage([]string{"A", "B", "C", "D", "E", "F", "G"})
	assert.Equal(t, "Must be one of: A, B, C, D, E...", msg)
}

func TestRequiredFieldEmpty(t *testing.T) {
	doc := parseDoc(t, "incident_number,narrative\n,\n")
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "incident_number", Required: true, Type: template.TypeText},
		{Name: "narrative", Required: false, Type: template.TypeText},
	}}

	res := Validate(tpl, doc)

	// Only the required column produces a finding.
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "incident_number", res.Errors[0].Column)
	assert.Equal(t, "Required field is empty.", res.Errors[0].Message)
}

func TestDateValidation(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid date", "01/15/2024", false},
		{"leap day on leap year", "02/29/2024", false},
		{"leap day off leap year", "02/29/2023", true},
		{"month out of range", "13/01/2024", true},
		{"day out of range", "04/31/2024", true},
		{"not zero padded", "1/2/2024", true},
		{"iso format", "2024-01-15", true},
	}

	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "incident_date", Required: true, Type: template.TypeDate, Format: "MM/DD/YYYY"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tpl, parseDoc(t, "incident_date\n"+tt.value+"\n"))
			if tt.wantErr {
				require.Len(t, res.Errors, 1)
				assert.Equal(t, "Invalid date format. Expected MM/DD/YYYY", res.Errors[0].Message)
			} else {
				assert.Empty(t, res.Errors)
			}
		})
	}
}

func TestTimeValidation(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		allow12Hour bool
		wantErr     bool
		wantWarn    bool
	}{
		{"canonical", "08:21", true, false, false},
		{"end of day", "23:59", true, false, false},
		{"hour out of range", "24:00", true, true, false},
		{"minute out of range", "08:60", true, true, false},
		{"single digit hour", "8:21", true, true, false},
		{"twelve hour tolerated", "8:21 AM", true, false, true},
		{"twelve hour no space", "11:05pm", true, false, true},
		{"twelve hour disabled", "8:21 AM", false, true, false},
		{"thirteen pm", "13:00 PM", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := &template.Template{Columns: []template.ColumnSpec{
				{Name: "incident_time", Required: true, Type: template.TypeTime, Allow12Hour: tt.allow12Hour},
			}}
			res := Validate(tpl, parseDoc(t, "incident_time\n"+tt.value+"\n"))

			if tt.wantErr {
				require.Len(t, res.Errors, 1)
				assert.Equal(t, "Invalid time format. Expected HH:MM", res.Errors[0].Message)
			} else {
				assert.Empty(t, res.Errors)
			}
			if tt.wantWarn {
				require.Len(t, res.Warnings, 1)
				assert.Equal(t, StatusWarning, res.Status)
			}
		})
	}
}

func TestNumberValidation(t *testing.T) {
	min, max := 0.0, 150.5

	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"integer in range", "42", ""},
		{"decimal in range", "150.5", ""},
		{"at lower bound", "0", ""},
		{"not a number", "forty", "Must be a number"},
		{"below min", "-1", "Value must be >= 0"},
		{"above max", "151", "Value must be <= 150.5"},
	}

	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "subject_age", Required: true, Type: template.TypeNumber, Min: &min, Max: &max},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tpl, parseDoc(t, "subject_age\n"+tt.value+"\n"))
			if tt.wantMsg == "" {
				assert.Empty(t, res.Errors)
			} else {
				require.Len(t, res.Errors, 1)
				assert.Equal(t, tt.wantMsg, res.Errors[0].Message)
				assert.Equal(t, tt.value, res.Errors[0].Value)
			}
		})
	}
}

func TestNumberUnboundedSides(t *testing.T) {
	min := 1.0
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "count", Required: true, Type: template.TypeNumber, Min: &min},
	}}

	res := Validate(tpl, parseDoc(t, "count\n999999\n"))
	assert.Empty(t, res.Errors, "no max means no upper bound")
}

func TestPatternValidation(t *testing.T) {
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{
			Name:        "case_number",
			Required:    true,
			Type:        template.TypePattern,
			Pattern:     `\d{4}-\d{4}`,
			Description: "Case number must look like 2024-0001",
		},
	}}

	good := Validate(tpl, parseDoc(t, "case_number\n2024-0001\n"))
	assert.Empty(t, good.Errors)

	bad := Validate(tpl, parseDoc(t, "case_number\nABC-1\n"))
	require.Len(t, bad.Errors, 1)
	assert.Equal(t, "Case number must look like 2024-0001", bad.Errors[0].Message)
	assert.Equal(t, "ABC-1", bad.Errors[0].Value)
}

func TestPatternMatchesUppercasedValue(t *testing.T) {
	// Patterns are written against uppercased input, so lowercase cells
	// still satisfy a letters-only rule.
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "unit_code", Required: true, Type: template.TypePattern, Pattern: `[A-Z]{2}\d{2}`},
	}}

	res := Validate(tpl, parseDoc(t, "unit_code\nkc07\n"))
	assert.Empty(t, res.Errors)

	res = Validate(tpl, parseDoc(t, "unit_code\n07kc\n"))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, `Must match pattern: [A-Z]{2}\d{2}`, res.Errors[0].Message)
}

func TestOtherTypeChecksPresenceOnly(t *testing.T) {
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "attachments", Required: true, Type: template.TypeOther},
	}}

	res := Validate(tpl, parseDoc(t, "attachments\n!!anything goes!!\n"))
	assert.Empty(t, res.Errors)

	res = Validate(tpl, parseDoc(t, "attachments,pad\n,x\n"))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Required field is empty.", res.Errors[0].Message)
}

func TestRowLengthMismatch(t *testing.T) {
	doc := parseDoc(t, "a,b,c\n\"1\",\"2\"\n")
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "a", Required: true, Type: template.TypeText},
		{Name: "b", Required: true, Type: template.TypeText},
		{Name: "c", Required: true, Type: template.TypeText},
	}}

	res := Validate(tpl, doc)

	// One structural error; the absent third field produces no cell finding.
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Empty(t, res.Errors[0].Column)
	assert.Equal(t, "Row has 2 fields, expected 3.", res.Errors[0].Message)
}

func TestExtraColumnsAreNeverCellValidated(t *testing.T) {
	doc := parseDoc(t, "incident_number,unexpected\nx,!!garbage!!\n")
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "incident_number", Required: true, Type: template.TypeText},
	}}

	res := Validate(tpl, doc)

	assert.Equal(t, []string{"unexpected"}, res.HeaderDiff.Extra)
	assert.Empty(t, res.Errors)
	assert.Equal(t, StatusPassed, res.Status)
}

func TestFindingOrdering(t *testing.T) {
	// Errors in reverse column order within rows must come out in template
	// column order, rows ascending.
	doc := parseDoc(t, "incident_number,incident_date,officer_injury\n"+
		",bad,maybe\n"+
		",13/13/2024,nope\n")
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "incident_number", Required: true, Type: template.TypeText},
		{Name: "incident_date", Required: true, Type: template.TypeDate},
		{Name: "officer_injury", Required: true, Type: template.TypeList, Values: []string{"Yes", "No"}},
	}}

	res := Validate(tpl, doc)

	require.Len(t, res.Errors, 6)
	type rc struct {
		row int
		col string
	}
	var got []rc
	for _, f := range res.Errors {
		got = append(got, rc{f.Row, f.Column})
	}
	want := []rc{
		{2, "incident_number"}, {2, "incident_date"}, {2, "officer_injury"},
		{3, "incident_number"}, {3, "incident_date"}, {3, "officer_injury"},
	}
	assert.Equal(t, want, got)
}

func TestStatusDerivation(t *testing.T) {
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "subject_id", Required: false, Type: template.TypeSubjectID},
	}}

	passed := Validate(tpl, parseDoc(t, "subject_id\nJD\n"))
	assert.Equal(t, StatusPassed, passed.Status)

	// Subject issues alone downgrade to warning, never to failed.
	warned := Validate(tpl, parseDoc(t, "subject_id\nJohn Smith\n"))
	assert.Equal(t, StatusWarning, warned.Status)
	assert.Empty(t, warned.Errors)

	failedTpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "subject_id", Required: true, Type: template.TypeSubjectID},
		{Name: "narrative", Required: false, Type: template.TypeText},
	}}
	failed := Validate(failedTpl, parseDoc(t, "subject_id,narrative\n,note\n"))
	assert.Equal(t, StatusFailed, failed.Status)
}

func TestCellValuesAreTrimmedBeforeChecks(t *testing.T) {
	doc := parseDoc(t, "officer_injury\n Yes \n")
	tpl := &template.Template{Columns: []template.ColumnSpec{
		{Name: "officer_injury", Required: true, Type: template.TypeList, Values: []string{"Yes", "No"}},
	}}

	res := Validate(tpl, doc)
	assert.Empty(t, res.Errors)
}
