package report

import (
	"fmt"
	"strings"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/core"
)

const rule = "============================================================"

// Text renders a result as a sectioned, human-readable report. Every field
// of the Result appears here; the text and JSON forms are content-equivalent.
func Text(res *core.Result) string {
	var b strings.Builder

	b.WriteString("WADEPS VALIDATION REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(res.Status)))
	fmt.Fprintf(&b, "Rows validated: %d\n", res.RowCount)
	b.WriteString("\n")

	writeHeaderSection(&b, res.HeaderDiff)
	writeFindingSection(&b, "DATA VALIDATION ERRORS", res.Errors)
	writeFindingSection(&b, "WARNINGS", res.Warnings)
	writeSubjectSection(&b, res)
	writeRecommendations(&b, res)

	b.WriteString(rule + "\n")
	return b.String()
}

func writeHeaderSection(b *strings.Builder, diff core.HeaderDiff) {
	b.WriteString("HEADER VALIDATION:\n")
	fmt.Fprintf(b, "  Matching headers (%d):\n", len(diff.Matched))
	for _, h := range diff.Matched {
		fmt.Fprintf(b, "    = %s\n", h)
	}

	if len(diff.Missing) > 0 {
		fmt.Fprintf(b, "  Missing headers (%d):\n", len(diff.Missing))
		for _, h := range diff.Missing {
			fmt.Fprintf(b, "    - %s\n", h)
		}
	}

	if len(diff.Extra) > 0 {
		fmt.Fprintf(b, "  Extra headers (%d):\n", len(diff.Extra))
		for _, h := range diff.Extra {
			if strings.ContainsAny(h, "\r\n") {
				fmt.Fprintf(b, "    + header has line break: %q\n", h)
			} else {
				fmt.Fprintf(b, "    + %s\n", h)
			}
		}
		b.WriteString("    FIX: check for hidden characters in the header row\n")
	}
	b.WriteString("\n")
}

func writeFindingSection(b *strings.Builder, title string, findings []core.Finding) {
	fmt.Fprintf(b, "%s (%d):\n", title, len(findings))
	for i, f := range findings {
		writeFinding(b, i+1, f)
	}
	b.WriteString("\n")
}

func writeFinding(b *strings.Builder, n int, f core.Finding) {
	if f.Column != "" {
		fmt.Fprintf(b, "  %d. Row %d, %s: %s\n", n, f.Row, f.Column, f.Message)
	} else {
		fmt.Fprintf(b, "  %d. Row %d: %s\n", n, f.Row, f.Message)
	}
	if f.Value != "" {
		fmt.Fprintf(b, "     Value: %q\n", f.Value)
	}
}

func writeSubjectSection(b *strings.Builder, res *core.Result) {
	unknown, name, invalid := res.SubjectCounts()
	fmt.Fprintf(b, "SUBJECT ID ISSUES (%d):\n", len(res.SubjectIDIssues))
	if len(res.SubjectIDIssues) > 0 {
		fmt.Fprintf(b, "  Unknown values: %d\n", unknown)
		fmt.Fprintf(b, "  Full names: %d\n", name)
		fmt.Fprintf(b, "  Invalid format: %d\n", invalid)
		for i, issue := range res.SubjectIDIssues {
			writeFinding(b, i+1, issue.Finding)
		}
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, res *core.Result) {
	b.WriteString("RECOMMENDATIONS:\n")
	if len(res.HeaderDiff.Missing) > 0 {
		b.WriteString("  - Fix missing headers before resubmission\n")
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(b, "  - Address %d critical validation errors\n", len(res.Errors))
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(b, "  - Review %d warnings for data quality\n", len(res.Warnings))
	}
	if n := len(res.SubjectIDIssues); n > 0 {
		fmt.Fprintf(b, "  - Fix %d subject ID format issues\n", n)
	}
	if res.Status == core.StatusPassed {
		b.WriteString("  - File is ready for submission\n")
	}
	b.WriteString("\n")
}
