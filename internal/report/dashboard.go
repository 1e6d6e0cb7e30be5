package report

import (
	"bytes"
	_ "embed"
	htmltemplate "html/template"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/core"
)

//go:embed dashboard.html.tmpl
var dashboardSrc string

var dashboardTmpl = htmltemplate.Must(htmltemplate.New("dashboard").Parse(dashboardSrc))

// How many detailed findings the dashboard shows before deferring to the
// JSON report. Keeps the page usable for files with thousands of findings.
const dashboardFindingCap = 20

const dashboardExampleCap = 5

type dashboardData struct {
	Envelope

	StatusText  string
	StatusColor string
	HeadersOK   bool

	Unknown int
	Name    int
	Invalid int

	Errors     []core.Finding
	MoreErrors int

	Warnings     []core.Finding
	MoreWarnings int

	SubjectExamples []core.SubjectIssue
}

// HTML renders the envelope as a standalone dashboard page.
func HTML(e Envelope) ([]byte, error) {
	res := e.Result
	unknown, name, invalid := res.SubjectCounts()

	data := dashboardData{
		Envelope:    e,
		StatusText:  statusText(res.Status),
		StatusColor: statusColor(res.Status),
		HeadersOK:   len(res.HeaderDiff.Missing) == 0,
		Unknown:     unknown,
		Name:        name,
		Invalid:     invalid,
	}

	data.Errors, data.MoreErrors = capFindings(res.Errors)
	data.Warnings, data.MoreWarnings = capFindings(res.Warnings)

	data.SubjectExamples = res.SubjectIDIssues
	if len(data.SubjectExamples) > dashboardExampleCap {
		data.SubjectExamples = data.SubjectExamples[:dashboardExampleCap]
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func capFindings(findings []core.Finding) ([]core.Finding, int) {
	if len(findings) <= dashboardFindingCap {
		return findings, 0
	}
	return findings[:dashboardFindingCap], len(findings) - dashboardFindingCap
}

func statusText(s core.Status) string {
	switch s {
	case core.StatusFailed:
		return "Validation Failed"
	case core.StatusWarning:
		return "Warnings Found"
	default:
		return "Validation Passed"
	}
}

func statusColor(s core.Status) string {
	switch s {
	case core.StatusFailed:
		return "#e53e3e"
	case core.StatusWarning:
		return "#dd6b20"
	default:
		return "#48bb78"
	}
}
