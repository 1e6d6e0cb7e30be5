// Package report renders validation results for humans and machines.
//
// All renderers are pure projections of the same core.Result: nothing is
// present in one output form and absent from another. The Envelope adds the
// per-run metadata (run ID, file name, timestamp) that the engine itself
// must not carry, keeping Validate deterministic.
package report

import (
	"encoding/json"
	"time"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/core"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
	"github.com/google/uuid"
)

// Envelope wraps an immutable Result with run metadata for persistence.
type Envelope struct {
	RunID           string       `json:"runId"`
	File            string       `json:"file"`
	GeneratedAt     time.Time    `json:"generatedAt"`
	TemplateVersion string       `json:"templateVersion,omitempty"`
	TemplateSource  string       `json:"templateSource,omitempty"`
	Result          *core.Result `json:"result"`
}

// NewEnvelope stamps a result with a fresh run ID and UTC timestamp.
func NewEnvelope(file string, tpl *template.Template, res *core.Result) Envelope {
	return Envelope{
		RunID:           uuid.NewString(),
		File:            file,
		GeneratedAt:     time.Now().UTC(),
		TemplateVersion: tpl.Version,
		TemplateSource:  tpl.Source,
		Result:          res,
	}
}

// JSON renders the envelope as indented JSON, the machine-readable report.
func (e Envelope) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
