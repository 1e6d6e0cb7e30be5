// Package batch is the folder-scanning host adapter. It walks an input
// directory for CSV submissions, validates each one against the active
// template, and writes JSON, text and HTML reports to an output directory.
//
// Every file is an independent, stateless run, so files are processed in
// parallel with a bounded worker count and no shared mutable state beyond
// the collected summary.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/core"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/document"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/logging"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/report"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner validates every CSV file in InputDir against Template.
type Runner struct {
	Template  *template.Template
	InputDir  string
	OutputDir string
	Workers   int
}

// FileSummary is the per-file line item of a batch run.
type FileSummary struct {
	File          string `json:"file"`
	Status        string `json:"status"` // passed, warning, failed, or error
	Rows          int    `json:"rows"`
	Errors        int    `json:"errors"`
	Warnings      int    `json:"warnings"`
	SubjectIssues int    `json:"subjectIdIssues"`

	// Error is set when the file could not be processed at all
	// (unreadable or not parseable as CSV). No reports are written then.
	Error string `json:"error,omitempty"`

	Reports []string `json:"reports,omitempty"`
}

// Summary is the overall outcome of one batch run.
type Summary struct {
	RunID           string        `json:"runId"`
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"durationNs"`
	TemplateVersion string        `json:"templateVersion"`
	TemplateSource  string        `json:"templateSource"`
	TotalFiles      int           `json:"totalFiles"`
	Passed          int           `json:"passed"`
	Warned          int           `json:"warned"`
	Failed          int           `json:"failed"`
	Unprocessable   int           `json:"unprocessable"`
	Files           []FileSummary `json:"files"`
}

// Run scans the input directory and validates every CSV file found.
// It returns the summary even when individual files fail; only setup
// problems (unreadable directories) return an error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	entries, err := os.ReadDir(r.InputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", r.InputDir, err)
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", r.OutputDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	summary := &Summary{
		RunID:           uuid.NewString(),
		StartedAt:       time.Now().UTC(),
		TemplateVersion: r.Template.Version,
		TemplateSource:  r.Template.Source,
		TotalFiles:      len(files),
		Files:           make([]FileSummary, len(files)),
	}

	logger := logging.WithFields(ctx, "run_id", summary.RunID)
	logger.Info("batch run starting",
		"input_dir", r.InputDir,
		"files", len(files),
		"template_version", r.Template.Version,
	)

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs := r.processFile(gctx, name)
			mu.Lock()
			summary.Files[i] = fs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fs := range summary.Files {
		switch fs.Status {
		case string(core.StatusPassed):
			summary.Passed++
		case string(core.StatusWarning):
			summary.Warned++
		case string(core.StatusFailed):
			summary.Failed++
		default:
			summary.Unprocessable++
		}
	}
	summary.Duration = time.Since(summary.StartedAt)

	if err := r.writeSummary(summary); err != nil {
		return nil, err
	}

	logger.Info("batch run complete",
		"passed", summary.Passed,
		"warned", summary.Warned,
		"failed", summary.Failed,
		"unprocessable", summary.Unprocessable,
		"duration_ms", summary.Duration.Milliseconds(),
	)

	return summary, nil
}

// processFile validates a single CSV file and writes its reports.
// Parse failures become an "error" summary entry, never a run abort.
func (r *Runner) processFile(ctx context.Context, name string) FileSummary {
	logger := logging.WithFields(ctx, "file", name)

	f, err := os.Open(filepath.Join(r.InputDir, name))
	if err != nil {
		logger.Error("could not open file", "error", err)
		return FileSummary{File: name, Status: "error", Error: err.Error()}
	}
	defer f.Close()

	doc, err := document.Parse(f)
	if err != nil {
		logger.Error("could not process file", "error", err)
		return FileSummary{File: name, Status: "error", Error: err.Error()}
	}

	res := core.Validate(r.Template, doc)
	env := report.NewEnvelope(name, r.Template, res)

	paths, err := r.writeReports(name, env)
	if err != nil {
		logger.Error("writing reports failed", "error", err)
		return FileSummary{File: name, Status: "error", Error: err.Error()}
	}

	logger.Info("file validated",
		"status", res.Status,
		"rows", res.RowCount,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"subject_id_issues", len(res.SubjectIDIssues),
	)

	return FileSummary{
		File:          name,
		Status:        string(res.Status),
		Rows:          res.RowCount,
		Errors:        len(res.Errors),
		Warnings:      len(res.Warnings),
		SubjectIssues: len(res.SubjectIDIssues),
		Reports:       paths,
	}
}

// writeReports persists the JSON, text and HTML forms of one result and
// returns the written paths.
func (r *Runner) writeReports(name string, env report.Envelope) ([]string, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	jsonBytes, err := env.JSON()
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	htmlBytes, err := report.HTML(env)
	if err != nil {
		return nil, fmt.Errorf("rendering dashboard: %w", err)
	}

	outputs := []struct {
		suffix string
		data   []byte
	}{
		{"_validation.json", jsonBytes},
		{"_report.txt", []byte(report.Text(env.Result))},
		{"_dashboard.html", htmlBytes},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(r.OutputDir, stem+out.suffix)
		if err := os.WriteFile(path, out.data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeSummary persists the run summary JSON next to the per-file reports.
func (r *Runner) writeSummary(summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	path := filepath.Join(r.OutputDir, fmt.Sprintf("validation_summary_%s.json", summary.RunID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}
