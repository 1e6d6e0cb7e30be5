package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/core"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/document"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/logging"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/report"
	"github.com/WA-DEPS/WADEPS-Header-Tool/internal/template"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetTemplate returns the active template so the page can show which
// ruleset uploads are checked against.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.template)
}

// handleValidate validates one uploaded CSV file and returns the report.
//
// The request is multipart/form-data with a "file" part holding the CSV and
// an optional "template" part holding a replacement template JSON. The
// ?format= query selects the response form: json (default), text, or html.
// A supplied template replaces the active one for this request only.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, r, http.StatusBadRequest, "malformed multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, `missing "file" upload`)
		return
	}
	defer file.Close()

	tpl, err := s.requestTemplate(r)
	if err != nil {
		logger.Warn("rejected template upload", "error", err)
		writeError(w, r, http.StatusBadRequest, "template could not be parsed: "+err.Error())
		return
	}

	doc, err := document.Parse(file)
	if err != nil {
		// Parse failures are a distinct outcome, not a validation result.
		logger.Warn("could not process file", "file", header.Filename, "error", err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, document.ErrBinaryContent) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, r, status, "could not process file: "+err.Error())
		return
	}

	res := core.Validate(tpl, doc)
	env := report.NewEnvelope(filepath.Base(header.Filename), tpl, res)

	logger.Info("file validated",
		"file", env.File,
		"status", res.Status,
		"rows", res.RowCount,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"subject_id_issues", len(res.SubjectIDIssues),
	)

	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, report.Text(res))
	case "html":
		page, err := report.HTML(env)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "rendering dashboard failed")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	default:
		writeJSON(w, http.StatusOK, env)
	}
}

// requestTemplate resolves the template for one request: the optional
// "template" upload when present, otherwise the server's active template.
func (s *Server) requestTemplate(r *http.Request) (*template.Template, error) {
	upload, header, err := r.FormFile("template")
	if err == http.ErrMissingFile {
		return s.template, nil
	}
	if err != nil {
		return nil, err
	}
	defer upload.Close()

	data, err := io.ReadAll(upload)
	if err != nil {
		return nil, err
	}
	return template.Parse(data, uploadName(header))
}

func uploadName(header *multipart.FileHeader) string {
	if header == nil || header.Filename == "" {
		return "uploaded"
	}
	return filepath.Base(header.Filename)
}
