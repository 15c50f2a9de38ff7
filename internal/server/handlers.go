package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ldi-tools/canvascan/internal/database/repository"
	"github.com/ldi-tools/canvascan/internal/report"
	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
)

// scanRequest is the POST /api/scan body. Pointer fields tell an omitted
// category apart from an explicit false so omitted ones get the defaults.
type scanRequest struct {
	CourseID      string `json:"courseId"`
	Pages         *bool  `json:"pages"`
	Assignments   *bool  `json:"assignments"`
	Announcements *bool  `json:"announcements"`
	Modules       *bool  `json:"modules"`
}

func (r scanRequest) options() scan.Options {
	opts := scan.DefaultOptions()
	if r.Pages != nil {
		opts.Pages = *r.Pages
	}
	if r.Assignments != nil {
		opts.Assignments = *r.Assignments
	}
	if r.Announcements != nil {
		opts.Announcements = *r.Announcements
	}
	if r.Modules != nil {
		opts.Modules = *r.Modules
	}
	return opts
}

// scanResponse is a stored scan with its identifier.
type scanResponse struct {
	ScanID string `json:"scan_id"`
	Status string `json:"status"`
	scan.Result
}

func toScanResponse(s repository.StoredScan) scanResponse {
	return scanResponse{ScanID: s.ID, Status: s.Status, Result: s.Result}
}

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.CourseID) == "" {
		s.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Course ID required")
		return
	}
	opts := req.options()

	s.Log.Info("starting accessibility scan", "course", req.CourseID, "categories", opts.Categories())
	res, err := s.Exec.Scan(r.Context(), req.CourseID, opts)
	if err != nil {
		s.Log.Error("scan failed", "course", req.CourseID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "SCAN_FAILED", err.Error())
		return
	}

	stored := repository.StoredScan{
		ID:       uuid.NewString(),
		CourseID: req.CourseID,
		Status:   "completed",
		Options:  opts,
		Result:   res,
	}
	if err := s.Scans.Insert(r.Context(), stored); err != nil {
		s.Log.Error("store scan", "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store scan")
		return
	}
	s.writeJSON(w, http.StatusOK, toScanResponse(stored))
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scanID")
	stored, err := s.Scans.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown scan id")
		return
	}
	if err != nil {
		s.Log.Error("load scan", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load scan")
		return
	}
	s.writeJSON(w, http.StatusOK, toScanResponse(stored))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scanID")

	// body is optional; an absent format falls back to pdf
	var body struct {
		Format string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	format := settings.ReportFormat(body.Format)
	if format == "" {
		format = settings.FormatPDF
	}

	stored, err := s.Scans.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown scan id")
		return
	}
	if err != nil {
		s.Log.Error("load scan", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load scan")
		return
	}

	name := report.FileName(id, format)
	if err := os.MkdirAll(s.DownloadDir, 0o755); err != nil {
		s.Log.Error("mkdir downloads", "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create download dir")
		return
	}
	f, err := os.Create(filepath.Join(s.DownloadDir, name))
	if err != nil {
		s.Log.Error("create artifact", "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create artifact")
		return
	}
	defer f.Close()

	rep := report.Report{ScanID: id, CourseID: stored.CourseID, Result: stored.Result}
	if err := report.Write(f, format, rep); err != nil {
		if errors.Is(err, report.ErrUnsupportedFormat) {
			s.writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		s.Log.Error("write artifact", "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to write artifact")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"download_url": "/downloads/" + name,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(strings.TrimPrefix(r.URL.Path, "/downloads/"))
	path := filepath.Join(s.DownloadDir, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "no such artifact")
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Settings.Load())
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var v settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		s.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := s.Settings.Save(v); err != nil {
		s.Log.Error("save settings", "error", err)
		s.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to save settings")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Course lookups return placeholder data until a real Canvas integration
// lands.

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")
	s.writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": "Sample Course"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pageID")
	s.writeJSON(w, http.StatusOK, map[string]string{
		"id":    id,
		"title": "Sample Page",
		"body":  "<p>Content</p>",
	})
}

func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, []map[string]string{
		{"id": "1", "name": "Assignment 1"},
	})
}
