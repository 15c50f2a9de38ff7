// Package server is the JSON API for the accessibility scanner: the mock
// backend the browser tool talked to, rebuilt as a real service so the
// terminal client has something to call.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ldi-tools/canvascan/internal/database/repository"
	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
)

// Server holds handler dependencies.
type Server struct {
	Log         *slog.Logger
	Exec        scan.Executor
	Scans       *repository.ScanRepo
	Settings    *settings.Store
	DownloadDir string
}

// Routes builds the chi router for the API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.CleanPath)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", s.handleStartScan)
		r.Get("/scan/{scanID}", s.handleGetScan)
		r.Post("/export/{scanID}", s.handleExport)
		r.Get("/settings", s.handleGetSettings)
		r.Post("/settings", s.handleSaveSettings)
		r.Get("/course/{courseID}", s.handleCourse)
		r.Get("/course/{courseID}/page/{pageID}", s.handlePage)
		r.Get("/course/{courseID}/assignments", s.handleAssignments)
	})
	r.Get("/downloads/*", s.handleDownload)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error("encode response", "error", err)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: code, Message: message})
}
