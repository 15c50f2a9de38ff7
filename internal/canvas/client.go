// Package canvas is the JSON-over-HTTP client for the scanner API
// surface. There is no live Canvas backend yet; the client targets the
// mock server in cmd/canvascan-server and defines the interface shape a
// real integration must satisfy.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
)

// NetworkError is a request that failed or came back non-2xx. Status
// carries the HTTP status text when one was received.
type NetworkError struct {
	Endpoint string
	Code     int
	Status   string
	Message  string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("request %s: %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("request %s: %s", e.Endpoint, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to the scanner API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client with a bounded default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// errEnvelope matches the server's JSON error body.
type errEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("encode body: %w", err)}
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, rd)
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ne := &NetworkError{Endpoint: endpoint, Code: resp.StatusCode, Status: resp.Status}
		var env errEnvelope
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&env) == nil {
			ne.Message = env.Message
			if ne.Message == "" {
				ne.Message = env.Error
			}
		}
		return ne
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Endpoint: endpoint, Code: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// ScanRequest is the POST /api/scan body.
type ScanRequest struct {
	CourseID string `json:"courseId"`
	scan.Options
}

// ScanResponse is a stored scan with its identifier.
type ScanResponse struct {
	ScanID string `json:"scan_id"`
	scan.Result
}

// StartScan runs a scan for a course and returns the stored result.
func (c *Client) StartScan(ctx context.Context, courseID string, opts scan.Options) (ScanResponse, error) {
	var out ScanResponse
	err := c.request(ctx, http.MethodPost, "/api/scan", ScanRequest{CourseID: courseID, Options: opts}, &out)
	return out, err
}

// ScanResult fetches a previously stored scan by id.
func (c *Client) ScanResult(ctx context.Context, scanID string) (ScanResponse, error) {
	var out ScanResponse
	err := c.request(ctx, http.MethodGet, "/api/scan/"+scanID, nil, &out)
	return out, err
}

// ExportResponse points at a generated report artifact.
type ExportResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
}

// ExportReport asks the server to produce a report in the given format.
func (c *Client) ExportReport(ctx context.Context, scanID string, format settings.ReportFormat) (ExportResponse, error) {
	var out ExportResponse
	err := c.request(ctx, http.MethodPost, "/api/export/"+scanID, map[string]string{"format": string(format)}, &out)
	return out, err
}

// SaveSettings persists the settings record server-side.
func (c *Client) SaveSettings(ctx context.Context, v settings.Settings) error {
	return c.request(ctx, http.MethodPost, "/api/settings", v, nil)
}

// LoadSettings fetches the settings record.
func (c *Client) LoadSettings(ctx context.Context) (settings.Settings, error) {
	var out settings.Settings
	err := c.request(ctx, http.MethodGet, "/api/settings", nil, &out)
	return out, err
}

// Course is the course lookup payload.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is the page content payload.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Assignment is one assignment entry.
type Assignment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Course fetches course information.
func (c *Client) Course(ctx context.Context, courseID string) (Course, error) {
	var out Course
	err := c.request(ctx, http.MethodGet, "/api/course/"+courseID, nil, &out)
	return out, err
}

// Page fetches page content within a course.
func (c *Client) Page(ctx context.Context, courseID, pageID string) (Page, error) {
	var out Page
	err := c.request(ctx, http.MethodGet, "/api/course/"+courseID+"/page/"+pageID, nil, &out)
	return out, err
}

// Assignments lists a course's assignments.
func (c *Client) Assignments(ctx context.Context, courseID string) ([]Assignment, error) {
	var out []Assignment
	err := c.request(ctx, http.MethodGet, "/api/course/"+courseID+"/assignments", nil, &out)
	return out, err
}

// RemoteExecutor adapts the client to scan.Executor so the orchestrator
// can run scans against a backend instead of the in-process mock.
type RemoteExecutor struct {
	Client *Client
}

func (r *RemoteExecutor) Scan(ctx context.Context, courseID string, opts scan.Options) (scan.Result, error) {
	resp, err := r.Client.StartScan(ctx, courseID, opts)
	if err != nil {
		return scan.Result{}, err
	}
	return resp.Result, nil
}
