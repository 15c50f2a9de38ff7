// Package report renders a stored scan result as a downloadable artifact.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
)

// ErrUnsupportedFormat is returned for formats with no writer.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Report is one exportable scan.
type Report struct {
	ScanID   string
	CourseID string
	Result   scan.Result
}

// ArtifactFormat maps a requested format to the one actually generated.
// PDF generation needs a renderer this tool does not ship; requests for
// pdf are answered with the html artifact.
func ArtifactFormat(f settings.ReportFormat) settings.ReportFormat {
	if f == settings.FormatPDF {
		return settings.FormatHTML
	}
	return f
}

// FileName names the artifact for a scan, matching the download URL shape
// /downloads/report_{id}.{format}.
func FileName(scanID string, f settings.ReportFormat) string {
	return fmt.Sprintf("report_%s.%s", scanID, ArtifactFormat(f))
}

// Write renders r in the given format.
func Write(w io.Writer, f settings.ReportFormat, r Report) error {
	switch ArtifactFormat(f) {
	case settings.FormatJSON:
		return writeJSON(w, r)
	case settings.FormatCSV:
		return writeCSV(w, r)
	case settings.FormatHTML:
		return writeHTML(w, r)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		ScanID   string      `json:"scan_id"`
		CourseID string      `json:"course_id"`
		Result   scan.Result `json:"result"`
	}{r.ScanID, r.CourseID, r.Result})
}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"scan_id", "course_id", "scanned_at", "passed", "warnings", "errors"},
		{r.ScanID, r.CourseID, r.Result.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			strconv.Itoa(r.Result.PassedCount), strconv.Itoa(r.Result.WarningCount), strconv.Itoa(r.Result.ErrorCount)},
		{"type", "title", "description", "location", "wcag_level", "wcag_criteria"},
	}
	for _, is := range r.Result.Issues {
		rows = append(rows, []string{
			string(is.Type), is.Title, is.Description, is.Location, string(is.WCAGLevel), is.WCAGCriteria,
		})
	}
	return cw.WriteAll(rows)
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Accessibility Report - Course {{.CourseID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.summary span { margin-right: 1.5rem; }
.issue { border: 1px solid #ccc; border-radius: 4px; padding: .75rem; margin: .5rem 0; }
.issue.error { border-left: 4px solid #c0392b; }
.issue.warning { border-left: 4px solid #e67e22; }
.meta { color: #666; font-size: .85rem; }
</style>
</head>
<body>
<h1>Accessibility Report</h1>
<p class="meta">Course {{.CourseID}} · scanned {{.Result.Timestamp.Format "2 Jan 2006 15:04 MST"}}</p>
<p class="summary">
<span>{{.Result.PassedCount}} passed</span>
<span>{{.Result.WarningCount}} warnings</span>
<span>{{.Result.ErrorCount}} errors</span>
</p>
{{if .Result.Issues}}
{{range .Result.Issues}}
<div class="issue {{.Type}}">
<strong>{{.Title}}</strong> <em>({{.Type}})</em>
<p>{{.Description}}</p>
<p class="meta">{{.Location}}{{if .WCAGCriteria}} · WCAG {{.WCAGLevel}} - {{.WCAGCriteria}}{{end}}</p>
</div>
{{end}}
{{else}}
<p>No accessibility issues found.</p>
{{end}}
</body>
</html>
`))

func writeHTML(w io.Writer, r Report) error {
	return htmlTmpl.Execute(w, r)
}
