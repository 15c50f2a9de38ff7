package settings

import (
	"github.com/ldi-tools/canvascan/internal/scan"
)

// ScanDepth selects how thoroughly a scan inspects content.
type ScanDepth string

const (
	DepthBasic    ScanDepth = "basic"
	DepthStandard ScanDepth = "standard"
	DepthDeep     ScanDepth = "deep"
)

// ReportFormat selects the export artifact type.
type ReportFormat string

const (
	FormatPDF  ReportFormat = "pdf"
	FormatCSV  ReportFormat = "csv"
	FormatHTML ReportFormat = "html"
	FormatJSON ReportFormat = "json"
)

// Settings is the single per-user configuration record. It is saved
// wholesale and deleted wholesale; there is no partial update.
type Settings struct {
	ScanDepth          ScanDepth      `json:"scanDepth"`
	WCAGLevel          scan.WCAGLevel `json:"wcagLevel"`
	EmailNotifications bool           `json:"emailNotifications"`
	AutoScan           bool           `json:"autoScan"`
	ReportFormat       ReportFormat   `json:"reportFormat"`
	IncludeScreenshots bool           `json:"includeScreenshots"`
}

// Defaults is the documented out-of-the-box record.
func Defaults() Settings {
	return Settings{
		ScanDepth:          DepthStandard,
		WCAGLevel:          scan.WCAGLevelAA,
		EmailNotifications: false,
		AutoScan:           false,
		ReportFormat:       FormatPDF,
		IncludeScreenshots: false,
	}
}

func validDepth(d ScanDepth) bool {
	switch d {
	case DepthBasic, DepthStandard, DepthDeep:
		return true
	}
	return false
}

func validWCAGLevel(l scan.WCAGLevel) bool {
	switch l {
	case scan.WCAGLevelA, scan.WCAGLevelAA, scan.WCAGLevelAAA:
		return true
	}
	return false
}

func validFormat(f ReportFormat) bool {
	switch f {
	case FormatPDF, FormatCSV, FormatHTML, FormatJSON:
		return true
	}
	return false
}
