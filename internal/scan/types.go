package scan

import "time"

// IssueType is the severity of a finding.
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
)

// WCAGLevel is a WCAG conformance tier.
type WCAGLevel string

const (
	WCAGLevelA   WCAGLevel = "A"
	WCAGLevelAA  WCAGLevel = "AA"
	WCAGLevelAAA WCAGLevel = "AAA"
)

// Options selects which content categories a scan covers.
type Options struct {
	Pages         bool `json:"pages"`
	Assignments   bool `json:"assignments"`
	Announcements bool `json:"announcements"`
	Modules       bool `json:"modules"`
}

// DefaultOptions returns the category selection used when a request omits it.
func DefaultOptions() Options {
	return Options{Pages: true, Assignments: true, Announcements: true, Modules: false}
}

// Categories lists the selected category names in a stable order.
func (o Options) Categories() []string {
	var out []string
	if o.Pages {
		out = append(out, "pages")
	}
	if o.Assignments {
		out = append(out, "assignments")
	}
	if o.Announcements {
		out = append(out, "announcements")
	}
	if o.Modules {
		out = append(out, "modules")
	}
	return out
}

// Issue is a single accessibility finding. Issues are produced by an
// Executor and never mutated afterwards.
type Issue struct {
	Type         IssueType `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	WCAGLevel    WCAGLevel `json:"wcagLevel"`
	WCAGCriteria string    `json:"wcagCriteria"`
}

// Result is the outcome of one scan. WarningCount and ErrorCount are
// derived from Issues; use NewResult rather than filling counts by hand.
type Result struct {
	PassedCount  int       `json:"passed"`
	WarningCount int       `json:"warnings"`
	ErrorCount   int       `json:"errors"`
	Issues       []Issue   `json:"issues"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewResult builds a Result with counts derived from issues.
func NewResult(passed int, issues []Issue, at time.Time) Result {
	warnings, errors := Tally(issues)
	return Result{
		PassedCount:  passed,
		WarningCount: warnings,
		ErrorCount:   errors,
		Issues:       issues,
		Timestamp:    at,
	}
}

// Tally counts warnings and errors in a slice of issues.
func Tally(issues []Issue) (warnings, errors int) {
	for _, is := range issues {
		switch is.Type {
		case IssueWarning:
			warnings++
		case IssueError:
			errors++
		}
	}
	return warnings, errors
}

// Consistent reports whether the stored counts match the issue list.
// Results from external sources should be checked before they are trusted.
func (r Result) Consistent() bool {
	warnings, errors := Tally(r.Issues)
	return r.WarningCount == warnings && r.ErrorCount == errors
}
