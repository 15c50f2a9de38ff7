package scan

import (
	"testing"
	"time"
)

func TestNewResultDerivesCounts(t *testing.T) {
	issues := []Issue{
		{Type: IssueError, Title: "a"},
		{Type: IssueWarning, Title: "b"},
		{Type: IssueWarning, Title: "c"},
	}
	res := NewResult(10, issues, time.Unix(1700000000, 0))
	if res.ErrorCount != 1 || res.WarningCount != 2 {
		t.Fatalf("counts = %d errors, %d warnings", res.ErrorCount, res.WarningCount)
	}
	if res.PassedCount != 10 {
		t.Fatalf("passed = %d", res.PassedCount)
	}
	if !res.Consistent() {
		t.Fatalf("derived result should be consistent")
	}
}

func TestConsistentDetectsDrift(t *testing.T) {
	res := Result{ErrorCount: 3, WarningCount: 0, Issues: []Issue{{Type: IssueError}}}
	if res.Consistent() {
		t.Fatalf("expected inconsistency to be detected")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.Pages || !opts.Assignments || !opts.Announcements || opts.Modules {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	cats := opts.Categories()
	if len(cats) != 3 {
		t.Fatalf("categories = %v", cats)
	}
}

func TestSampleResultShape(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	res := SampleResult(at)
	if res.PassedCount != 127 {
		t.Fatalf("passed = %d", res.PassedCount)
	}
	if res.ErrorCount != 3 || res.WarningCount != 5 {
		t.Fatalf("counts = %d errors, %d warnings", res.ErrorCount, res.WarningCount)
	}
	if len(res.Issues) != 8 {
		t.Fatalf("issue count = %d", len(res.Issues))
	}
	if !res.Consistent() {
		t.Fatalf("sample counts must derive from issues")
	}
	if !res.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v", res.Timestamp)
	}
	if res.Issues[0].Title != "Missing Alt Text on Images" {
		t.Fatalf("issue order changed: %s", res.Issues[0].Title)
	}
}
