package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/ldi-tools/canvascan/internal/scan"
)

var testTime = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

func TestRenderResultEmptyShowsAllClear(t *testing.T) {
	r := scan.NewResult(42, nil, testTime)
	out := ansi.Strip(renderResult(r, time.UTC, "02 Jan 2006 15:04"))
	if !strings.Contains(out, "No accessibility issues found") {
		t.Fatal("missing all-clear affordance")
	}
	if !strings.Contains(out, "42 passed") {
		t.Fatal("missing passed counter")
	}
	if strings.Contains(out, "Location:") {
		t.Fatal("unexpected issue card in empty render")
	}
}

func TestRenderResultCountersAndOrder(t *testing.T) {
	issues := []scan.Issue{
		{Type: scan.IssueError, Title: "Broken Thing", Description: "d", Location: "Page A", WCAGLevel: scan.WCAGLevelA, WCAGCriteria: "1.1.1"},
		{Type: scan.IssueWarning, Title: "Dubious Thing", Description: "d", Location: "Page B", WCAGLevel: scan.WCAGLevelAA, WCAGCriteria: "1.4.3"},
		{Type: scan.IssueWarning, Title: "Another Dubious Thing", Description: "d", Location: "Page C"},
	}
	r := scan.NewResult(10, issues, testTime)
	out := ansi.Strip(renderResult(r, time.UTC, "02 Jan 2006 15:04"))

	if !strings.Contains(out, "10 passed") || !strings.Contains(out, "2 warnings") || !strings.Contains(out, "1 errors") {
		t.Fatalf("bad counters in:\n%s", out)
	}
	if !strings.Contains(out, "Scanned at 14 Feb 2026 09:30") {
		t.Fatal("missing scanned-at line")
	}
	first := strings.Index(out, "Broken Thing")
	second := strings.Index(out, "Dubious Thing")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("issue order not preserved: %d vs %d", first, second)
	}
}

func TestRenderResultLocalTimezone(t *testing.T) {
	loc := time.FixedZone("AET", 11*3600)
	r := scan.NewResult(1, nil, testTime)
	out := ansi.Strip(renderResult(r, loc, "15:04"))
	if !strings.Contains(out, "Scanned at 20:30") {
		t.Fatalf("timestamp not localized:\n%s", out)
	}
}

func TestIssueCardWCAGSuffixOnlyWhenCriteriaPresent(t *testing.T) {
	with := renderIssueCard(scan.IssueGroup{Issue: scan.Issue{
		Type: scan.IssueError, Title: "T", Description: "D", Location: "L",
		WCAGLevel: scan.WCAGLevelAA, WCAGCriteria: "1.4.3",
	}})
	if !strings.Contains(ansi.Strip(with), "WCAG AA - 1.4.3") {
		t.Fatal("missing WCAG suffix")
	}

	without := renderIssueCard(scan.IssueGroup{Issue: scan.Issue{
		Type: scan.IssueWarning, Title: "T", Description: "D", Location: "L",
	}})
	if strings.Contains(ansi.Strip(without), "WCAG") {
		t.Fatal("WCAG suffix rendered without criteria")
	}
}

func TestIssueCardSimilarAnnotation(t *testing.T) {
	g := scan.IssueGroup{
		Issue:   scan.Issue{Type: scan.IssueWarning, Title: "Low Contrast Text", Location: "Page A"},
		Similar: []scan.Issue{{Type: scan.IssueWarning, Title: "Low Contrast Texts", Location: "Page B"}},
	}
	out := ansi.Strip(renderIssueCard(g))
	if !strings.Contains(out, "+1 similar issue") {
		t.Fatalf("missing similar annotation:\n%s", out)
	}
}

func TestRenderScanError(t *testing.T) {
	out := ansi.Strip(renderScanError("course \"x\": scan timed out"))
	if !strings.Contains(out, "Scan failed") || !strings.Contains(out, "timed out") {
		t.Fatalf("bad error render:\n%s", out)
	}
}
