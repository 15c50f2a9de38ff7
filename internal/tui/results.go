package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/ldi-tools/canvascan/internal/scan"
)

const cardWidth = 72

// renderResult draws the full results view: counters, scanned-at line and
// one card per issue group in original order. An empty issue list renders
// the all-clear affordance instead of cards.
func renderResult(r scan.Result, loc *time.Location, timeFormat string) string {
	var b strings.Builder
	b.WriteString(renderCounters(r))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Scanned at " + r.Timestamp.In(loc).Format(timeFormat)))
	b.WriteString("\n\n")

	if len(r.Issues) == 0 {
		b.WriteString(successStyle.Render("✓ No accessibility issues found. Nice work!"))
		return b.String()
	}

	groups := scan.GroupSimilar(r.Issues)
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderIssueCard(g))
	}
	return b.String()
}

func renderCounters(r scan.Result) string {
	return fmt.Sprintf("%s  %s  %s",
		passedBadgeStyle.Render(fmt.Sprintf("%d passed", r.PassedCount)),
		warningBadgeStyle.Render(fmt.Sprintf("%d warnings", r.WarningCount)),
		errorBadgeStyle.Render(fmt.Sprintf("%d errors", r.ErrorCount)),
	)
}

func renderIssueCard(g scan.IssueGroup) string {
	is := g.Issue
	badge := warningBadgeStyle.Render("WARNING")
	style := cardWarnStyle
	if is.Type == scan.IssueError {
		badge = errorBadgeStyle.Render("ERROR")
		style = cardErrorStyle
	}

	lines := []string{
		fmt.Sprintf("%s  %s", badge, titleStyle.Render(is.Title)),
		ansi.Truncate(is.Description, cardWidth, "…"),
		mutedStyle.Render("Location: " + is.Location),
	}
	if is.WCAGCriteria != "" {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("WCAG %s - %s", is.WCAGLevel, is.WCAGCriteria)))
	}
	if n := len(g.Similar); n > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d similar issue(s)", n)))
	}
	return style.Width(cardWidth).Render(strings.Join(lines, "\n"))
}

// renderScanError draws the failure affordance shown when a scan cannot
// complete.
func renderScanError(msg string) string {
	return errorStyle.Render("✗ Scan failed") + "\n" + mutedStyle.Render(msg) + "\n\n" +
		helpLine("s", "Retry scan", "tab", "Switch tab")
}
