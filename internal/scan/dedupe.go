package scan

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// IssueGroup bundles an issue with near-duplicate findings elsewhere in
// the course. Grouping is display-only; it never changes counts.
type IssueGroup struct {
	Issue Issue
	// Similar holds later issues folded into this group, in original order.
	Similar []Issue
}

// GroupSimilar folds issues whose titles are near-duplicates at the same
// WCAG criteria into the first occurrence, preserving original order.
// Two titles match when the normalized edit distance is below 0.4, the
// same cutoff the reconciler-style matching uses.
func GroupSimilar(issues []Issue) []IssueGroup {
	var groups []IssueGroup
	for _, is := range issues {
		merged := false
		for gi := range groups {
			if sameFinding(groups[gi].Issue, is) {
				groups[gi].Similar = append(groups[gi].Similar, is)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, IssueGroup{Issue: is})
		}
	}
	return groups
}

func sameFinding(a, b Issue) bool {
	if a.Type != b.Type || a.WCAGCriteria != b.WCAGCriteria {
		return false
	}
	at := strings.ToUpper(a.Title)
	bt := strings.ToUpper(b.Title)
	if at == bt {
		return true
	}
	dist := levenshtein.ComputeDistance(at, bt)
	maxlen := len(at)
	if len(bt) > maxlen {
		maxlen = len(bt)
	}
	if maxlen == 0 {
		return true
	}
	return float64(dist)/float64(maxlen) < 0.4
}
