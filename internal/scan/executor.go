package scan

import (
	"context"
	"fmt"
	"time"
)

// Executor runs one accessibility scan over the selected categories.
// Implementations must honor ctx cancellation; real checkers live behind
// this interface so orchestration never depends on how issues are found.
type Executor interface {
	Scan(ctx context.Context, courseID string, opts Options) (Result, error)
}

// Error wraps a failed or timed-out scan invocation.
type Error struct {
	CourseID string
	Timeout  bool
	Err      error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("scan of course %s timed out: %v", e.CourseID, e.Err)
	}
	return fmt.Sprintf("scan of course %s failed: %v", e.CourseID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// MockExecutor returns a fixed sample dataset. It stands in for the real
// checker during development and in the demo server.
type MockExecutor struct {
	// Now supplies result timestamps; defaults to time.Now.
	Now func() time.Time
	// Latency simulates checker work; zero means return immediately.
	Latency time.Duration
}

func (m *MockExecutor) Scan(ctx context.Context, courseID string, opts Options) (Result, error) {
	if m.Latency > 0 {
		t := time.NewTimer(m.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return SampleResult(now()), nil
}

// SampleResult is the canned dataset: 127 passed checks, 3 errors and
// 5 warnings. Counts are derived from the issue list.
func SampleResult(at time.Time) Result {
	issues := []Issue{
		{
			Type:         IssueError,
			Title:        "Missing Alt Text on Images",
			Description:  "Images must have alternative text for screen readers.",
			Location:     `Page: "Course Introduction"`,
			WCAGLevel:    WCAGLevelA,
			WCAGCriteria: "1.1.1",
		},
		{
			Type:         IssueError,
			Title:        "Empty Link Text",
			Description:  "Links must contain discernible text describing their destination.",
			Location:     `Page: "Week 1 Readings"`,
			WCAGLevel:    WCAGLevelA,
			WCAGCriteria: "2.4.4",
		},
		{
			Type:         IssueError,
			Title:        "Missing Form Labels",
			Description:  "Form inputs must have associated labels.",
			Location:     `Assignment: "Peer Review Survey"`,
			WCAGLevel:    WCAGLevelA,
			WCAGCriteria: "3.3.2",
		},
		{
			Type:         IssueWarning,
			Title:        "Low Contrast Text",
			Description:  "Text color contrast is below the 4.5:1 minimum ratio.",
			Location:     `Page: "Syllabus"`,
			WCAGLevel:    WCAGLevelAA,
			WCAGCriteria: "1.4.3",
		},
		{
			Type:         IssueWarning,
			Title:        "Heading Levels Skipped",
			Description:  "Heading structure jumps from h2 to h4.",
			Location:     `Page: "Module Overview"`,
			WCAGLevel:    WCAGLevelAA,
			WCAGCriteria: "1.3.1",
		},
		{
			Type:         IssueWarning,
			Title:        "Table Missing Headers",
			Description:  "Data tables should declare header cells for screen readers.",
			Location:     `Page: "Grading Rubric"`,
			WCAGLevel:    WCAGLevelA,
			WCAGCriteria: "1.3.1",
		},
		{
			Type:         IssueWarning,
			Title:        "Video Missing Captions",
			Description:  "Prerecorded video content should provide captions.",
			Location:     `Announcement: "Welcome Video"`,
			WCAGLevel:    WCAGLevelA,
			WCAGCriteria: "1.2.2",
		},
		{
			Type:         IssueWarning,
			Title:        "Ambiguous Link Text",
			Description:  `Link text "click here" does not describe its destination.`,
			Location:     `Assignment: "Essay 1"`,
			WCAGLevel:    WCAGLevelAAA,
			WCAGCriteria: "2.4.9",
		},
	}
	return NewResult(127, issues, at)
}
