package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ldi-tools/canvascan/internal/config"
	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
)

func newTestApp() (*App, *settings.MemStorage) {
	mem := &settings.MemStorage{}
	store := &settings.Store{
		Storage: mem,
		Confirm: settings.ConfirmFunc(func(string) bool { return true }),
	}
	cfg := config.Config{}
	cfg.Scan.CourseID = "demo-course"
	cfg.UI.TimeFormat = "02 Jan 2006 15:04"
	orch := scan.NewOrchestrator(&scan.MockExecutor{
		Now: func() time.Time { return time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC) },
	})
	return New(context.Background(), cfg, orch, nil, store), mem
}

func press(t *testing.T, a *App, key string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "home":
		msg = tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := a.Update(msg)
	if next.(*App) != a {
		t.Fatalf("Update returned a different model")
	}
	return cmd
}

// exec runs a command and flattens any batch into its messages without
// feeding them back.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, exec(c)...)
	}
	return out
}

func TestTabKeysNavigate(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "tab")
	if got := a.tabs.ActiveID(); got != tabResults {
		t.Fatalf("after tab: %q", got)
	}
	press(t, a, "shift+tab")
	press(t, a, "shift+tab")
	if got := a.tabs.ActiveID(); got != tabSettings {
		t.Fatalf("shift+tab did not wrap: %q", got)
	}
	press(t, a, "home")
	if got := a.tabs.ActiveID(); got != tabScanner {
		t.Fatalf("home: %q", got)
	}
	press(t, a, "3")
	if got := a.tabs.ActiveID(); got != tabHistory {
		t.Fatalf("digit key: %q", got)
	}
}

func TestScanFlowLandsOnResults(t *testing.T) {
	a, _ := newTestApp()
	cmd := press(t, a, "s")
	if !a.scanning {
		t.Fatal("scanning flag not set")
	}
	var done *scanDoneMsg
	for _, msg := range exec(cmd) {
		if m, ok := msg.(scanDoneMsg); ok {
			done = &m
		}
	}
	if done == nil {
		t.Fatal("no scanDoneMsg from start command")
	}
	a.Update(*done)
	if a.scanning {
		t.Fatal("scanning flag still set")
	}
	if a.tabs.ActiveID() != tabResults {
		t.Fatalf("active tab = %q, want results", a.tabs.ActiveID())
	}
	view := ansi.Strip(a.View())
	if !strings.Contains(view, "127 passed") || !strings.Contains(view, "3 errors") {
		t.Fatalf("results view missing counters:\n%s", view)
	}
}

func TestScanFailureRendersErrorAffordance(t *testing.T) {
	a, _ := newTestApp()
	a.Update(scanFailedMsg{err: &scan.Error{CourseID: "x", Timeout: true, Err: context.DeadlineExceeded}})
	if a.tabs.ActiveID() != tabResults {
		t.Fatal("failure did not switch to results")
	}
	view := ansi.Strip(a.View())
	if !strings.Contains(view, "Scan failed") {
		t.Fatalf("missing failure affordance:\n%s", view)
	}
}

func TestSecondStartWhileScanningOnlyToasts(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "s")
	before := a.tabs.ActiveID()
	press(t, a, "s")
	if a.tabs.ActiveID() != before {
		t.Fatal("second start changed tabs")
	}
	if a.toast == "" {
		t.Fatal("second start produced no toast")
	}
	a.Update(scanFailedMsg{err: scan.ErrScanInFlight})
	if !a.scanning {
		t.Fatal("in-flight rejection cleared the scanning flag")
	}
}

func TestSettingsCycleSaveLoad(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "4")
	press(t, a, "enter") // standard -> deep
	cmd := press(t, a, "s")
	msgs := exec(cmd)
	if len(msgs) != 1 {
		t.Fatalf("save produced %d messages", len(msgs))
	}
	if _, ok := msgs[0].(toastMsg); !ok {
		t.Fatalf("save produced %T, want toastMsg", msgs[0])
	}
	if got := a.store.Load().ScanDepth; got != settings.DepthDeep {
		t.Fatalf("stored depth = %q", got)
	}
}

func TestSettingsResetModalConfirm(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "4")
	press(t, a, "enter")
	exec(press(t, a, "s"))

	press(t, a, "x")
	if a.modal != modalConfirmReset {
		t.Fatal("reset modal not open")
	}
	cmd := press(t, a, "y")
	msgs := exec(cmd)
	if len(msgs) != 1 {
		t.Fatalf("reset produced %d messages", len(msgs))
	}
	a.Update(msgs[0])
	if a.form != settings.Defaults() {
		t.Fatalf("form after reset = %+v", a.form)
	}
	if got := a.store.Load(); got != settings.Defaults() {
		t.Fatalf("stored after reset = %+v", got)
	}
}

func TestSettingsResetModalDecline(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "4")
	press(t, a, "x")
	cmd := press(t, a, "n")
	if a.modal != modalNone {
		t.Fatal("modal still open after decline")
	}
	if cmd != nil {
		t.Fatal("decline issued a command")
	}
}

func TestCourseEditModal(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "c")
	if a.modal != modalEditCourse {
		t.Fatal("course modal not open")
	}
	// wipe the prefilled value, type a new one
	for range "demo-course" {
		a.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	for _, r := range "BIO-301" {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	press(t, a, "enter")
	if a.courseID != "BIO-301" {
		t.Fatalf("courseID = %q", a.courseID)
	}
}

func TestOptionTogglesFeedScan(t *testing.T) {
	a, _ := newTestApp()
	press(t, a, "m")
	press(t, a, "p")
	want := scan.Options{Pages: false, Assignments: true, Announcements: true, Modules: true}
	if a.opts != want {
		t.Fatalf("opts = %+v", a.opts)
	}
}
