package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ldi-tools/canvascan/internal/config"
	"github.com/ldi-tools/canvascan/internal/database/repository"
	"github.com/ldi-tools/canvascan/internal/report"
	"github.com/ldi-tools/canvascan/internal/scan"
	"github.com/ldi-tools/canvascan/internal/settings"
)

const (
	tabScanner  = "scanner"
	tabResults  = "results"
	tabHistory  = "history"
	tabSettings = "settings"
)

type modalState string

const (
	modalNone         modalState = ""
	modalEditCourse   modalState = "editCourse"
	modalConfirmReset modalState = "confirmReset"
)

const toastTTL = 3 * time.Second

// App ties together views.
type App struct {
	ctx   context.Context
	cfg   config.Config
	orch  *scan.Orchestrator
	scans *repository.ScanRepo
	store *settings.Store
	loc   *time.Location

	tabs *TabBar

	// scanner
	courseID string
	opts     scan.Options
	scanning bool
	spin     spinner.Model

	// results
	result  *scan.Result
	scanErr string

	// history
	history    []repository.StoredScan
	histCursor int

	// settings form
	form           settings.Settings
	settingsCursor int

	modal       modalState
	inputBuffer string

	toast    string
	toastErr bool
	toastSeq int
}

func New(ctx context.Context, cfg config.Config, orch *scan.Orchestrator, scans *repository.ScanRepo, store *settings.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return &App{
		ctx:      ctx,
		cfg:      cfg,
		orch:     orch,
		scans:    scans,
		store:    store,
		loc:      cfg.Location(),
		courseID: cfg.Scan.CourseID,
		opts:     scan.DefaultOptions(),
		spin:     sp,
		form:     store.Load(),
		tabs: NewTabBar(
			Tab{ID: tabScanner, Title: "Scanner"},
			Tab{ID: tabResults, Title: "Results"},
			Tab{ID: tabHistory, Title: "History"},
			Tab{ID: tabSettings, Title: "Settings"},
		),
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadHistory()
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if a.scans == nil {
			return historyMsg(nil)
		}
		list, err := a.scans.List(a.ctx, "", 50)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(list)
	}
}

func (a *App) startScanCmd() tea.Cmd {
	courseID, opts := a.courseID, a.opts
	run := func() tea.Msg {
		res, err := a.orch.Run(a.ctx, courseID, opts)
		if err != nil {
			return scanFailedMsg{err}
		}
		if a.scans != nil {
			stored := repository.StoredScan{
				ID:       uuid.NewString(),
				CourseID: courseID,
				Status:   "completed",
				Options:  opts,
				Result:   res,
			}
			if err := a.scans.Insert(a.ctx, stored); err != nil {
				return scanDoneMsg{Result: res, StoreErr: err}
			}
		}
		return scanDoneMsg{Result: res}
	}
	return tea.Batch(run, a.spin.Tick)
}

func (a *App) exportCmd(res scan.Result) tea.Cmd {
	format := report.ArtifactFormat(a.form.ReportFormat)
	dir := a.cfg.Server.DownloadDir
	courseID := a.courseID
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errMsg{err}
		}
		id := uuid.NewString()
		path := filepath.Join(dir, report.FileName(id, format))
		f, err := os.Create(path)
		if err != nil {
			return errMsg{err}
		}
		defer f.Close()
		rep := report.Report{ScanID: id, CourseID: courseID, Result: res}
		if err := report.Write(f, format, rep); err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{Path: path}
	}
}

func (a *App) saveSettingsCmd(v settings.Settings) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Save(v); err != nil {
			return errMsg{err}
		}
		return toastMsg("settings saved")
	}
}

func (a *App) resetSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		v, confirmed, err := a.store.Reset()
		if err != nil {
			return errMsg{err}
		}
		if !confirmed {
			return toastMsg("reset cancelled")
		}
		return settingsResetMsg(v)
	}
}

func (a *App) deleteHistoryCmd(id string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.scans.Delete(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return toastMsg("scan deleted")
		},
		a.loadHistory(),
	)
}

func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toast = text
	a.toastErr = isErr
	a.toastSeq++
	seq := a.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq}
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)

	case spinner.TickMsg:
		if !a.scanning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd

	case scanDoneMsg:
		a.scanning = false
		res := m.Result
		a.result = &res
		a.scanErr = ""
		a.tabs.Activate(tabResults)
		cmds := []tea.Cmd{a.loadHistory()}
		if m.StoreErr != nil {
			cmds = append(cmds, a.showToast("history not saved: "+m.StoreErr.Error(), true))
		}
		return a, tea.Batch(cmds...)

	case scanFailedMsg:
		if errors.Is(m.err, scan.ErrScanInFlight) {
			return a, a.showToast("a scan is already running", true)
		}
		a.scanning = false
		a.scanErr = m.err.Error()
		a.result = nil
		a.tabs.Activate(tabResults)
		return a, a.showToast("scan failed", true)

	case historyMsg:
		a.history = []repository.StoredScan(m)
		if a.histCursor >= len(a.history) {
			a.histCursor = 0
		}

	case settingsResetMsg:
		a.form = settings.Settings(m)
		return a, a.showToast("settings reset to defaults", false)

	case exportDoneMsg:
		return a, a.showToast("report written to "+m.Path, false)

	case toastMsg:
		return a, a.showToast(string(m), false)

	case errMsg:
		return a, a.showToast("error: "+m.Error(), true)

	case toastExpiredMsg:
		if m.seq == a.toastSeq {
			a.toast = ""
		}
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab", "right":
		a.tabs.MoveFocus(MoveNext)
		return a, nil
	case "shift+tab", "left":
		a.tabs.MoveFocus(MovePrevious)
		return a, nil
	case "home":
		a.tabs.MoveFocus(MoveFirst)
		return a, nil
	case "end":
		a.tabs.MoveFocus(MoveLast)
		return a, nil
	case "1":
		a.tabs.Activate(tabScanner)
		return a, nil
	case "2":
		a.tabs.Activate(tabResults)
		return a, nil
	case "3":
		a.tabs.Activate(tabHistory)
		return a, nil
	case "4":
		a.tabs.Activate(tabSettings)
		return a, nil
	}

	switch a.tabs.ActiveID() {
	case tabScanner:
		return a.handleScannerKey(m)
	case tabResults:
		return a.handleResultsKey(m)
	case tabHistory:
		return a.handleHistoryKey(m)
	case tabSettings:
		return a.handleSettingsKey(m)
	}
	return a, nil
}

func (a *App) handleScannerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "c":
		a.modal = modalEditCourse
		a.inputBuffer = a.courseID
	case "p":
		a.opts.Pages = !a.opts.Pages
	case "a":
		a.opts.Assignments = !a.opts.Assignments
	case "n":
		a.opts.Announcements = !a.opts.Announcements
	case "m":
		a.opts.Modules = !a.opts.Modules
	case "s", "enter":
		if a.scanning {
			return a, a.showToast("a scan is already running", true)
		}
		if strings.TrimSpace(a.courseID) == "" {
			return a, a.showToast("set a course id first", true)
		}
		a.scanning = true
		return a, a.startScanCmd()
	}
	return a, nil
}

func (a *App) handleResultsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "e":
		if a.result == nil {
			return a, a.showToast("nothing to export", true)
		}
		return a, a.exportCmd(*a.result)
	case "s":
		a.tabs.Activate(tabScanner)
	}
	return a, nil
}

func (a *App) handleHistoryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.histCursor > 0 {
			a.histCursor--
		}
	case "down", "j":
		if a.histCursor < len(a.history)-1 {
			a.histCursor++
		}
	case "r":
		return a, a.loadHistory()
	case "enter":
		if len(a.history) == 0 {
			return a, nil
		}
		res := a.history[a.histCursor].Result
		a.result = &res
		a.scanErr = ""
		a.tabs.Activate(tabResults)
	case "backspace", "delete", "x":
		if len(a.history) == 0 {
			return a, nil
		}
		return a, a.deleteHistoryCmd(a.history[a.histCursor].ID)
	}
	return a, nil
}

// settings form rows, in display order
const settingsFieldCount = 6

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < settingsFieldCount-1 {
			a.settingsCursor++
		}
	case "enter", " ":
		a.cycleSetting()
	case "s":
		return a, a.saveSettingsCmd(a.form)
	case "x":
		a.modal = modalConfirmReset
	}
	return a, nil
}

func (a *App) cycleSetting() {
	switch a.settingsCursor {
	case 0:
		a.form.ScanDepth = nextDepth(a.form.ScanDepth)
	case 1:
		a.form.WCAGLevel = nextWCAGLevel(a.form.WCAGLevel)
	case 2:
		a.form.EmailNotifications = !a.form.EmailNotifications
	case 3:
		a.form.AutoScan = !a.form.AutoScan
	case 4:
		a.form.ReportFormat = nextFormat(a.form.ReportFormat)
	case 5:
		a.form.IncludeScreenshots = !a.form.IncludeScreenshots
	}
}

func nextDepth(d settings.ScanDepth) settings.ScanDepth {
	switch d {
	case settings.DepthBasic:
		return settings.DepthStandard
	case settings.DepthStandard:
		return settings.DepthDeep
	default:
		return settings.DepthBasic
	}
}

func nextWCAGLevel(l scan.WCAGLevel) scan.WCAGLevel {
	switch l {
	case scan.WCAGLevelA:
		return scan.WCAGLevelAA
	case scan.WCAGLevelAA:
		return scan.WCAGLevelAAA
	default:
		return scan.WCAGLevelA
	}
}

func nextFormat(f settings.ReportFormat) settings.ReportFormat {
	switch f {
	case settings.FormatPDF:
		return settings.FormatCSV
	case settings.FormatCSV:
		return settings.FormatHTML
	case settings.FormatHTML:
		return settings.FormatJSON
	default:
		return settings.FormatPDF
	}
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resetSettingsCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalEditCourse:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
		case tea.KeyEnter:
			text := strings.TrimSpace(a.inputBuffer)
			a.modal = modalNone
			a.inputBuffer = ""
			if text != "" {
				a.courseID = text
			}
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.inputBuffer) > 0 {
				a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
			}
		case tea.KeySpace:
			a.inputBuffer += " "
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.tabs.ActiveID() {
	case tabResults:
		body = a.renderResults()
	case tabHistory:
		body = a.renderHistory()
	case tabSettings:
		body = a.renderSettingsForm()
	default:
		body = a.renderScanner()
	}

	out := a.tabs.Render() + "\n\n" + body
	if a.modal != modalNone {
		out += "\n\n" + a.renderModal()
	}
	if a.toast != "" {
		style := toastStyle
		if a.toastErr {
			style = toastErrStyle
		}
		out += "\n\n" + style.Render(a.toast)
	}
	return out
}

func checkbox(on bool) string {
	if on {
		return successStyle.Render("[x]")
	}
	return mutedStyle.Render("[ ]")
}

func (a *App) renderScanner() string {
	out := titleStyle.Render("Accessibility Scanner") + "\n"
	out += fmt.Sprintf("Course: %s\n\n", a.courseID)
	out += "Scan content:\n"
	out += fmt.Sprintf("  %s Pages          %s\n", checkbox(a.opts.Pages), keyStyle.Render("[p]"))
	out += fmt.Sprintf("  %s Assignments    %s\n", checkbox(a.opts.Assignments), keyStyle.Render("[a]"))
	out += fmt.Sprintf("  %s Announcements  %s\n", checkbox(a.opts.Announcements), keyStyle.Render("[n]"))
	out += fmt.Sprintf("  %s Modules        %s\n", checkbox(a.opts.Modules), keyStyle.Render("[m]"))
	out += "\n"
	if a.scanning {
		out += a.spin.View() + " Scanning course content...\n"
	} else {
		out += helpLine("s", "Start scan", "c", "Change course", "tab", "Switch tab", "q", "Quit")
	}
	return out
}

func (a *App) renderResults() string {
	title := titleStyle.Render("Scan Results") + "\n"
	if a.scanErr != "" {
		return title + renderScanError(a.scanErr)
	}
	if a.result == nil {
		return title + mutedStyle.Render("No scan yet. Run one from the Scanner tab.") + "\n\n" +
			helpLine("s", "Go to scanner", "tab", "Switch tab")
	}
	return title + renderResult(*a.result, a.loc, a.cfg.UI.TimeFormat) + "\n\n" +
		helpLine("e", "Export report", "s", "New scan", "tab", "Switch tab")
}

func (a *App) renderHistory() string {
	out := titleStyle.Render("Scan History") + "\n"
	if len(a.history) == 0 {
		return out + mutedStyle.Render("No stored scans.") + "\n\n" + helpLine("r", "Refresh", "tab", "Switch tab")
	}
	for i, s := range a.history {
		marker := " "
		if i == a.histCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %-16s  %d passed / %d warnings / %d errors\n",
			marker,
			s.Result.Timestamp.In(a.loc).Format(a.cfg.UI.TimeFormat),
			s.CourseID,
			s.Result.PassedCount, s.Result.WarningCount, s.Result.ErrorCount)
	}
	out += "\n" + helpLine("enter", "View", "x", "Delete", "r", "Refresh", "tab", "Switch tab")
	return out
}

func (a *App) renderSettingsForm() string {
	rows := []struct {
		label string
		value string
	}{
		{"Scan depth", string(a.form.ScanDepth)},
		{"WCAG level", string(a.form.WCAGLevel)},
		{"Email notifications", onOff(a.form.EmailNotifications)},
		{"Auto scan", onOff(a.form.AutoScan)},
		{"Report format", string(a.form.ReportFormat)},
		{"Include screenshots", onOff(a.form.IncludeScreenshots)},
	}
	out := titleStyle.Render("Settings") + "\n"
	for i, row := range rows {
		marker := " "
		if i == a.settingsCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-22s %s\n", marker, row.label, keyStyle.Render(row.value))
	}
	out += "\n" + helpLine("enter", "Change", "s", "Save", "x", "Reset to defaults", "tab", "Switch tab")
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmReset:
		return titleStyle.Render("Reset settings?") + "\nAll settings return to their defaults.\n[y] Yes  [n] No"
	case modalEditCourse:
		return titleStyle.Render("Course ID") + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	default:
		return ""
	}
}

// messages
type scanDoneMsg struct {
	Result   scan.Result
	StoreErr error
}

type scanFailedMsg struct{ err error }

type historyMsg []repository.StoredScan

type settingsResetMsg settings.Settings

type exportDoneMsg struct{ Path string }

type toastMsg string

type errMsg struct{ error }

type toastExpiredMsg struct{ seq int }
