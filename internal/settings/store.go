package settings

import (
	"encoding/json"

	"github.com/ldi-tools/canvascan/internal/scan"
)

// recordKey is the single storage slot holding the settings record.
const recordKey = "scanner_settings"

// Confirmer asks the user a yes/no question before destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Store reads and writes the settings record. Dependencies are injected
// so the TUI, the server and tests can share it.
type Store struct {
	Storage Storage
	Confirm Confirmer
}

// NewStore wires a store over the given storage.
func NewStore(st Storage) *Store {
	return &Store{Storage: st}
}

// Save serializes the record and overwrites any prior value.
func (s *Store) Save(v Settings) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Key: recordKey, Err: err}
	}
	if err := s.Storage.Set(recordKey, string(data)); err != nil {
		return &StorageError{Op: "write", Key: recordKey, Err: err}
	}
	return nil
}

// Load returns the stored record merged field-by-field over the defaults.
// A missing record, an unreadable store or malformed JSON all resolve to
// the defaults; a partially-present record keeps its valid fields and
// fills the rest from the defaults.
func (s *Store) Load() Settings {
	out := Defaults()
	raw, ok, err := s.Storage.Get(recordKey)
	if err != nil || !ok {
		return out
	}

	// Pointer fields distinguish "absent" from "zero".
	var rec struct {
		ScanDepth          *ScanDepth      `json:"scanDepth"`
		WCAGLevel          *scan.WCAGLevel `json:"wcagLevel"`
		EmailNotifications *bool           `json:"emailNotifications"`
		AutoScan           *bool           `json:"autoScan"`
		ReportFormat       *ReportFormat   `json:"reportFormat"`
		IncludeScreenshots *bool           `json:"includeScreenshots"`
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return out
	}
	if rec.ScanDepth != nil && validDepth(*rec.ScanDepth) {
		out.ScanDepth = *rec.ScanDepth
	}
	if rec.WCAGLevel != nil && validWCAGLevel(*rec.WCAGLevel) {
		out.WCAGLevel = *rec.WCAGLevel
	}
	if rec.EmailNotifications != nil {
		out.EmailNotifications = *rec.EmailNotifications
	}
	if rec.AutoScan != nil {
		out.AutoScan = *rec.AutoScan
	}
	if rec.ReportFormat != nil && validFormat(*rec.ReportFormat) {
		out.ReportFormat = *rec.ReportFormat
	}
	if rec.IncludeScreenshots != nil {
		out.IncludeScreenshots = *rec.IncludeScreenshots
	}
	return out
}

// Reset deletes the record and returns the defaults. It asks the injected
// Confirmer first; without one, or on refusal, nothing is touched and
// confirmed is false.
func (s *Store) Reset() (v Settings, confirmed bool, err error) {
	if s.Confirm == nil || !s.Confirm.Confirm("Reset all settings to defaults?") {
		return s.Load(), false, nil
	}
	if err := s.Storage.Remove(recordKey); err != nil {
		return s.Load(), true, &StorageError{Op: "remove", Key: recordKey, Err: err}
	}
	return Defaults(), true, nil
}
