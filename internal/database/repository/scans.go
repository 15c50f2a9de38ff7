package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ldi-tools/canvascan/internal/scan"
)

// ErrNotFound is returned when a scan id has no row.
var ErrNotFound = errors.New("scan not found")

// StoredScan is a scans row: one completed scan with its full result.
type StoredScan struct {
	ID        string
	CourseID  string
	Status    string
	Options   scan.Options
	Result    scan.Result
	CreatedAt time.Time
}

// ScanRepo handles the scans table.
type ScanRepo struct {
	db *sql.DB
}

func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{db: db} }

func (r *ScanRepo) Insert(ctx context.Context, s StoredScan) error {
	issues, err := json.Marshal(s.Result.Issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	opts, err := json.Marshal(s.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO scans(id, course_id, status, passed, warnings, errors, issues_json, options_json, scanned_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		s.ID, s.CourseID, s.Status, s.Result.PassedCount, s.Result.WarningCount,
		s.Result.ErrorCount, string(issues), string(opts), s.Result.Timestamp.UTC())
	return err
}

func (r *ScanRepo) Get(ctx context.Context, id string) (StoredScan, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, course_id, status, passed, warnings, errors, issues_json, options_json, scanned_at, created_at
	FROM scans WHERE id = ?`, id)
	s, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredScan{}, ErrNotFound
	}
	return s, err
}

// List returns scans newest-first, optionally filtered by course.
func (r *ScanRepo) List(ctx context.Context, courseID string, limit int) ([]StoredScan, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
	SELECT id, course_id, status, passed, warnings, errors, issues_json, options_json, scanned_at, created_at
	FROM scans`
	var args []interface{}
	if courseID != "" {
		query += ` WHERE course_id = ?`
		args = append(args, courseID)
	}
	query += ` ORDER BY scanned_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredScan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScanRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(row rowScanner) (StoredScan, error) {
	var s StoredScan
	var issuesJSON, optsJSON string
	var scannedAt time.Time
	if err := row.Scan(&s.ID, &s.CourseID, &s.Status, &s.Result.PassedCount, &s.Result.WarningCount,
		&s.Result.ErrorCount, &issuesJSON, &optsJSON, &scannedAt, &s.CreatedAt); err != nil {
		return StoredScan{}, err
	}
	if err := json.Unmarshal([]byte(issuesJSON), &s.Result.Issues); err != nil {
		return StoredScan{}, fmt.Errorf("decode issues: %w", err)
	}
	if err := json.Unmarshal([]byte(optsJSON), &s.Options); err != nil {
		return StoredScan{}, fmt.Errorf("decode options: %w", err)
	}
	s.Result.Timestamp = scannedAt.UTC()
	return s, nil
}
