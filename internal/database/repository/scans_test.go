package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ldi-tools/canvascan/internal/database"
	"github.com/ldi-tools/canvascan/internal/scan"
)

func testRepo(t *testing.T) *ScanRepo {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewScanRepo(db)
}

func TestInsertAndGetRoundTrips(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	want := StoredScan{
		ID:       uuid.NewString(),
		CourseID: "101",
		Status:   "completed",
		Options:  scan.DefaultOptions(),
		Result:   scan.SampleResult(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	}
	if err := repo.Insert(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.Get(ctx, want.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CourseID != "101" || got.Status != "completed" {
		t.Fatalf("row mismatch: %+v", got)
	}
	if len(got.Result.Issues) != 8 || got.Result.ErrorCount != 3 {
		t.Fatalf("result mismatch: %+v", got.Result)
	}
	if !got.Result.Timestamp.Equal(want.Result.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", got.Result.Timestamp, want.Result.Timestamp)
	}
	if got.Options != scan.DefaultOptions() {
		t.Fatalf("options = %+v", got.Options)
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	older := StoredScan{ID: "a", CourseID: "101", Status: "completed",
		Result: scan.NewResult(5, nil, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))}
	newer := StoredScan{ID: "b", CourseID: "101", Status: "completed",
		Result: scan.NewResult(7, nil, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))}
	other := StoredScan{ID: "c", CourseID: "202", Status: "completed",
		Result: scan.NewResult(1, nil, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC))}
	for _, s := range []StoredScan{older, newer, other} {
		if err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("insert %s: %v", s.ID, err)
		}
	}

	all, err := repo.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" {
		t.Fatalf("list order: %+v", all)
	}

	course, err := repo.List(ctx, "101", 0)
	if err != nil {
		t.Fatalf("list course: %v", err)
	}
	if len(course) != 2 || course[0].ID != "b" {
		t.Fatalf("course list: %+v", course)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	s := StoredScan{ID: "x", CourseID: "101", Status: "completed", Result: scan.NewResult(0, nil, time.Now().UTC())}
	if err := repo.Insert(ctx, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Delete(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
