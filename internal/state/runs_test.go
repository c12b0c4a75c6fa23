package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alawein/ringmaster/pkg/models"
)

// tempDBPath returns a path to a temp database file.
func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

// setupTestDB creates a new temporary database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func testArtifact(runID string, startedAt time.Time) models.RunArtifact {
	return models.RunArtifact{
		RunID:     runID,
		Label:     "repo-x",
		Workflow:  "repo-audit",
		Transport: models.TransportLocal,
		Summary: models.Summary{
			Totals: models.StatusCounts{Total: 4, Success: 3, Error: 1},
		},
		Compliance: models.Compliance{
			Passed:     false,
			Violations: []string{"success rate 0.75 below minimum 0.90"},
		},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(2 * time.Second),
	}
}

func TestOpen(t *testing.T) {
	path := tempDBPath(t)
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("database file does not exist at %s", path)
	}
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b", "c")
	db, err := Open(filepath.Join(nested, "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nested); os.IsNotExist(err) {
		t.Errorf("parent directories not created: %s", nested)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}

func TestRecordAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := db.RecordRun(testArtifact("run-1", started)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	rec, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if rec.Label != "repo-x" || rec.Workflow != "repo-audit" || rec.Transport != models.TransportLocal {
		t.Errorf("record = %+v", rec)
	}
	if rec.Counts.Total != 4 || rec.Counts.Success != 3 || rec.Counts.Error != 1 {
		t.Errorf("counts = %+v", rec.Counts)
	}
	if rec.Passed {
		t.Error("passed should round-trip as false")
	}
	if len(rec.Violations) != 1 {
		t.Errorf("violations = %v", rec.Violations)
	}
	if !rec.StartedAt.Equal(started) {
		t.Errorf("started_at = %v, want %v", rec.StartedAt, started)
	}
	if !rec.FinishedAt.Equal(started.Add(2 * time.Second)) {
		t.Errorf("finished_at = %v", rec.FinishedAt)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetRun("missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestRecordRun_DuplicateIDRejected(t *testing.T) {
	db := setupTestDB(t)
	artifact := testArtifact("run-1", time.Now().UTC())
	if err := db.RecordRun(artifact); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordRun(artifact); err == nil {
		t.Error("expected primary key violation for duplicate run id")
	}
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		artifact := testArtifact(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
		if err := db.RecordRun(artifact); err != nil {
			t.Fatal(err)
		}
	}

	records, err := db.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].RunID != "run-4" || records[2].RunID != "run-2" {
		t.Errorf("order = %s..%s, want run-4..run-2", records[0].RunID, records[2].RunID)
	}
}

func TestListRuns_DefaultLimit(t *testing.T) {
	db := setupTestDB(t)
	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		if err := db.RecordRun(testArtifact(fmt.Sprintf("run-%02d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}
	records, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(records) != 20 {
		t.Errorf("len(records) = %d, want default 20", len(records))
	}
}

func TestListRuns_EmptyViolationsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	artifact := testArtifact("run-ok", time.Now().UTC())
	artifact.Compliance = models.Compliance{Passed: true}
	if err := db.RecordRun(artifact); err != nil {
		t.Fatal(err)
	}

	rec, err := db.GetRun("run-ok")
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Passed {
		t.Error("passed should round-trip as true")
	}
	if len(rec.Violations) != 0 {
		t.Errorf("violations = %v, want none", rec.Violations)
	}
}
