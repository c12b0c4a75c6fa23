package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alawein/ringmaster/pkg/models"
)

// RunRecord is one row of run history.
type RunRecord struct {
	RunID      string              `json:"run_id"`
	Label      string              `json:"label"`
	Workflow   string              `json:"workflow"`
	Transport  models.Transport    `json:"transport"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Counts     models.StatusCounts `json:"counts"`
	Passed     bool                `json:"passed"`
	Violations []string            `json:"violations,omitempty"`
}

// ErrRunNotFound is returned when a run id has no history row.
var ErrRunNotFound = errors.New("run not found")

// RecordRun persists the outcome of one workflow run.
func (db *DB) RecordRun(artifact models.RunArtifact) error {
	violations, err := json.Marshal(artifact.Compliance.Violations)
	if err != nil {
		return fmt.Errorf("marshal violations: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO runs (run_id, label, workflow, transport, started_at, finished_at,
			total, success, error, timeout, skipped, passed, violations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		artifact.RunID, artifact.Label, artifact.Workflow, string(artifact.Transport),
		formatTime(artifact.StartedAt), formatTime(artifact.FinishedAt),
		artifact.Summary.Totals.Total, artifact.Summary.Totals.Success,
		artifact.Summary.Totals.Error, artifact.Summary.Totals.Timeout,
		artifact.Summary.Totals.Skipped,
		boolToInt(artifact.Compliance.Passed), string(violations),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// GetRun retrieves one run by id.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	row := db.QueryRow(`
		SELECT run_id, label, workflow, transport, started_at, finished_at,
			total, success, error, timeout, skipped, passed, violations
		FROM runs WHERE run_id = ?
	`, runID)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0
// means a default of 20.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, label, workflow, transport, started_at, finished_at,
			total, success, error, timeout, skipped, passed, violations
		FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var rec RunRecord
	var transport, startedAt, finishedAt string
	var passed int
	var violations sql.NullString

	err := s.Scan(&rec.RunID, &rec.Label, &rec.Workflow, &transport, &startedAt, &finishedAt,
		&rec.Counts.Total, &rec.Counts.Success, &rec.Counts.Error, &rec.Counts.Timeout,
		&rec.Counts.Skipped, &passed, &violations)
	if err != nil {
		return nil, err
	}

	rec.Transport = models.Transport(transport)
	rec.StartedAt, _ = parseTime(startedAt)
	rec.FinishedAt, _ = parseTime(finishedAt)
	rec.Passed = passed != 0
	if violations.Valid && violations.String != "" {
		if err := json.Unmarshal([]byte(violations.String), &rec.Violations); err != nil {
			return nil, fmt.Errorf("parse violations: %w", err)
		}
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
