package state

import (
	"io"

	"github.com/alawein/ringmaster/pkg/models"
)

// RunStore handles run-history persistence.
type RunStore interface {
	RecordRun(artifact models.RunArtifact) error
	GetRun(runID string) (*RunRecord, error)
	ListRuns(limit int) ([]RunRecord, error)
}

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store is what the CLI depends on for history, keeping it decoupled
// from the concrete SQLite implementation.
type Store interface {
	io.Closer
	Migrator
	RunStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store    = (*DB)(nil)
	_ Migrator = (*DB)(nil)
	_ RunStore = (*DB)(nil)
)
