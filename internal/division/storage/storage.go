// Package storage defines the persistence contracts consumed by the
// division core. Implementations must round-trip the aggregate without
// violating its invariants.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/domain/machine"
	"github.com/creditcastor/division/internal/division/domain/project"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ProjectRecord is a persisted snapshot of one project's machine state and
// aggregate.
type ProjectRecord struct {
	ID        string
	State     machine.State
	Context   project.Context
	UpdatedAt time.Time
}

// ProjectStore persists project snapshots.
type ProjectStore interface {
	SaveProject(ctx context.Context, record ProjectRecord) error
	GetProject(ctx context.Context, id string) (ProjectRecord, error)
}

// EventRecord is one entry of the append-only per-project event journal.
// Seq starts at 1 and is assigned by the journal on append.
type EventRecord struct {
	ProjectID string
	Seq       uint64
	Type      event.Type
	Payload   []byte
	Timestamp time.Time
}

// EventJournal is the append-only event log.
type EventJournal interface {
	AppendEvent(ctx context.Context, record EventRecord) (uint64, error)
	ListEvents(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]EventRecord, error)
}

// TelemetryEvent records one operational telemetry entry.
type TelemetryEvent struct {
	ProjectID string
	Severity  string
	EventType string
	Message   string
	Timestamp time.Time
}

// TelemetryStore persists operational telemetry.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}
