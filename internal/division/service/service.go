// Package service hosts the single-writer actor that owns one project
// aggregate. External callers dispatch events or read immutable
// snapshots; they never mutate context fields directly.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/domain/finance"
	"github.com/creditcastor/division/internal/division/domain/machine"
	"github.com/creditcastor/division/internal/division/domain/project"
	"github.com/creditcastor/division/internal/division/storage"
	"github.com/creditcastor/division/internal/telemetry"
)

// EditLock is the collaboration lock contract. Its implementation lives
// outside this core; NoopLock serves single-user deployments.
type EditLock interface {
	Acquire(ctx context.Context, projectID, holder string) error
	Release(ctx context.Context, projectID, holder string) error
	Heartbeat(ctx context.Context, projectID, holder string) error
}

// NoopLock is an EditLock for deployments without concurrent editors.
type NoopLock struct{}

func (NoopLock) Acquire(context.Context, string, string) error   { return nil }
func (NoopLock) Release(context.Context, string, string) error   { return nil }
func (NoopLock) Heartbeat(context.Context, string, string) error { return nil }

// Stores groups the persistence collaborators of the actor.
type Stores struct {
	Projects storage.ProjectStore
	Journal  storage.EventJournal
}

// Service is the single writer of one project aggregate. Every dispatch
// is fully processed, persisted, and visible before the next is accepted.
type Service struct {
	mu      sync.Mutex
	state   machine.State
	project project.Context

	stores    Stores
	lock      EditLock
	holder    string
	emitter   *telemetry.Emitter
	amortizer finance.Amortizer
	clock     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTelemetry wires an operational telemetry emitter.
func WithTelemetry(emitter *telemetry.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithClock overrides the journal timestamp clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithAmortizer wires the black-box loan amortization collaborator.
func WithAmortizer(amortizer finance.Amortizer) Option {
	return func(s *Service) { s.amortizer = amortizer }
}

// WithEditLock wires a collaboration lock held across each dispatch on
// behalf of the named holder.
func WithEditLock(lock EditLock, holder string) Option {
	return func(s *Service) {
		s.lock = lock
		s.holder = holder
	}
}

// New creates the actor for a freshly started project.
func New(projectContext project.Context, stores Stores, opts ...Option) *Service {
	s := &Service{
		state:   machine.Initial(),
		project: projectContext,
		stores:  stores,
		lock:    NoopLock{},
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the actor for an existing project from its snapshot and
// validates the aggregate's invariants.
func Load(ctx context.Context, projectID string, stores Stores, opts ...Option) (*Service, error) {
	if stores.Projects == nil {
		return nil, fmt.Errorf("project store is not configured")
	}
	record, err := stores.Projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}
	if err := record.Context.Validate(); err != nil {
		return nil, fmt.Errorf("validate project %s: %w", projectID, err)
	}

	s := New(record.Context, stores, opts...)
	s.state = record.State
	return s, nil
}

// ProjectID returns the aggregate's identifier.
func (s *Service) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.ProjectID
}

// State returns the current machine state.
func (s *Service) State() machine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Matches reports whether the current state matches a pattern such as
// "sales_active.processing_sale".
func (s *Service) Matches(pattern string) bool {
	return s.State().Matches(pattern)
}

// Snapshot returns a deep-copied, read-only view of the aggregate.
func (s *Service) Snapshot() project.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Clone()
}

// Amortizer returns the configured loan amortization collaborator, or nil.
func (s *Service) Amortizer() finance.Amortizer {
	return s.amortizer
}

// Dispatch processes one event: reduce, journal, snapshot, telemetry.
// Events unhandled by the current state are silent no-ops and are neither
// journaled nor persisted. Invariant violations abort the dispatch and
// leave state and context unchanged.
func (s *Service) Dispatch(ctx context.Context, evt event.Event) error {
	if evt == nil {
		return fmt.Errorf("event is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Acquire(ctx, s.project.ProjectID, s.holder); err != nil {
		return fmt.Errorf("acquire edit lock: %w", err)
	}
	defer func() { _ = s.lock.Release(ctx, s.project.ProjectID, s.holder) }()

	result, err := machine.Reduce(s.state, s.project, evt)
	if err != nil {
		_ = s.emitter.Record(ctx, s.project.ProjectID, telemetry.SeverityError,
			string(evt.EventType()), err.Error())
		return err
	}
	if !result.Handled {
		_ = s.emitter.Record(ctx, s.project.ProjectID, telemetry.SeverityWarn,
			string(evt.EventType()), fmt.Sprintf("ignored in state %s", s.state.Value()))
		return nil
	}

	if s.stores.Journal != nil {
		payload, err := event.Marshal(evt)
		if err != nil {
			return err
		}
		if _, err := s.stores.Journal.AppendEvent(ctx, storage.EventRecord{
			ProjectID: s.project.ProjectID,
			Type:      evt.EventType(),
			Payload:   payload,
			Timestamp: s.clock(),
		}); err != nil {
			return fmt.Errorf("journal %s: %w", evt.EventType(), err)
		}
	}

	if s.stores.Projects != nil {
		record := storage.ProjectRecord{
			ID:        s.project.ProjectID,
			State:     result.State,
			Context:   result.Context,
			UpdatedAt: s.clock(),
		}
		if err := s.stores.Projects.SaveProject(ctx, record); err != nil {
			return fmt.Errorf("persist %s: %w", evt.EventType(), err)
		}
	}

	s.state = result.State
	s.project = result.Context

	message := fmt.Sprintf("transitioned to %s", s.state.Value())
	if result.Sale != nil {
		message = fmt.Sprintf("completed %s sale of lot %s for %s",
			result.Sale.Type, result.Sale.LotID, result.Sale.Amount)
	}
	_ = s.emitter.Record(ctx, s.project.ProjectID, telemetry.SeverityInfo,
		string(evt.EventType()), message)
	return nil
}

// Replay dispatches a sequence of events in order, stopping at the first
// invariant violation.
func (s *Service) Replay(ctx context.Context, events []event.Event) error {
	for i, evt := range events {
		if err := s.Dispatch(ctx, evt); err != nil {
			return fmt.Errorf("replay event %d (%s): %w", i+1, evt.EventType(), err)
		}
	}
	return nil
}
