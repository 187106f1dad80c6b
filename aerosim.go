package aerosim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/aerosim/internal/logging"
	"github.com/aretw0/aerosim/pkg/adapters/memory"
	"github.com/aretw0/aerosim/pkg/alphabet"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
	"github.com/aretw0/aerosim/pkg/session"
)

// Version is the release of the simulator.
const Version = "0.3.0"

// Simulator is the high-level entry point for the AeroSim library.
// It wraps the session Manager and provides a simplified API for consumers.
type Simulator struct {
	manager  *session.Manager
	registry *alphabet.Registry
	table    *domain.TransitionTable

	variant string
	custom  []*domain.TransitionTable
	store   ports.SessionStore
	locker  ports.DistributedLocker
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

var _ ports.Simulator = (*Simulator)(nil)

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithVariant selects the alphabet variant for new sessions (default: named).
func WithVariant(name string) Option {
	return func(s *Simulator) {
		s.variant = name
	}
}

// WithTable registers a custom table and selects it for new sessions.
func WithTable(table *domain.TransitionTable) Option {
	return func(s *Simulator) {
		s.custom = append(s.custom, table)
		s.variant = table.Variant()
	}
}

// WithCustomTables registers extra variants without selecting them.
func WithCustomTables(tables ...*domain.TransitionTable) Option {
	return func(s *Simulator) {
		s.custom = append(s.custom, tables...)
	}
}

// WithRegistry injects the variant registry, e.g. one shared with other components.
func WithRegistry(r *alphabet.Registry) Option {
	return func(s *Simulator) {
		s.registry = r
	}
}

// WithStore injects a session store, bypassing the default in-memory one.
func WithStore(store ports.SessionStore) Option {
	return func(s *Simulator) {
		s.store = store
	}
}

// WithLocker enables distributed locking across replicas sharing a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Simulator) {
		s.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the simulator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New initializes a Simulator. Without options it runs the named alphabet on
// an in-memory store.
func New(opts ...Option) (*Simulator, error) {
	s := &Simulator{variant: alphabet.Default}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.registry == nil {
		s.registry = alphabet.NewRegistry()
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}

	for _, t := range s.custom {
		if existing, err := s.registry.LoadTable(t.Variant()); err == nil && existing == t {
			continue
		}
		if err := s.registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register variant %q: %w", t.Variant(), err)
		}
	}

	table, err := s.registry.LoadTable(s.variant)
	if err != nil {
		return nil, err
	}
	s.table = table

	mgrOpts := []session.Option{
		session.WithVariant(table.Variant()),
		session.WithLogger(s.logger),
		session.WithLifecycleHooks(s.hooks),
	}
	if s.locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(s.locker))
	}
	s.manager = session.NewManager(s.store, s.registry, mgrOpts...)

	s.logger.Debug("Simulator initialized", "variant", table.Variant(), "alphabet", table.Alphabet().Strings())
	return s, nil
}

// Apply feeds one symbol to the session's automaton, starting the session if needed.
// A rejected symbol is reported in the returned snapshot's LastOutcome.
func (s *Simulator) Apply(ctx context.Context, sessionID string, symbol string) (*domain.Snapshot, error) {
	return s.manager.Apply(ctx, sessionID, symbol)
}

// Reset puts the session back ON_GROUND with a fresh history.
func (s *Simulator) Reset(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return s.manager.Reset(ctx, sessionID)
}

// View returns the session snapshot, starting the session if needed.
func (s *Simulator) View(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return s.manager.View(ctx, sessionID)
}

// Delete ends the session.
func (s *Simulator) Delete(ctx context.Context, sessionID string) error {
	return s.manager.Delete(ctx, sessionID)
}

// Sessions lists live session IDs.
func (s *Simulator) Sessions(ctx context.Context) ([]string, error) {
	return s.manager.List(ctx)
}

// Table returns the table used for new sessions.
func (s *Simulator) Table() *domain.TransitionTable {
	return s.table
}

// LoadTable resolves any registered variant.
func (s *Simulator) LoadTable(variant string) (*domain.TransitionTable, error) {
	return s.registry.LoadTable(variant)
}

// Alphabet declares the symbols accepted by new sessions.
func (s *Simulator) Alphabet() domain.Alphabet {
	return s.table.Alphabet()
}

// Variants lists every registered variant name.
func (s *Simulator) Variants() []string {
	return s.registry.ListVariants()
}

// Store returns the session store.
func (s *Simulator) Store() ports.SessionStore {
	return s.store
}
