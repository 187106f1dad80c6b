package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/aerosim/internal/logging"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock may be held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring interactions on one session
// are processed one at a time. It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store   ports.SessionStore
	tables  ports.TableLoader
	variant string

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithVariant selects the alphabet variant used for new sessions.
func WithVariant(variant string) Option {
	return func(m *Manager) {
		m.variant = variant
	}
}

// NewManager creates a new session Manager over a store and a table source.
func NewManager(store ports.SessionStore, tables ports.TableLoader, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		tables:  tables,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Table returns the table used for new sessions.
func (m *Manager) Table() (*domain.TransitionTable, error) {
	return m.tables.LoadTable(m.variant)
}

// View returns the session snapshot, starting the session if it does not exist yet.
func (m *Manager) View(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		coord, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		snap = coord.Snapshot(sessionID)
		return nil
	})
	return snap, err
}

// Apply forwards one symbol to the session's coordinator and persists the result.
// A rejected symbol is not an error: it is reported in the snapshot's LastOutcome.
func (m *Manager) Apply(ctx context.Context, sessionID string, symbol string) (*domain.Snapshot, error) {
	clean, err := SanitizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var snap *domain.Snapshot
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		coord, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}

		outcome := coord.Apply(domain.Symbol(clean))
		snap = coord.Snapshot(sessionID)
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}

		ev := domain.NewTransitionEvent(sessionID, snap.Variant, outcome)
		if outcome.Success {
			m.logger.Debug("Transition applied",
				"session_id", sessionID, "symbol", clean, "from", outcome.Previous, "to", outcome.State)
			if m.hooks.OnTransition != nil {
				m.hooks.OnTransition(ctx, ev)
			}
		} else {
			m.logger.Debug("Transition rejected",
				"session_id", sessionID, "symbol", clean, "state", outcome.State, "reason", outcome.Failure)
			if m.hooks.OnRejected != nil {
				m.hooks.OnRejected(ctx, ev)
			}
		}
		return nil
	})
	return snap, err
}

// Reset replaces the session's automaton with a fresh one in a single store write.
func (m *Manager) Reset(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		coord, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		from := coord.Current()
		coord.ResetSession()
		snap = coord.Snapshot(sessionID)

		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", sessionID, err)
		}

		m.logger.Debug("Session reset", "session_id", sessionID, "from", from)
		if m.hooks.OnReset != nil {
			m.hooks.OnReset(ctx, &domain.TransitionEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventReset, SessionID: sessionID},
				Variant:   snap.Variant,
				From:      from,
				To:        snap.Current,
			})
		}
		return nil
	})
	return snap, err
}

// Load retrieves an existing session from the store without starting it.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// loadOrStart must be called with the session lock held.
func (m *Manager) loadOrStart(ctx context.Context, sessionID string) (*Coordinator, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err == nil {
		table, err := m.tables.LoadTable(snap.Variant)
		if err != nil {
			return nil, fmt.Errorf("session %s uses an unavailable variant: %w", sessionID, err)
		}
		coord, err := RestoreCoordinator(table, snap)
		if err != nil {
			return nil, fmt.Errorf("failed to restore session %s: %w", sessionID, err)
		}
		return coord, nil
	}

	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}

	table, err := m.tables.LoadTable(m.variant)
	if err != nil {
		return nil, err
	}
	coord := NewCoordinator(table)

	// Persist immediately to reserve the ID
	if err := m.store.Save(ctx, sessionID, coord.Snapshot(sessionID)); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("Session started", "session_id", sessionID, "variant", table.Variant())
	return coord, nil
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
