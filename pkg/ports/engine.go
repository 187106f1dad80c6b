package ports

import (
	"context"

	"github.com/aretw0/aerosim/pkg/domain"
)

// Simulator is the session-facing API used by adapters (HTTP, MCP, CLI).
// Every call is scoped to one session ID; sessions share no mutable state.
type Simulator interface {
	// Apply forwards one symbol to the session's automaton and returns the updated snapshot.
	// Rejected symbols are reported in Snapshot.LastOutcome, not as an error.
	Apply(ctx context.Context, sessionID string, symbol string) (*domain.Snapshot, error)

	// Reset replaces the session's automaton with a fresh one.
	Reset(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// View returns the current snapshot, starting the session if needed.
	View(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete ends the session.
	Delete(ctx context.Context, sessionID string) error

	// Sessions lists live session IDs.
	Sessions(ctx context.Context) ([]string, error)

	// Table returns the transition table used for new sessions (alphabet declaration and edges).
	Table() *domain.TransitionTable

	// LoadTable resolves the table of a variant, e.g. the one recorded in a snapshot.
	LoadTable(variant string) (*domain.TransitionTable, error)
}
