package ports

import (
	"context"

	"github.com/aretw0/aerosim/pkg/domain"
)

// SessionStore defines how session snapshots are kept between interactions.
// Stores are session-scoped: they are not a durable archive.
type SessionStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the live sessions.
	List(ctx context.Context) ([]string, error)
}
