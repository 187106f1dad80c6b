package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID, "named")
		snap.Current = domain.StateTakingOff
		snap.History = append(snap.History, domain.HistoryEntry{From: domain.StateOnGround, To: domain.StateTakingOff})
		snap.LastOutcome = domain.Outcome{
			Success:  true,
			Message:  "Transition successful to TAKING_OFF via start_takeoff",
			Symbol:   domain.SymbolStartTakeoff,
			Previous: domain.StateOnGround,
			State:    domain.StateTakingOff,
		}

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Current, loaded.Current)
		assert.Equal(t, snap.Variant, loaded.Variant)
		assert.Equal(t, snap.History, loaded.History)
		assert.Equal(t, snap.LastOutcome, loaded.LastOutcome)
	})

	t.Run("Saved Snapshot Is Isolated", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID, "named")
		require.NoError(t, store.Save(ctx, sessionID, snap))

		// Mutating the caller's copy must not leak into the store.
		snap.History = append(snap.History, domain.HistoryEntry{From: domain.StateOnGround, To: domain.StateEmergency})
		snap.Current = domain.StateEmergency

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateOnGround, loaded.Current)
		assert.Len(t, loaded.History, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSnapshot(sessionID, "named"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSnapshot(id1, "named"))
		_ = store.Save(ctx, id2, domain.NewSnapshot(id2, "binary"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
