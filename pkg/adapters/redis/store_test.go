package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/aerosim/pkg/adapters/redis"
	"github.com/aretw0/aerosim/pkg/alphabet"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
	"github.com/aretw0/aerosim/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	// 1. Save
	err := store.Save(ctx, sessionID, domain.NewSnapshot(sessionID, alphabet.Named))
	assert.NoError(t, err)

	// 2. Verify List (immediately)
	sessions, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// 5. Verify List (lazily cleaned up)
	// The index score is wall-clock based, so real time has to pass as well.
	time.Sleep(1100 * time.Millisecond)

	sessions, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	// Custom Prefix
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	sessionID := "my-session"

	err := store.Save(ctx, sessionID, domain.NewSnapshot(sessionID, alphabet.Named))
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:s:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, sessionID)
}

func TestRedisStore_ReservedLookingIDs(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Hour))
	ctx := context.Background()

	for _, id := range []string{"a", "index", "lock:a", "b"} {
		require.NoError(t, store.Save(ctx, id, domain.NewSnapshot(id, alphabet.Named)), "save %q", id)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "index", "lock:a", "b"}, list)

	snap, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, "index", snap.SessionID)
	assert.True(t, mr.Exists(redis.DefaultPrefix+"index"))

	require.NoError(t, store.Delete(ctx, "index"))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "lock:a", "b"}, list)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"s:broken", "{not json"))

	_, err := store.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrCorruptHistory)
}

func TestRedisStore_WithManager(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, redis.DefaultPrefix)
	ctx := context.Background()

	mgr := session.NewManager(store, alphabet.NewRegistry(), session.WithLocker(locker))
	_, err := mgr.Apply(ctx, "pilot", "start_takeoff")
	require.NoError(t, err)
	_, err = mgr.Apply(ctx, "pilot", "emergency")
	require.NoError(t, err)

	// A second manager sharing the same Redis resumes the ledger.
	other := session.NewManager(redis.NewFromClient(client), alphabet.NewRegistry(), session.WithLocker(locker))
	snap, err := other.Apply(ctx, "pilot", "touch_down")
	require.NoError(t, err)
	assert.Equal(t, domain.StateOnGround, snap.Current)
	assert.Len(t, snap.History, 4)
}
