package session_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/aerosim/pkg/adapters/memory"
	"github.com/aretw0/aerosim/pkg/alphabet"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
	"github.com/aretw0/aerosim/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Snapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[sessionID] = snap.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store, alphabet.NewRegistry(), session.WithVariant(alphabet.Binary))
	ctx := context.Background()
	id := "race-test"

	// Without serialization a read-modify-write would lose updates and the
	// ledger would be shorter than the number of accepted symbols.
	var wg sync.WaitGroup
	concurrentWrites := 10
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.Apply(ctx, id, string(domain.SymbolAdvance))
			assert.NoError(t, err)
			assert.True(t, snap.LastOutcome.Success)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.History, concurrentWrites+1)
}

func TestManager_ViewStartsOnce(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store, alphabet.NewRegistry())
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.View(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOnGround, snap.Current)
	assert.Equal(t, alphabet.Named, snap.Variant)
	assert.Len(t, snap.History, 1)
}

func TestManager_ApplyAndReset(t *testing.T) {
	ctx := context.Background()
	var transitions, rejections, resets int
	hooks := domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, ev *domain.TransitionEvent) { transitions++ },
		OnRejected: func(ctx context.Context, ev *domain.TransitionEvent) {
			rejections++
			assert.Equal(t, domain.EventRejected, ev.Type)
			assert.Equal(t, domain.FailureInapplicableTransition, ev.Failure)
		},
		OnReset: func(ctx context.Context, ev *domain.TransitionEvent) {
			resets++
			assert.Equal(t, domain.StateOnGround, ev.To)
		},
	}
	manager := session.NewManager(memory.NewStore(), alphabet.NewRegistry(), session.WithLifecycleHooks(hooks))

	snap, err := manager.Apply(ctx, "s1", "start_takeoff")
	require.NoError(t, err)
	assert.Equal(t, domain.StateTakingOff, snap.Current)

	snap, err = manager.Apply(ctx, "s1", "touch_down")
	require.NoError(t, err, "rejections are outcomes, not errors")
	assert.False(t, snap.LastOutcome.Success)
	assert.Equal(t, domain.StateTakingOff, snap.Current)

	snap, err = manager.Apply(ctx, "s1", "  emergency\n")
	require.NoError(t, err)
	assert.Equal(t, domain.StateEmergency, snap.Current)

	snap, err = manager.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateOnGround, snap.Current)
	assert.Len(t, snap.History, 1)
	assert.True(t, snap.LastOutcome.IsNeutral())

	assert.Equal(t, 2, transitions)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, 1, resets)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(memory.NewStore(), alphabet.NewRegistry())

	_, err := manager.Apply(ctx, "a", "start_takeoff")
	require.NoError(t, err)

	b, err := manager.View(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.StateOnGround, b.Current)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, manager.Delete(ctx, "a"))
	_, err = manager.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_KeepsVariantOfExistingSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	binary := session.NewManager(store, alphabet.NewRegistry(), session.WithVariant(alphabet.Binary))
	_, err := binary.Apply(ctx, "s1", "0")
	require.NoError(t, err)

	// A manager configured for another variant still resumes the session on its own table.
	named := session.NewManager(store, alphabet.NewRegistry())
	snap, err := named.Apply(ctx, "s1", "0")
	require.NoError(t, err)
	assert.Equal(t, alphabet.Binary, snap.Variant)
	assert.Equal(t, domain.StateInFlight, snap.Current)
}

func TestManager_UnknownVariant(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), alphabet.NewRegistry(), session.WithVariant("morse"))
	_, err := manager.View(context.Background(), "s1")
	assert.ErrorIs(t, err, alphabet.ErrUnknownVariant)
}

func TestManager_RejectsOversizedInput(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), alphabet.NewRegistry())
	_, err := manager.Apply(context.Background(), "s1", strings.Repeat("x", session.MaxSymbolSize+1))
	assert.ErrorIs(t, err, session.ErrInputTooLarge)
}

func TestManager_ControlCharactersAreNotStripped(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), alphabet.NewRegistry())
	snap, err := manager.Apply(context.Background(), "s1", "start\x00_takeoff")
	require.NoError(t, err)

	assert.False(t, snap.LastOutcome.Success)
	assert.Equal(t, domain.FailureUnrecognizedSymbol, snap.LastOutcome.Failure)
	assert.Equal(t, domain.StateOnGround, snap.Current)
	assert.Len(t, snap.History, 1)
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
}

func (r *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	r.mu.Lock()
	r.locked = append(r.locked, key)
	r.mu.Unlock()
	return func(context.Context) error {
		r.mu.Lock()
		r.unlocked++
		r.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(), alphabet.NewRegistry(),
		session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := manager.Apply(ctx, "s1", "start_takeoff")
	require.NoError(t, err)
	_, err = manager.Reset(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s1"}, locker.locked)
	assert.Equal(t, 2, locker.unlocked)
}
