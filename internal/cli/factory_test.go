package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/aerosim/internal/config"
	"github.com/aretw0/aerosim/pkg/adapters/redis"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntime_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "off"
	cfg.Variant = "direct"

	rt, err := NewRuntime(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, "direct", rt.Sim.Table().Variant())
	snap, err := rt.Sim.Apply(context.Background(), "s", "TAKING_OFF")
	require.NoError(t, err)
	assert.Equal(t, domain.StateTakingOff, snap.Current)
}

func TestNewRuntime_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Log.Level = "off"
	cfg.Store = config.StoreRedis
	cfg.Redis.Addr = mr.Addr()

	rt, err := NewRuntime(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.Sim.Apply(context.Background(), "pilot", "start_takeoff")
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultPrefix+"s:pilot"))
}

func TestNewRuntime_RedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Log.Level = "off"
	cfg.Store = config.StoreRedis
	cfg.Redis.Addr = addr

	_, err = NewRuntime(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewRuntime_CustomTable(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "off"
	cfg.Variant = "training"
	cfg.Tables = map[string]any{
		"training": map[string]any{
			"alphabet": []any{"go", "mayday", "land"},
			"transitions": []any{
				map[string]any{"from": "ON_GROUND", "symbol": "go", "to": "TAKING_OFF"},
				map[string]any{"from": "TAKING_OFF", "symbol": "go", "to": "IN_FLIGHT"},
				map[string]any{"from": "IN_FLIGHT", "symbol": "go", "to": "LANDING"},
				map[string]any{"from": "LANDING", "symbol": "land", "to": "ON_GROUND"},
				map[string]any{"from": "EMERGENCY", "symbol": "land", "to": "ON_GROUND"},
				map[string]any{"from": "ON_GROUND", "symbol": "mayday", "to": "EMERGENCY"},
				map[string]any{"from": "TAKING_OFF", "symbol": "mayday", "to": "EMERGENCY"},
				map[string]any{"from": "IN_FLIGHT", "symbol": "mayday", "to": "EMERGENCY"},
				map[string]any{"from": "LANDING", "symbol": "mayday", "to": "EMERGENCY"},
				map[string]any{"from": "EMERGENCY", "symbol": "mayday", "to": "EMERGENCY"},
			},
		},
	}

	rt, err := NewRuntime(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, "training", rt.Sim.Table().Variant())
	assert.Contains(t, rt.Sim.Variants(), "training")
}

func TestNewRuntime_BadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := NewRuntime(context.Background(), cfg)
	assert.Error(t, err)
}
