package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aerosim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty dir so no stray aerosim.yaml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := load(context.Background(), "", envconfig.MapLookuper(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), envconfig.MapLookuper(nil))
	assert.Error(t, err)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeFile(t, `
variant: binary
store: redis
redis:
  addr: redis:6379
  ttl: 30m
http:
  port: 9090
log:
  level: debug
`)

	cfg, err := load(context.Background(), path, envconfig.MapLookuper(map[string]string{
		"AEROSIM_HTTP_PORT":  "7070",
		"AEROSIM_LOG_FORMAT": "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, "binary", cfg.Variant)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "aerosim:session:", cfg.Redis.Prefix, "unset keys keep their default")
	assert.Equal(t, 7070, cfg.HTTP.Port, "environment wins over the file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown store", "store: etcd\n"},
		{"empty variant", "variant: \"\"\n"},
		{"port out of range", "http:\n  port: 70000\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"redis without addr", "store: redis\nredis:\n  addr: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), writeFile(t, tt.yaml), envconfig.MapLookuper(nil))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := load(context.Background(), writeFile(t, "variant: [unclosed\n"), envconfig.MapLookuper(nil))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestCustomTables(t *testing.T) {
	path := writeFile(t, `
tables:
  training:
    alphabet: [go, mayday, land]
    transitions:
      - {from: ON_GROUND, symbol: go, to: TAKING_OFF}
      - {from: TAKING_OFF, symbol: go, to: IN_FLIGHT}
      - {from: IN_FLIGHT, symbol: go, to: LANDING}
      - {from: LANDING, symbol: land, to: ON_GROUND}
      - {from: EMERGENCY, symbol: land, to: ON_GROUND}
      - {from: ON_GROUND, symbol: mayday, to: EMERGENCY}
      - {from: TAKING_OFF, symbol: mayday, to: EMERGENCY}
      - {from: IN_FLIGHT, symbol: mayday, to: EMERGENCY}
      - {from: LANDING, symbol: mayday, to: EMERGENCY}
      - {from: EMERGENCY, symbol: mayday, to: EMERGENCY}
`)
	cfg, err := load(context.Background(), path, envconfig.MapLookuper(nil))
	require.NoError(t, err)

	tables, err := cfg.CustomTables()
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, "training", table.Variant())
	assert.Equal(t, domain.Alphabet{"go", "mayday", "land"}, table.Alphabet())
	to, ok := table.Lookup(domain.StateLanding, "land")
	assert.True(t, ok)
	assert.Equal(t, domain.StateOnGround, to)
}

func TestCustomTables_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		tables map[string]any
		target error
	}{
		{
			name: "undecodable",
			tables: map[string]any{
				"broken": map[string]any{"alphabet": 42},
			},
		},
		{
			name: "sink state",
			tables: map[string]any{
				"sink": map[string]any{
					"alphabet": []any{"go"},
					"transitions": []any{
						map[string]any{"from": "ON_GROUND", "symbol": "go", "to": "TAKING_OFF"},
					},
				},
			},
			target: domain.ErrInvalidTable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Tables = tt.tables
			_, err := cfg.CustomTables()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
