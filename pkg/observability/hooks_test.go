package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/aerosim/pkg/adapters/memory"
	"github.com/aretw0/aerosim/pkg/alphabet"
	"github.com/aretw0/aerosim/pkg/observability"
	"github.com/aretw0/aerosim/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	mgr := session.NewManager(memory.NewStore(), alphabet.NewRegistry(),
		session.WithLifecycleHooks(observability.LoggingHooks(logger)))
	ctx := context.Background()

	_, err := mgr.Apply(ctx, "s1", "start_takeoff")
	require.NoError(t, err)
	_, err = mgr.Apply(ctx, "s1", "touch_down")
	require.NoError(t, err)
	_, err = mgr.Reset(ctx, "s1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var records []map[string]any
	for _, l := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &rec))
		records = append(records, rec)
	}

	assert.Equal(t, "transition", records[0]["msg"])
	assert.Equal(t, "TAKING_OFF", records[0]["to"])
	assert.Equal(t, "rejected", records[1]["msg"])
	assert.Equal(t, "inapplicable_transition", records[1]["reason"])
	assert.Equal(t, "reset", records[2]["msg"])
	assert.Equal(t, "TAKING_OFF", records[2]["from"])
}
