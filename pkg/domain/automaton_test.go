package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/aerosim/pkg/alphabet"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var initialEntry = domain.HistoryEntry{To: domain.StateOnGround}

// walkTo drives a named automaton into the requested state.
func walkTo(t *testing.T, target domain.State) *domain.Automaton {
	t.Helper()
	a := domain.NewAutomaton(alphabet.NamedTable())
	paths := map[domain.State][]domain.Symbol{
		domain.StateOnGround:  nil,
		domain.StateTakingOff: {domain.SymbolStartTakeoff},
		domain.StateInFlight:  {domain.SymbolStartTakeoff, domain.SymbolReachCruiseAltitude},
		domain.StateLanding:   {domain.SymbolStartTakeoff, domain.SymbolReachCruiseAltitude, domain.SymbolStartLanding},
		domain.StateEmergency: {domain.SymbolEmergency},
	}
	for _, sym := range paths[target] {
		require.True(t, a.Attempt(sym).Success)
	}
	require.Equal(t, target, a.Current())
	return a
}

func TestNewAutomaton(t *testing.T) {
	a := domain.NewAutomaton(alphabet.NamedTable())
	assert.Equal(t, domain.StateOnGround, a.Current())
	assert.Equal(t, []domain.HistoryEntry{initialEntry}, a.History())
	assert.True(t, a.History()[0].IsInitial())
}

func TestNewAutomaton_NilTablePanics(t *testing.T) {
	assert.Panics(t, func() { domain.NewAutomaton(nil) })
}

func TestAttempt_EveryStateEverySymbol(t *testing.T) {
	table := alphabet.NamedTable()
	symbols := append(table.Alphabet(), "barrel_roll", "")

	for _, s := range domain.States() {
		for _, sym := range symbols {
			a := walkTo(t, s)
			before := a.History()

			out := a.Attempt(sym)
			want, ok := table.Lookup(s, sym)

			if ok {
				assert.True(t, out.Success, "%s on %q", s, sym)
				assert.Equal(t, want, a.Current())
				assert.Equal(t, want, out.State)
				assert.Equal(t, s, out.Previous)
				require.Len(t, a.History(), len(before)+1)
				assert.Equal(t, domain.HistoryEntry{From: s, To: want}, a.History()[len(before)])
			} else {
				assert.False(t, out.Success, "%s on %q", s, sym)
				assert.Equal(t, s, a.Current())
				assert.Equal(t, s, out.State)
				assert.Equal(t, before, a.History())
			}

			last := a.History()[len(a.History())-1]
			assert.Equal(t, a.Current(), last.To, "current state must equal the last history destination")
		}
	}
}

func TestAttempt_HistoryLength(t *testing.T) {
	a := domain.NewAutomaton(alphabet.NamedTable())
	symbols := []domain.Symbol{
		domain.SymbolStartTakeoff,
		domain.SymbolReachCruiseAltitude,
		domain.SymbolStartLanding,
		domain.SymbolTouchDown,
		domain.SymbolEmergency,
		domain.SymbolEmergency,
		domain.SymbolTouchDown,
	}
	for i, sym := range symbols {
		require.True(t, a.Attempt(sym).Success, "step %d (%s)", i, sym)
		assert.Len(t, a.History(), i+2)
	}
	assert.Equal(t, initialEntry, a.History()[0])
}

func TestAttempt_FailureKinds(t *testing.T) {
	a := domain.NewAutomaton(alphabet.NamedTable())

	t.Run("inapplicable", func(t *testing.T) {
		for _, sym := range []domain.Symbol{domain.SymbolReachCruiseAltitude, domain.SymbolStartLanding, domain.SymbolTouchDown} {
			out := a.Attempt(sym)
			assert.False(t, out.Success)
			assert.Equal(t, domain.FailureInapplicableTransition, out.Failure)
			assert.True(t, errors.Is(out.Err(), domain.ErrInapplicableTransition))
			assert.False(t, errors.Is(out.Err(), domain.ErrUnrecognizedSymbol))
			assert.Equal(t, domain.StateOnGround, a.Current())
		}
	})

	t.Run("unrecognized", func(t *testing.T) {
		out := a.Attempt("TAKING_OFF")
		assert.False(t, out.Success)
		assert.Equal(t, domain.FailureUnrecognizedSymbol, out.Failure)
		assert.ErrorIs(t, out.Err(), domain.ErrUnrecognizedSymbol)
		assert.Contains(t, out.Message, "not part of the named alphabet")
	})

	assert.Len(t, a.History(), 1)
}

func TestAttempt_Messages(t *testing.T) {
	a := domain.NewAutomaton(alphabet.NamedTable())

	out := a.Attempt(domain.SymbolTouchDown)
	assert.Contains(t, out.Message, "ON_GROUND")
	assert.Contains(t, out.Message, "touch_down is not applicable")
	assert.Contains(t, out.Message, "on the ground")
	assert.Contains(t, out.Message, "start_takeoff (→ TAKING_OFF), emergency (→ EMERGENCY)")
	assert.Equal(t, []domain.Symbol{domain.SymbolStartTakeoff, domain.SymbolEmergency}, out.Valid)

	out = a.Attempt(domain.SymbolStartTakeoff)
	assert.Equal(t, "Transition successful to TAKING_OFF via start_takeoff", out.Message)
	assert.Nil(t, out.Err())
	assert.Empty(t, out.Valid)
}

func TestAttempt_EmergencyRecovery(t *testing.T) {
	a := walkTo(t, domain.StateEmergency)
	n := len(a.History())

	out := a.Attempt(domain.SymbolEmergency)
	require.True(t, out.Success)
	assert.Equal(t, domain.StateEmergency, a.Current())
	assert.Len(t, a.History(), n+1, "re-declaring an emergency is a recorded transition")

	out = a.Attempt(domain.SymbolTouchDown)
	require.True(t, out.Success)
	assert.Equal(t, domain.StateOnGround, a.Current())
}

func TestAttempt_Scenario(t *testing.T) {
	a := domain.NewAutomaton(alphabet.NamedTable())

	out := a.Attempt(domain.SymbolStartTakeoff)
	require.True(t, out.Success)
	assert.Equal(t, domain.StateTakingOff, a.Current())
	assert.Equal(t, []domain.HistoryEntry{
		initialEntry,
		{From: domain.StateOnGround, To: domain.StateTakingOff},
	}, a.History())

	out = a.Attempt(domain.SymbolTouchDown)
	assert.False(t, out.Success)
	assert.Equal(t, domain.StateTakingOff, a.Current())
	assert.Len(t, a.History(), 2)

	require.True(t, a.Attempt(domain.SymbolEmergency).Success)
	assert.Equal(t, domain.StateEmergency, a.Current())
	assert.Len(t, a.History(), 3)

	require.True(t, a.Attempt(domain.SymbolTouchDown).Success)
	assert.Equal(t, domain.StateOnGround, a.Current())
	assert.Len(t, a.History(), 4)

	fresh := a.Reset()
	assert.Equal(t, domain.StateOnGround, fresh.Current())
	assert.Len(t, fresh.History(), 1)
	assert.Len(t, a.History(), 4, "Reset must not mutate the receiver")
}

func TestReset_FromEveryState(t *testing.T) {
	for _, s := range domain.States() {
		fresh := walkTo(t, s).Reset()
		assert.Equal(t, domain.StateOnGround, fresh.Current())
		assert.Equal(t, []domain.HistoryEntry{initialEntry}, fresh.History())
	}
}

func TestHistory_IsACopy(t *testing.T) {
	a := domain.NewAutomaton(alphabet.NamedTable())
	h := a.History()
	h[0].To = domain.StateEmergency
	assert.Equal(t, domain.StateOnGround, a.History()[0].To)
}

func TestRestoreAutomaton(t *testing.T) {
	table := alphabet.NamedTable()

	t.Run("valid ledger", func(t *testing.T) {
		ledger := walkTo(t, domain.StateLanding).History()
		a, err := domain.RestoreAutomaton(table, ledger)
		require.NoError(t, err)
		assert.Equal(t, domain.StateLanding, a.Current())
		assert.Equal(t, ledger, a.History())
	})

	t.Run("empty ledger starts fresh", func(t *testing.T) {
		a, err := domain.RestoreAutomaton(table, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StateOnGround, a.Current())
	})

	tests := []struct {
		name   string
		ledger []domain.HistoryEntry
	}{
		{"wrong first entry", []domain.HistoryEntry{{To: domain.StateInFlight}}},
		{"broken chain", []domain.HistoryEntry{
			initialEntry,
			{From: domain.StateTakingOff, To: domain.StateInFlight},
		}},
		{"unknown edge", []domain.HistoryEntry{
			initialEntry,
			{From: domain.StateOnGround, To: domain.StateLanding},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.RestoreAutomaton(table, tt.ledger)
			assert.ErrorIs(t, err, domain.ErrCorruptHistory)
		})
	}
}

func TestHistoryEntry_String(t *testing.T) {
	assert.Equal(t, "start → ON_GROUND", initialEntry.String())
	e := domain.HistoryEntry{From: domain.StateInFlight, To: domain.StateLanding}
	assert.True(t, strings.HasPrefix(e.String(), "IN_FLIGHT"))
}
