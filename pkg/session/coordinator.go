package session

import (
	"sync"

	"github.com/aretw0/aerosim/pkg/domain"
)

// Coordinator holds the one live automaton of a session and the outcome of
// its last interaction, giving a renderer a stable read point between redraws.
// Reset swaps both under a single lock, so readers see either the old
// automaton with its outcome or the fresh pair, never a mix.
type Coordinator struct {
	mu        sync.RWMutex
	automaton *domain.Automaton
	last      domain.Outcome
}

// NewCoordinator starts a coordinator with a fresh automaton over table.
func NewCoordinator(table *domain.TransitionTable) *Coordinator {
	return &Coordinator{
		automaton: domain.NewAutomaton(table),
		last:      domain.NeutralOutcome(domain.InitialState),
	}
}

// RestoreCoordinator rebuilds a coordinator from a persisted snapshot.
func RestoreCoordinator(table *domain.TransitionTable, snap *domain.Snapshot) (*Coordinator, error) {
	a, err := domain.RestoreAutomaton(table, snap.History)
	if err != nil {
		return nil, err
	}
	last := snap.LastOutcome
	if last.State == "" {
		last = domain.NeutralOutcome(a.Current())
	}
	return &Coordinator{automaton: a, last: last}, nil
}

// Current returns the live automaton's state.
func (c *Coordinator) Current() domain.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.automaton.Current()
}

// Apply forwards sym to the automaton and records the outcome, success or not.
func (c *Coordinator) Apply(sym domain.Symbol) domain.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = c.automaton.Attempt(sym)
	return c.last
}

// ResetSession replaces the automaton with a fresh one and clears the last outcome.
func (c *Coordinator) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automaton = c.automaton.Reset()
	c.last = domain.NeutralOutcome(c.automaton.Current())
}

// LastOutcome returns the outcome of the most recent Apply, or a neutral value after a reset.
func (c *Coordinator) LastOutcome() domain.Outcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// History returns the ledger of the live automaton.
func (c *Coordinator) History() []domain.HistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.automaton.History()
}

// Guidance returns the help text for the current state.
func (c *Coordinator) Guidance() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.automaton.Guidance()
}

// Alphabet returns the symbols the live automaton accepts.
func (c *Coordinator) Alphabet() domain.Alphabet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.automaton.Table().Alphabet()
}

// Table returns the transition table of the live automaton.
func (c *Coordinator) Table() *domain.TransitionTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.automaton.Table()
}

// Snapshot captures the coordinator as a serializable view.
func (c *Coordinator) Snapshot(sessionID string) *domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &domain.Snapshot{
		SessionID:   sessionID,
		Variant:     c.automaton.Table().Variant(),
		Current:     c.automaton.Current(),
		LastOutcome: c.last,
		History:     c.automaton.History(),
	}
}
