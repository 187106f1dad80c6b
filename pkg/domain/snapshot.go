package domain

// Snapshot is the serializable view of one session: what the renderer reads
// between interactions and what session stores persist.
type Snapshot struct {
	SessionID   string         `json:"session_id"`
	Variant     string         `json:"variant"`
	Current     State          `json:"current"`
	LastOutcome Outcome        `json:"last_outcome"`
	History     []HistoryEntry `json:"history"`
}

// NewSnapshot returns the snapshot of a brand-new session.
func NewSnapshot(sessionID, variant string) *Snapshot {
	return &Snapshot{
		SessionID:   sessionID,
		Variant:     variant,
		Current:     InitialState,
		LastOutcome: NeutralOutcome(InitialState),
		History:     []HistoryEntry{{From: noState, To: InitialState}},
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.History = make([]HistoryEntry, len(s.History))
	copy(c.History, s.History)
	if s.LastOutcome.Valid != nil {
		c.LastOutcome.Valid = make([]Symbol, len(s.LastOutcome.Valid))
		copy(c.LastOutcome.Valid, s.LastOutcome.Valid)
	}
	return &c
}

// Visited returns the distinct states in the ledger, in first-visit order.
func (s *Snapshot) Visited() []State {
	seen := make(map[State]bool)
	var out []State
	for _, h := range s.History {
		if !seen[h.To] {
			seen[h.To] = true
			out = append(out, h.To)
		}
	}
	return out
}
