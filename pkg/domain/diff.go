package domain

// SnapshotDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on the renderer.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Current *State   `json:"current,omitempty"`
	Outcome *Outcome `json:"outcome,omitempty"`

	// Appended contains the history entries added since the old snapshot.
	Appended []HistoryEntry `json:"appended,omitempty"`

	// Reset is set when the ledger was replaced instead of extended.
	// History then carries the whole new ledger.
	Reset   bool           `json:"reset,omitempty"`
	History []HistoryEntry `json:"history,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	if oldSnap == nil || oldSnap.Current != newSnap.Current {
		cur := newSnap.Current
		diff.Current = &cur
	}
	if oldSnap == nil || !sameOutcome(oldSnap.LastOutcome, newSnap.LastOutcome) {
		out := newSnap.LastOutcome
		diff.Outcome = &out
	}

	switch {
	case oldSnap == nil:
		diff.History = append([]HistoryEntry(nil), newSnap.History...)
	case isPrefix(oldSnap.History, newSnap.History):
		if len(newSnap.History) > len(oldSnap.History) {
			diff.Appended = append([]HistoryEntry(nil), newSnap.History[len(oldSnap.History):]...)
		}
	default:
		diff.Reset = true
		diff.History = append([]HistoryEntry(nil), newSnap.History...)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Current == nil &&
		d.Outcome == nil &&
		len(d.Appended) == 0 &&
		!d.Reset &&
		len(d.History) == 0
}

func isPrefix(prefix, full []HistoryEntry) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}

func sameOutcome(a, b Outcome) bool {
	if a.Success != b.Success || a.Message != b.Message || a.Symbol != b.Symbol ||
		a.Previous != b.Previous || a.State != b.State || a.Failure != b.Failure ||
		len(a.Valid) != len(b.Valid) {
		return false
	}
	for i := range a.Valid {
		if a.Valid[i] != b.Valid[i] {
			return false
		}
	}
	return true
}
