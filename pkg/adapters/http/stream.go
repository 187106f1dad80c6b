package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/aerosim/pkg/domain"
)

// StreamManager handles active SSE connections.
// Each subscriber remembers the last snapshot it was sent, so it receives
// diffs against what it has seen rather than the whole ledger.
type StreamManager struct {
	mu          sync.Mutex
	subscribers map[string]map[chan<- string]*subscriber // SessionID -> subscribers
	logger      *slog.Logger
}

type subscriber struct {
	last *domain.Snapshot
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]*subscriber),
		logger:      logger,
	}
}

// Subscribe registers a channel for the session. When initial is not nil the
// channel starts with the full snapshot, and later diffs are computed from it.
func (sm *StreamManager) Subscribe(sessionID string, initial *domain.Snapshot) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sub := &subscriber{}
	if initial != nil {
		if payload, ok := sm.encode(domain.Diff(nil, initial)); ok {
			ch <- payload
			sub.last = initial.Clone()
		}
	}

	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]*subscriber)
	}
	sm.subscribers[sessionID][ch] = sub

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Publish diffs snap against the snapshot each subscriber last received and
// sends the result. Sessions nobody watches are skipped.
func (sm *StreamManager) Publish(snap *domain.Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	subs, ok := sm.subscribers[snap.SessionID]
	if !ok {
		return
	}

	for ch, sub := range subs {
		diff := domain.Diff(sub.last, snap)
		if diff == nil {
			sm.logger.Debug("StreamManager: No diff calculated", "session_id", snap.SessionID)
			continue
		}
		payload, ok := sm.encode(diff)
		if !ok {
			continue
		}
		select {
		case ch <- payload:
			sub.last = snap.Clone()
		default:
			// Drop message if channel is full (slow client); the next diff catches up.
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", snap.SessionID)
		}
	}
	sm.logger.Debug("StreamManager: Broadcast", "session_id", snap.SessionID, "count", len(subs))
}

func (sm *StreamManager) encode(diff *domain.SnapshotDiff) (string, bool) {
	payload, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("StreamManager: Diff encode failed", "session_id", diff.SessionID, "err", err)
		return "", false
	}
	return string(payload), true
}

// keep reports whether a diff touches any of the watched fields.
// An empty watch list keeps everything.
func keep(diff *domain.SnapshotDiff, watch []string) bool {
	if len(watch) == 0 {
		return true
	}
	for _, field := range watch {
		switch field {
		case "current":
			if diff.Current != nil {
				return true
			}
		case "outcome":
			if diff.Outcome != nil {
				return true
			}
		case "history":
			if len(diff.Appended) > 0 || len(diff.History) > 0 || diff.Reset {
				return true
			}
		}
	}
	return false
}
