// Package canvas lays out the automaton for a 2D renderer. The engine knows
// nothing about coordinates; everything positional lives here.
package canvas

import (
	"github.com/aretw0/aerosim/pkg/domain"
)

// Point is a position on the canvas, origin top-left.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NodeRadius is the radius of a state circle. Terminal states get a second
// ring TerminalRingGap pixels inside the first.
const (
	NodeRadius      = 30
	TerminalRingGap = 5
)

var layout = map[domain.State]Point{
	domain.StateOnGround:  {100, 400},
	domain.StateTakingOff: {200, 250},
	domain.StateInFlight:  {300, 100},
	domain.StateLanding:   {400, 250},
	domain.StateEmergency: {300, 300},
}

// Position returns the fixed coordinates of a state.
func Position(s domain.State) (Point, bool) {
	p, ok := layout[s]
	return p, ok
}

// Node is one state circle.
type Node struct {
	State    domain.State `json:"state"`
	Label    string       `json:"label"`
	At       Point        `json:"at"`
	Terminal bool         `json:"terminal"`
	Current  bool         `json:"current"`
	Visited  bool         `json:"visited"`
}

// Edge is one arrow, labelled with every symbol that takes it.
type Edge struct {
	From    domain.State    `json:"from"`
	To      domain.State    `json:"to"`
	Symbols []domain.Symbol `json:"symbols"`
	Loop    bool            `json:"loop,omitempty"`
}

// Scene is everything a renderer needs to draw one frame.
type Scene struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	// InitialArrow points at the initial state from its left.
	InitialArrow [2]Point `json:"initial_arrow"`
	// Plane is the aircraft position, on the current state.
	Plane Point `json:"plane"`
	// ErrorMarker is set when the last attempt failed. It sits on the state the
	// symbol was aiming for, or on the current state when no target can be told.
	ErrorMarker *Point `json:"error_marker,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Build lays out the table and overlays the session snapshot.
func Build(table *domain.TransitionTable, snap *domain.Snapshot) Scene {
	visited := make(map[domain.State]bool)
	for _, s := range snap.Visited() {
		visited[s] = true
	}

	var scene Scene
	for _, s := range domain.States() {
		scene.Nodes = append(scene.Nodes, Node{
			State:    s,
			Label:    s.Abbreviation(),
			At:       layout[s],
			Terminal: s == domain.InitialState,
			Current:  s == snap.Current,
			Visited:  visited[s],
		})
	}

	index := make(map[[2]domain.State]int)
	for _, tr := range table.Transitions() {
		key := [2]domain.State{tr.From, tr.To}
		if i, ok := index[key]; ok {
			scene.Edges[i].Symbols = append(scene.Edges[i].Symbols, tr.Symbol)
			continue
		}
		index[key] = len(scene.Edges)
		scene.Edges = append(scene.Edges, Edge{
			From:    tr.From,
			To:      tr.To,
			Symbols: []domain.Symbol{tr.Symbol},
			Loop:    tr.From == tr.To,
		})
	}

	start := layout[domain.InitialState]
	scene.InitialArrow = [2]Point{{start.X - 2*NodeRadius, start.Y}, {start.X - NodeRadius, start.Y}}
	scene.Plane = layout[snap.Current]

	if o := snap.LastOutcome; !o.IsNeutral() {
		scene.Message = o.Message
		if !o.Success {
			p := layout[attemptedTarget(table, o)]
			scene.ErrorMarker = &p
		}
	}
	return scene
}

// attemptedTarget guesses where a rejected symbol was heading. A symbol naming a
// state (direct alphabet) targets that state; a symbol whose every edge ends on
// the same state targets it. Anything else falls back to where the plane is.
func attemptedTarget(table *domain.TransitionTable, o domain.Outcome) domain.State {
	if s := domain.State(o.Symbol); s.Valid() {
		return s
	}
	var target domain.State
	for _, tr := range table.Transitions() {
		if tr.Symbol != o.Symbol {
			continue
		}
		if target != "" && target != tr.To {
			return o.State
		}
		target = tr.To
	}
	if target == "" {
		return o.State
	}
	return target
}
