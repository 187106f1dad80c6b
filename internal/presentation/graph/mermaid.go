package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/aerosim/pkg/domain"
)

// GraphOverlay contains dynamic session data to visualize on the graph.
type GraphOverlay struct {
	Visited []domain.State
	Current domain.State
	// Rejected marks the state where the last attempt failed, if any.
	Rejected domain.State
}

// OverlayFromSnapshot builds an overlay from a session snapshot.
func OverlayFromSnapshot(snap *domain.Snapshot) *GraphOverlay {
	if snap == nil {
		return nil
	}
	o := &GraphOverlay{
		Visited: snap.Visited(),
		Current: snap.Current,
	}
	if !snap.LastOutcome.Success {
		o.Rejected = snap.LastOutcome.State
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of a transition table.
// It applies semantic styling:
// - ON_GROUND (initial and accepting): (((Double circle)))
// - EMERGENCY: {{Hexagon}}
// - Default: [Rectangle]
// Edges into EMERGENCY are dotted. Symbols sharing an edge are joined on one label.
// It also applies overlay styles (Visited/Current/Rejected) if provided.
func GenerateMermaid(table *domain.TransitionTable, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start(( )) --> " + sanitizeMermaidID(domain.InitialState) + "\n")

	for _, s := range domain.States() {
		opener, closer := "[", "]"
		switch s {
		case domain.InitialState:
			opener, closer = "(((", ")))"
		case domain.StateEmergency:
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(s), opener, s, closer))
	}

	type edge struct{ from, to domain.State }
	var order []edge
	labels := make(map[edge][]string)
	for _, tr := range table.Transitions() {
		e := edge{tr.From, tr.To}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], string(tr.Symbol))
	}

	for _, e := range order {
		// Escape double quotes for Mermaid labels
		label := strings.ReplaceAll(strings.Join(labels[e], " / "), "\"", "'")
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if e.to == domain.StateEmergency {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.from), arrow, sanitizeMermaidID(e.to)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef rejected fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.State]bool)
		for _, s := range overlay.Visited {
			if !seen[s] && s.Valid() && s != overlay.Current {
				seen[s] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", sanitizeMermaidID(s)))
			}
		}

		switch {
		case overlay.Rejected.Valid():
			sb.WriteString(fmt.Sprintf("    class %s rejected;\n", sanitizeMermaidID(overlay.Rejected)))
		case overlay.Current.Valid():
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(s domain.State) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(string(s))
}
