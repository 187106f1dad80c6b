package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/dominikbraun/graph"
)

// ErrPolicyViolation is returned when a table breaks the flight safety policy.
var ErrPolicyViolation = errors.New("transition policy violation")

// Build turns the table into a directed graph keyed by state name.
// Parallel edges (two symbols to the same target) collapse into one.
func Build(table *domain.TransitionTable) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, s := range domain.States() {
		if err := g.AddVertex(string(s)); err != nil {
			return nil, fmt.Errorf("failed to add state %s: %w", s, err)
		}
	}
	for _, tr := range table.Transitions() {
		err := g.AddEdge(string(tr.From), string(tr.To))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add edge %s -> %s: %w", tr.From, tr.To, err)
		}
	}
	return g, nil
}

// ValidateTable checks the safety policy of the aircraft automaton:
//   - every operational state can escape to EMERGENCY,
//   - EMERGENCY can be re-declared (self-loop) and leads back to ON_GROUND,
//   - every state eventually reaches ON_GROUND, so no state is a sink.
func ValidateTable(table *domain.TransitionTable) error {
	g, err := Build(table)
	if err != nil {
		return err
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return fmt.Errorf("failed to read adjacency: %w", err)
	}

	var problems []string
	emergency := string(domain.StateEmergency)
	ground := string(domain.InitialState)

	for _, s := range domain.States() {
		id := string(s)
		edges := adjacency[id]

		if len(edges) == 0 {
			problems = append(problems, fmt.Sprintf("%s is a sink", s))
			continue
		}
		if _, ok := edges[emergency]; !ok {
			problems = append(problems, fmt.Sprintf("%s has no escape to %s", s, domain.StateEmergency))
		}
		if s == domain.InitialState {
			continue
		}
		if _, err := graph.ShortestPath(g, id, ground); err != nil {
			problems = append(problems, fmt.Sprintf("%s never reaches %s", s, domain.InitialState))
		}
	}

	if _, ok := adjacency[emergency][ground]; !ok {
		problems = append(problems, fmt.Sprintf("%s has no direct path back to %s", domain.StateEmergency, domain.InitialState))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w in %q: found %d errors:\n- %s", ErrPolicyViolation, table.Variant(), len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// PathToGround returns the shortest sequence of states from s to ON_GROUND.
func PathToGround(table *domain.TransitionTable, s domain.State) ([]domain.State, error) {
	g, err := Build(table)
	if err != nil {
		return nil, err
	}
	path, err := graph.ShortestPath(g, string(s), string(domain.InitialState))
	if err != nil {
		return nil, fmt.Errorf("no path from %s to %s: %w", s, domain.InitialState, err)
	}
	out := make([]domain.State, len(path))
	for i, p := range path {
		out[i] = domain.State(p)
	}
	return out, nil
}
