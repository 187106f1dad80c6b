package ports

import "github.com/aretw0/aerosim/pkg/domain"

// TableLoader defines how the simulator resolves an alphabet variant into a
// transition table. This decouples the engine from where tables are declared
// (built-in variants, configuration files).
type TableLoader interface {
	// LoadTable returns the validated table for the named variant.
	LoadTable(variant string) (*domain.TransitionTable, error)

	// ListVariants returns the names of every variant the loader knows.
	ListVariants() []string
}
