// Package alphabet provides the transition tables of the three alphabet
// variants the simulator supports. The engine is parameterized by one of them.
package alphabet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/dsl"
)

// Variant names.
const (
	Named  = "named"
	Binary = "binary"
	Direct = "direct"
)

// Default is the canonical variant.
const Default = Named

// ErrUnknownVariant is returned by ByName for names that are not registered.
var ErrUnknownVariant = errors.New("unknown alphabet variant")

var (
	namedTable  = buildNamed()
	binaryTable = buildBinary()
	directTable = buildDirect()
)

// NamedTable returns the canonical named-action table.
func NamedTable() *domain.TransitionTable { return namedTable }

// BinaryTable returns the {0,1} table.
func BinaryTable() *domain.TransitionTable { return binaryTable }

// DirectTable returns the legacy table where the symbol is the target state.
func DirectTable() *domain.TransitionTable { return directTable }

// ByName returns the built-in table for a variant.
func ByName(name string) (*domain.TransitionTable, error) {
	switch name {
	case Named, "":
		return namedTable, nil
	case Binary:
		return binaryTable, nil
	case Direct:
		return directTable, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownVariant, name, Names())
}

// Names lists the built-in variants in sorted order.
func Names() []string {
	names := []string{Named, Binary, Direct}
	sort.Strings(names)
	return names
}

func buildNamed() *domain.TransitionTable {
	b := dsl.New(Named).Alphabet(
		domain.SymbolStartTakeoff,
		domain.SymbolReachCruiseAltitude,
		domain.SymbolStartLanding,
		domain.SymbolTouchDown,
		domain.SymbolEmergency,
	)

	b.From(domain.StateOnGround).
		On(domain.SymbolStartTakeoff, domain.StateTakingOff).
		On(domain.SymbolEmergency, domain.StateEmergency)

	b.From(domain.StateTakingOff).
		On(domain.SymbolReachCruiseAltitude, domain.StateInFlight).
		On(domain.SymbolEmergency, domain.StateEmergency)

	b.From(domain.StateInFlight).
		On(domain.SymbolStartLanding, domain.StateLanding).
		On(domain.SymbolEmergency, domain.StateEmergency)

	b.From(domain.StateLanding).
		On(domain.SymbolTouchDown, domain.StateOnGround).
		On(domain.SymbolEmergency, domain.StateEmergency)

	// Emergency is recoverable and re-entrant.
	b.From(domain.StateEmergency).
		On(domain.SymbolTouchDown, domain.StateOnGround).
		On(domain.SymbolEmergency, domain.StateEmergency)

	return b.MustBuild()
}

func buildBinary() *domain.TransitionTable {
	b := dsl.New(Binary).Alphabet(domain.SymbolAdvance, domain.SymbolAlarm)

	forward := []struct{ from, to domain.State }{
		{domain.StateOnGround, domain.StateTakingOff},
		{domain.StateTakingOff, domain.StateInFlight},
		{domain.StateInFlight, domain.StateLanding},
		{domain.StateLanding, domain.StateOnGround},
		{domain.StateEmergency, domain.StateOnGround},
	}
	for _, f := range forward {
		b.From(f.from).
			On(domain.SymbolAdvance, f.to).
			On(domain.SymbolAlarm, domain.StateEmergency)
	}

	return b.MustBuild()
}

func buildDirect() *domain.TransitionTable {
	b := dsl.New(Direct).Alphabet(
		domain.Symbol(domain.StateOnGround),
		domain.Symbol(domain.StateTakingOff),
		domain.Symbol(domain.StateInFlight),
		domain.Symbol(domain.StateLanding),
		domain.Symbol(domain.StateEmergency),
	)

	b.From(domain.StateOnGround).Direct(domain.StateTakingOff).Direct(domain.StateEmergency)
	b.From(domain.StateTakingOff).Direct(domain.StateInFlight).Direct(domain.StateEmergency)
	b.From(domain.StateInFlight).Direct(domain.StateLanding).Direct(domain.StateEmergency)
	b.From(domain.StateLanding).Direct(domain.StateOnGround).Direct(domain.StateEmergency)
	b.From(domain.StateEmergency).Direct(domain.StateOnGround).Direct(domain.StateEmergency)

	return b.MustBuild()
}
