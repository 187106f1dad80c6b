package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/muesli/termenv"
)

const (
	colorSuccess = "#22c55e"
	colorFailure = "#ef4444"
	colorState   = "#facc15"
	colorMuted   = "#94a3b8"
)

// Styler colours simulator output for one terminal profile.
// Use termenv.Ascii to emit no escape codes.
type Styler struct {
	Profile termenv.Profile
}

// State renders a state name highlighted.
func (s Styler) State(st domain.State) string {
	return termenv.String(string(st)).Foreground(s.Profile.Color(colorState)).Bold().String()
}

// Outcome renders the last outcome: a check or cross followed by its message.
// A neutral outcome renders as an empty string.
func (s Styler) Outcome(o domain.Outcome) string {
	if o.IsNeutral() {
		return ""
	}
	if o.Success {
		return termenv.String("✓ " + o.Message).Foreground(s.Profile.Color(colorSuccess)).String()
	}
	return termenv.String("✗ " + o.Message).Foreground(s.Profile.Color(colorFailure)).String()
}

// Prompt renders the status line shown before each input.
func (s Styler) Prompt(current domain.State) string {
	return fmt.Sprintf("[%s] %s ", s.State(current),
		termenv.String(current.Describe()).Foreground(s.Profile.Color(colorMuted)).String())
}

// HistoryMarkdown renders a ledger as a markdown table, ready for glamour.
func HistoryMarkdown(variant string, history []domain.HistoryEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Flight log (%s)\n\n", variant)
	sb.WriteString("| # | From | To |\n|---|---|---|\n")
	for i, h := range history {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", i, h.From, h.To)
	}
	return sb.String()
}

// AlphabetMarkdown renders the transition table as a markdown table.
func AlphabetMarkdown(table *domain.TransitionTable) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Alphabet `%s`\n\n", table.Variant())
	sb.WriteString("Symbols: ")
	for i, sym := range table.Alphabet() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "`%s`", sym)
	}
	sb.WriteString("\n\n| From | Symbol | To |\n|---|---|---|\n")
	for _, tr := range table.Transitions() {
		fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", tr.From, tr.Symbol, tr.To)
	}
	return sb.String()
}
