package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSymbolSize bounds the raw symbol accepted from a renderer.
var MaxSymbolSize = 256

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeSymbol checks a symbol coming from a renderer against a size limit and
// UTF-8 validity, then trims surrounding whitespace. The inside of the symbol is
// never rewritten: whether it belongs to the alphabet is left to the automaton.
func SanitizeSymbol(input string) (string, error) {
	if len(input) > MaxSymbolSize {
		// Reject rather than truncate, so a truncated string never matches a symbol by accident.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), MaxSymbolSize)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	return strings.TrimSpace(input), nil
}
