package filtering

import (
	"fmt"
	"strings"
)

// CharacterFilter handles character containment filtering
type CharacterFilter interface {
	// ShouldInclude determines if a character frequency map contains the requested character
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(frequency map[string]int, character *string) (bool, string)
}

// DefaultCharacterFilter implements case-folded character containment
type DefaultCharacterFilter struct{}

var _ CharacterFilter = (*DefaultCharacterFilter)(nil)

// NewDefaultCharacterFilter creates a new DefaultCharacterFilter
func NewDefaultCharacterFilter() CharacterFilter {
	return &DefaultCharacterFilter{}
}

// ShouldInclude matches when either the lowercase or the uppercase form of
// character is a key of frequency. A nil character always matches.
func (*DefaultCharacterFilter) ShouldInclude(frequency map[string]int, character *string) (bool, string) {
	if character == nil {
		return true, "no character filter specified"
	}

	lower := strings.ToLower(*character)
	upper := strings.ToUpper(*character)

	if _, ok := frequency[lower]; ok {
		return true, fmt.Sprintf("contains character '%s'", lower)
	}
	if _, ok := frequency[upper]; ok {
		return true, fmt.Sprintf("contains character '%s'", upper)
	}
	return false, fmt.Sprintf("does not contain character '%s' in any case", *character)
}

