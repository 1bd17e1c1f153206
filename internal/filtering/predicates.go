package filtering

import (
	"errors"
	"fmt"
)

// ErrInvalidPredicates is returned when a predicate set cannot be satisfied as supplied
var ErrInvalidPredicates = errors.New("invalid filter predicates")

// Predicate names as they appear in query parameters and echoed filter maps
const (
	PredicateIsPalindrome      = "is_palindrome"
	PredicateMinLength         = "min_length"
	PredicateMaxLength         = "max_length"
	PredicateWordCount         = "word_count"
	PredicateContainsCharacter = "contains_character"
)

// Predicates is a set of optional filter conditions combined by logical AND.
// A nil field places no constraint on the result.
type Predicates struct {
	IsPalindrome      *bool
	MinLength         *int
	MaxLength         *int
	WordCount         *int
	ContainsCharacter *string
}

// IsEmpty reports whether no predicate is set
func (p *Predicates) IsEmpty() bool {
	return p == nil ||
		(p.IsPalindrome == nil && p.MinLength == nil && p.MaxLength == nil &&
			p.WordCount == nil && p.ContainsCharacter == nil)
}

// Validate checks that the length bounds do not contradict each other
func (p *Predicates) Validate() error {
	if p == nil {
		return nil
	}
	if p.MinLength != nil && p.MaxLength != nil && *p.MinLength > *p.MaxLength {
		return fmt.Errorf("%w: min_length (%d) cannot be greater than max_length (%d)",
			ErrInvalidPredicates, *p.MinLength, *p.MaxLength)
	}
	return nil
}

// Applied returns the supplied predicates keyed by name.
// Unset predicates are omitted.
func (p *Predicates) Applied() map[string]any {
	applied := make(map[string]any)
	if p == nil {
		return applied
	}
	if p.IsPalindrome != nil {
		applied[PredicateIsPalindrome] = *p.IsPalindrome
	}
	if p.MinLength != nil {
		applied[PredicateMinLength] = *p.MinLength
	}
	if p.MaxLength != nil {
		applied[PredicateMaxLength] = *p.MaxLength
	}
	if p.WordCount != nil {
		applied[PredicateWordCount] = *p.WordCount
	}
	if p.ContainsCharacter != nil {
		applied[PredicateContainsCharacter] = *p.ContainsCharacter
	}
	return applied
}
