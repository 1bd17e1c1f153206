package filtering

import (
	"fmt"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
)

// PropertyFilter handles the boolean and numeric property predicates
type PropertyFilter interface {
	// ShouldInclude determines if a record with the given properties satisfies the predicates
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(props *analyzer.Properties, predicates *Predicates) (bool, string)
}

// defaultPropertyFilter implements property filtering by direct comparison
type defaultPropertyFilter struct{}

var _ PropertyFilter = (*defaultPropertyFilter)(nil)

// NewDefaultPropertyFilter creates a new defaultPropertyFilter
func NewDefaultPropertyFilter() PropertyFilter {
	return &defaultPropertyFilter{}
}

// ShouldInclude determines if a record satisfies every property predicate that is set.
// The first failing predicate is reported as the exclusion reason.
func (*defaultPropertyFilter) ShouldInclude(props *analyzer.Properties, predicates *Predicates) (bool, string) {
	if predicates == nil {
		return true, "no property filters specified"
	}

	checked := 0

	if predicates.IsPalindrome != nil {
		checked++
		if props.IsPalindrome != *predicates.IsPalindrome {
			return false, fmt.Sprintf("is_palindrome is %t, want %t", props.IsPalindrome, *predicates.IsPalindrome)
		}
	}

	if predicates.MinLength != nil {
		checked++
		if props.Length < *predicates.MinLength {
			return false, fmt.Sprintf("length %d is below min_length %d", props.Length, *predicates.MinLength)
		}
	}

	if predicates.MaxLength != nil {
		checked++
		if props.Length > *predicates.MaxLength {
			return false, fmt.Sprintf("length %d is above max_length %d", props.Length, *predicates.MaxLength)
		}
	}

	if predicates.WordCount != nil {
		checked++
		if props.WordCount != *predicates.WordCount {
			return false, fmt.Sprintf("word_count is %d, want %d", props.WordCount, *predicates.WordCount)
		}
	}

	if checked == 0 {
		return true, "no property filters specified"
	}
	return true, fmt.Sprintf("matched %d property filter(s)", checked)
}
