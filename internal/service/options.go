package service

import (
	"fmt"
	"unicode/utf8"

	"k8s.io/utils/ptr"

	"github.com/stacklok/string-analyzer-server/internal/filtering"
)

// ListOption is a function that sets an option for the ListStrings operation
type ListOption func(*ListStringsOptions) error

// ListStringsOptions is the options for the ListStrings operation
type ListStringsOptions struct {
	Predicates filtering.Predicates
}

// NewListStringsOptions applies opts in order and validates the resulting predicate set
func NewListStringsOptions(opts ...ListOption) (*ListStringsOptions, error) {
	options := &ListStringsOptions{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if err := options.Predicates.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return options, nil
}

// WithIsPalindrome filters by the palindrome property
func WithIsPalindrome(isPalindrome bool) ListOption {
	return func(o *ListStringsOptions) error {
		o.Predicates.IsPalindrome = ptr.To(isPalindrome)
		return nil
	}
}

// WithMinLength sets the inclusive lower bound on length
func WithMinLength(minLength int) ListOption {
	return func(o *ListStringsOptions) error {
		if minLength < 0 {
			return fmt.Errorf("%w: min_length must be greater than or equal to 0, got %d", ErrInvalidArgument, minLength)
		}
		o.Predicates.MinLength = ptr.To(minLength)
		return nil
	}
}

// WithMaxLength sets the inclusive upper bound on length
func WithMaxLength(maxLength int) ListOption {
	return func(o *ListStringsOptions) error {
		if maxLength < 0 {
			return fmt.Errorf("%w: max_length must be greater than or equal to 0, got %d", ErrInvalidArgument, maxLength)
		}
		o.Predicates.MaxLength = ptr.To(maxLength)
		return nil
	}
}

// WithWordCount filters by exact word count
func WithWordCount(wordCount int) ListOption {
	return func(o *ListStringsOptions) error {
		if wordCount < 1 {
			return fmt.Errorf("%w: word_count must be greater than or equal to 1, got %d", ErrInvalidArgument, wordCount)
		}
		o.Predicates.WordCount = ptr.To(wordCount)
		return nil
	}
}

// WithContainsCharacter filters by case-folded character containment.
// The character must be exactly one code point.
func WithContainsCharacter(character string) ListOption {
	return func(o *ListStringsOptions) error {
		if !utf8.ValidString(character) || utf8.RuneCountInString(character) != 1 {
			return fmt.Errorf("%w: contains_character must be a single character, got %q", ErrInvalidArgument, character)
		}
		o.Predicates.ContainsCharacter = ptr.To(character)
		return nil
	}
}
