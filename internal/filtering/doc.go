// Package filtering provides predicate-based filtering of analyzed strings.
//
// A filter request is a Predicates value: a fixed set of independently
// optional conditions combined by logical AND. A nil field means "no
// constraint", never "false".
//
// # Architecture
//
// The filtering system consists of three main components:
//
//   - PropertyFilter: Handles the numeric and boolean property predicates
//     (is_palindrome, min_length, max_length, word_count)
//   - CharacterFilter: Handles character containment with case folding
//   - FilterService: Coordinates both filters over a set of records
//
// # Predicates
//
//	| Predicate          | Condition                                           |
//	|--------------------|-----------------------------------------------------|
//	| is_palindrome      | properties.is_palindrome == b                       |
//	| min_length         | properties.length >= n                              |
//	| max_length         | properties.length <= n                              |
//	| word_count         | properties.word_count == n                          |
//	| contains_character | lower(c) or upper(c) is a character frequency key   |
//
// Every predicate is evaluated independently, so the order of evaluation
// never changes the result set.
//
// # Usage Example
//
//	service := NewDefaultFilterService()
//	minLength := 5
//	predicates := &Predicates{MinLength: &minLength}
//
//	filtered, err := service.ApplyFilters(ctx, store.List(), predicates)
//
// # Detailed Logging
//
// Each inclusion or exclusion decision is logged at debug level with the
// predicate that decided it, and a summary is logged at info level.
package filtering
