// Package nlquery translates free-text queries into filter predicates.
//
// Interpretation is a fixed, ordered list of pattern rules evaluated against
// one lowercase copy of the query. Each rule independently contributes to the
// predicate set. Two rules touch the same predicate and differ on purpose:
//
//   - "first vowel" overwrites a character set by "containing the letter X"
//   - "letter z" only applies when no earlier rule set a character
//
// The interpreter never produces a max_length predicate.
package nlquery

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/stacklok/string-analyzer-server/internal/filtering"
)

// ErrUnparseableQuery is returned when no rule matches the query
var ErrUnparseableQuery = errors.New("unable to parse natural language query")

var (
	longerThanPattern = regexp.MustCompile(`longer than (\d+) characters`)
	containingPattern = regexp.MustCompile(`containing the (?:letter|character) ([\p{L}\p{N}_])`)
)

// rule matches a lowercase query and, when it fires, mutates the predicate set.
// apply reports whether the rule fired.
type rule struct {
	name  string
	apply func(query string, predicates *filtering.Predicates) bool
}

// rules is evaluated in order; later rules observe what earlier rules set
var rules = []rule{
	{name: "palindrome", apply: applyPalindrome},
	{name: "single-word", apply: applySingleWord},
	{name: "longer-than", apply: applyLongerThan},
	{name: "containing-character", apply: applyContainingCharacter},
	{name: "first-vowel", apply: applyFirstVowel},
	{name: "letter-z", apply: applyLetterZ},
}

// Interpretation is the result of interpreting a query
type Interpretation struct {
	// Original is the query exactly as supplied
	Original string
	// Predicates is the resolved predicate set
	Predicates *filtering.Predicates
	// Rules lists the names of the rules that fired, in evaluation order
	Rules []string
}

// Interpret resolves query into a predicate set.
// It returns ErrUnparseableQuery when no rule fires.
func Interpret(query string) (*Interpretation, error) {
	lowered := strings.ToLower(query)
	predicates := &filtering.Predicates{}

	var fired []string
	for _, r := range rules {
		if r.apply(lowered, predicates) {
			fired = append(fired, r.name)
		}
	}

	if len(fired) == 0 {
		return nil, ErrUnparseableQuery
	}

	return &Interpretation{
		Original:   query,
		Predicates: predicates,
		Rules:      fired,
	}, nil
}

func applyPalindrome(query string, predicates *filtering.Predicates) bool {
	if !strings.Contains(query, "palindromic") && !strings.Contains(query, "palindrome") {
		return false
	}
	predicates.IsPalindrome = ptr.To(true)
	return true
}

func applySingleWord(query string, predicates *filtering.Predicates) bool {
	if !strings.Contains(query, "single word") && !strings.Contains(query, "one word") {
		return false
	}
	predicates.WordCount = ptr.To(1)
	return true
}

// applyLongerThan expresses "strictly longer than N" as the inclusive bound N+1.
// An N too large for an int saturates to math.MaxInt, which no stored string reaches.
func applyLongerThan(query string, predicates *filtering.Predicates) bool {
	match := longerThanPattern.FindStringSubmatch(query)
	if match == nil {
		return false
	}
	n, err := strconv.Atoi(match[1])
	switch {
	case errors.Is(err, strconv.ErrRange), err == nil && n == math.MaxInt:
		predicates.MinLength = ptr.To(math.MaxInt)
	case err != nil:
		return false
	default:
		predicates.MinLength = ptr.To(n + 1)
	}
	return true
}

func applyContainingCharacter(query string, predicates *filtering.Predicates) bool {
	match := containingPattern.FindStringSubmatch(query)
	if match == nil {
		return false
	}
	predicates.ContainsCharacter = ptr.To(strings.ToLower(match[1]))
	return true
}

func applyFirstVowel(query string, predicates *filtering.Predicates) bool {
	if !strings.Contains(query, "first vowel") {
		return false
	}
	predicates.ContainsCharacter = ptr.To("a")
	return true
}

func applyLetterZ(query string, predicates *filtering.Predicates) bool {
	if !strings.Contains(query, "letter z") || predicates.ContainsCharacter != nil {
		return false
	}
	predicates.ContainsCharacter = ptr.To("z")
	return true
}
