// Package analyzer computes the derived properties of a submitted string.
//
// Every property is a pure function of the value. Code points are the single
// unit of "character" used for length, uniqueness, frequency and the
// palindrome reversal, so the properties are always mutually consistent:
//
//   - Length equals the sum of CharacterFrequency counts
//   - UniqueCharacters equals len(CharacterFrequency)
//
// The content hash (hex SHA-256 over the UTF-8 bytes) doubles as the record
// identity, which is how equal values collapse to a single stored record.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Properties holds the derived properties of a string
type Properties struct {
	Length             int            `json:"length" yaml:"length"`
	IsPalindrome       bool           `json:"is_palindrome" yaml:"is_palindrome"`
	UniqueCharacters   int            `json:"unique_characters" yaml:"unique_characters"`
	WordCount          int            `json:"word_count" yaml:"word_count"`
	SHA256Hash         string         `json:"sha256_hash" yaml:"sha256_hash"`
	CharacterFrequency map[string]int `json:"character_frequency_map" yaml:"character_frequency_map"`
}

// StringRecord is an analyzed string addressed by its content hash
type StringRecord struct {
	ID         string     `json:"id" yaml:"id"`
	Value      string     `json:"value" yaml:"value"`
	Properties Properties `json:"properties" yaml:"properties"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// ContentHash returns the hex-encoded SHA-256 digest of the UTF-8 bytes of value
func ContentHash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Analyze computes the full record for value.
// The caller must reject the empty string before calling Analyze.
func Analyze(value string) *StringRecord {
	hash := ContentHash(value)
	frequency := CharacterFrequency(value)

	length := 0
	for _, count := range frequency {
		length += count
	}

	return &StringRecord{
		ID:    hash,
		Value: value,
		Properties: Properties{
			Length:             length,
			IsPalindrome:       IsPalindrome(value),
			UniqueCharacters:   len(frequency),
			WordCount:          WordCount(value),
			SHA256Hash:         hash,
			CharacterFrequency: frequency,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// CharacterFrequency counts the occurrences of every code point in value.
// Keys are case-sensitive: 'A' and 'a' are counted separately.
func CharacterFrequency(value string) map[string]int {
	frequency := make(map[string]int)
	for _, r := range value {
		frequency[string(r)]++
	}
	return frequency
}

// IsPalindrome reports whether the lowercase-folded value reads the same in reverse.
// Whitespace and punctuation are significant.
func IsPalindrome(value string) bool {
	runes := []rune(strings.ToLower(value))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// WordCount returns the number of whitespace-delimited non-empty tokens
func WordCount(value string) int {
	return len(strings.Fields(value))
}
