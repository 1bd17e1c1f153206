package filtering

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
)

// FilterService coordinates property and character filtering over stored records
type FilterService interface {
	// ApplyFilters returns the records that satisfy every set predicate
	ApplyFilters(
		ctx context.Context,
		records []*analyzer.StringRecord,
		predicates *Predicates,
	) ([]*analyzer.StringRecord, error)
}

// defaultFilterService implements filtering coordination using property and character filters
type defaultFilterService struct {
	propertyFilter  PropertyFilter
	characterFilter CharacterFilter
}

// NewDefaultFilterService creates a new defaultFilterService with default filter implementations
func NewDefaultFilterService() FilterService {
	return &defaultFilterService{
		propertyFilter:  NewDefaultPropertyFilter(),
		characterFilter: NewDefaultCharacterFilter(),
	}
}

// NewFilterService creates a new defaultFilterService with custom filter implementations
func NewFilterService(propertyFilter PropertyFilter, characterFilter CharacterFilter) FilterService {
	return &defaultFilterService{
		propertyFilter:  propertyFilter,
		characterFilter: characterFilter,
	}
}

// ApplyFilters filters the records based on the predicate set
//
// The filtering process:
// 1. Reject contradictory predicates (min_length > max_length)
// 2. If no predicate is set, return the original records unchanged
// 3. For each record, apply property and character filtering
// 4. Only include records that pass both filters
//
// The input slice is never modified.
func (s *defaultFilterService) ApplyFilters(
	ctx context.Context,
	records []*analyzer.StringRecord,
	predicates *Predicates,
) ([]*analyzer.StringRecord, error) {
	if err := predicates.Validate(); err != nil {
		return nil, err
	}

	if predicates.IsEmpty() {
		slog.DebugContext(ctx, "No filter specified, returning all records", "count", len(records))
		return records, nil
	}

	filtered := make([]*analyzer.StringRecord, 0, len(records))
	excludedCount := 0

	for _, record := range records {
		included, reason := s.shouldIncludeRecordWithReason(record, predicates)
		if included {
			filtered = append(filtered, record)
			slog.DebugContext(ctx, "Including string",
				"id", record.ID,
				"reason", reason)
		} else {
			excludedCount++
			slog.DebugContext(ctx, "Excluding string",
				"id", record.ID,
				"reason", reason)
		}
	}

	slog.InfoContext(ctx, "String filtering completed",
		"filters", predicates.Applied(),
		"includedStrings", len(filtered),
		"excludedStrings", excludedCount)

	return filtered, nil
}

// shouldIncludeRecordWithReason determines if a record should be included and provides detailed reasoning
// Both property and character filters must pass for a record to be included
func (s *defaultFilterService) shouldIncludeRecordWithReason(
	record *analyzer.StringRecord,
	predicates *Predicates,
) (bool, string) {
	propertyIncluded, propertyReason := s.propertyFilter.ShouldInclude(&record.Properties, predicates)
	if !propertyIncluded {
		return false, fmt.Sprintf("property filter: %s", propertyReason)
	}

	characterIncluded, characterReason := s.characterFilter.ShouldInclude(
		record.Properties.CharacterFrequency,
		predicates.ContainsCharacter,
	)
	if !characterIncluded {
		return false, fmt.Sprintf("character filter: %s", characterReason)
	}

	return true, "passed all filters: " + strings.Join([]string{
		fmt.Sprintf("property filter: %s", propertyReason),
		fmt.Sprintf("character filter: %s", characterReason),
	}, " AND ")
}
