// Package service provides the business logic for the string analyzer API
package service

import (
	"context"
	"errors"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
)

var (
	// ErrAlreadyExists is returned when a string has already been submitted
	ErrAlreadyExists = errors.New("string already exists in the system")
	// ErrNotFound is returned when a string is not stored
	ErrNotFound = errors.New("string does not exist in the system")
	// ErrInvalidArgument is returned when filter parameters or queries are invalid
	ErrInvalidArgument = errors.New("invalid argument")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go StringService

// StringService defines the interface for string analysis operations
type StringService interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// CreateString analyzes and stores a new string
	CreateString(ctx context.Context, value string) (*analyzer.StringRecord, error)

	// GetString returns the stored analysis of a string
	GetString(ctx context.Context, value string) (*analyzer.StringRecord, error)

	// DeleteString removes a stored string
	DeleteString(ctx context.Context, value string) error

	// ListStrings returns the stored strings matching the given filters
	ListStrings(ctx context.Context, opts ...ListOption) (*ListStringsResult, error)

	// FilterByNaturalLanguage interprets a free-text query and returns the matching strings
	FilterByNaturalLanguage(ctx context.Context, query string) (*NaturalLanguageResult, error)
}

// ListStringsResult is the result of the ListStrings operation
type ListStringsResult struct {
	Data           []*analyzer.StringRecord
	FiltersApplied map[string]any
}

// NaturalLanguageResult is the result of the FilterByNaturalLanguage operation
type NaturalLanguageResult struct {
	Data          []*analyzer.StringRecord
	Original      string
	ParsedFilters map[string]any
}
