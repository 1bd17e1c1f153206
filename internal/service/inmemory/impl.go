// Package inmemory provides an in-memory implementation of the StringService interface
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
	"github.com/stacklok/string-analyzer-server/internal/filtering"
	"github.com/stacklok/string-analyzer-server/internal/nlquery"
	"github.com/stacklok/string-analyzer-server/internal/otel"
	"github.com/stacklok/string-analyzer-server/internal/service"
	"github.com/stacklok/string-analyzer-server/internal/store"
	"github.com/stacklok/string-analyzer-server/internal/telemetry"
)

// Operation names used for spans and metrics
const (
	opCreate   = "create"
	opGet      = "get"
	opDelete   = "delete"
	opList     = "list"
	opNLFilter = "filter_by_natural_language"
)

// stringSvc implements the StringService interface
type stringSvc struct {
	store         *store.Store
	filterService filtering.FilterService
	tracer        trace.Tracer
	metrics       *telemetry.StringMetrics
}

var _ service.StringService = (*stringSvc)(nil)

// Option is a functional option for configuring the stringSvc
type Option func(*stringSvc)

// WithStore sets the backing store, allowing several services to share one
func WithStore(s *store.Store) Option {
	return func(svc *stringSvc) {
		svc.store = s
	}
}

// WithFilterService sets a custom filter service
func WithFilterService(fs filtering.FilterService) Option {
	return func(svc *stringSvc) {
		svc.filterService = fs
	}
}

// WithTracer sets the tracer used to create spans for service operations
func WithTracer(tracer trace.Tracer) Option {
	return func(svc *stringSvc) {
		svc.tracer = tracer
	}
}

// WithMetrics sets the metrics recorder for service operations
func WithMetrics(metrics *telemetry.StringMetrics) Option {
	return func(svc *stringSvc) {
		svc.metrics = metrics
	}
}

// New creates a new in-memory string service with the given options
func New(opts ...Option) service.StringService {
	s := &stringSvc{}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = store.New()
	}
	if s.filterService == nil {
		s.filterService = filtering.NewDefaultFilterService()
	}

	return s
}

// CheckReadiness implements StringService.CheckReadiness
func (s *stringSvc) CheckReadiness(_ context.Context) error {
	if s.store == nil {
		return fmt.Errorf("string store not initialized")
	}
	return nil
}

// CreateString implements StringService.CreateString
func (s *stringSvc) CreateString(ctx context.Context, value string) (*analyzer.StringRecord, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "StringService.CreateString")
	defer span.End()

	if value == "" {
		err := fmt.Errorf("%w: value must not be empty", service.ErrInvalidArgument)
		s.finish(ctx, span, opCreate, err)
		return nil, err
	}

	record := analyzer.Analyze(value)
	span.SetAttributes(otel.AttrStringID.String(record.ID))

	if err := s.store.Insert(record); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			err = service.ErrAlreadyExists
		}
		s.finish(ctx, span, opCreate, err)
		return nil, err
	}

	slog.InfoContext(ctx, "Stored string",
		"id", record.ID,
		"length", record.Properties.Length)
	s.metrics.RecordStringsTotal(ctx, int64(s.store.Len()))
	s.finish(ctx, span, opCreate, nil)
	return record, nil
}

// GetString implements StringService.GetString
func (s *stringSvc) GetString(ctx context.Context, value string) (*analyzer.StringRecord, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "StringService.GetString")
	defer span.End()

	record, ok := s.store.LookupByValue(value)
	if !ok {
		s.finish(ctx, span, opGet, service.ErrNotFound)
		return nil, service.ErrNotFound
	}

	span.SetAttributes(otel.AttrStringID.String(record.ID))
	s.finish(ctx, span, opGet, nil)
	return record, nil
}

// DeleteString implements StringService.DeleteString
func (s *stringSvc) DeleteString(ctx context.Context, value string) error {
	ctx, span := otel.StartSpan(ctx, s.tracer, "StringService.DeleteString")
	defer span.End()

	if !s.store.DeleteByValue(value) {
		s.finish(ctx, span, opDelete, service.ErrNotFound)
		return service.ErrNotFound
	}

	slog.InfoContext(ctx, "Deleted string", "id", analyzer.ContentHash(value))
	s.metrics.RecordStringsTotal(ctx, int64(s.store.Len()))
	s.finish(ctx, span, opDelete, nil)
	return nil
}

// ListStrings implements StringService.ListStrings
func (s *stringSvc) ListStrings(
	ctx context.Context,
	opts ...service.ListOption,
) (*service.ListStringsResult, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "StringService.ListStrings")
	defer span.End()

	options, err := service.NewListStringsOptions(opts...)
	if err != nil {
		s.finish(ctx, span, opList, err)
		return nil, err
	}

	data, err := s.applyFilters(ctx, &options.Predicates)
	if err != nil {
		s.finish(ctx, span, opList, err)
		return nil, err
	}

	applied := options.Predicates.Applied()
	span.SetAttributes(
		otel.AttrFilterCount.Int(len(applied)),
		otel.AttrResultCount.Int(len(data)),
	)
	s.finish(ctx, span, opList, nil)
	return &service.ListStringsResult{
		Data:           data,
		FiltersApplied: applied,
	}, nil
}

// FilterByNaturalLanguage implements StringService.FilterByNaturalLanguage
func (s *stringSvc) FilterByNaturalLanguage(
	ctx context.Context,
	query string,
) (*service.NaturalLanguageResult, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "StringService.FilterByNaturalLanguage",
		trace.WithAttributes(otel.AttrQuery.String(query)),
	)
	defer span.End()

	interpretation, err := nlquery.Interpret(query)
	if err != nil {
		slog.DebugContext(ctx, "Natural language query not understood", "query", query)
		s.metrics.RecordNaturalLanguageQuery(ctx, false)
		err = fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
		s.finish(ctx, span, opNLFilter, err)
		return nil, err
	}
	s.metrics.RecordNaturalLanguageQuery(ctx, true)

	slog.DebugContext(ctx, "Interpreted natural language query",
		"query", query,
		"rules", interpretation.Rules)

	data, err := s.applyFilters(ctx, interpretation.Predicates)
	if err != nil {
		s.finish(ctx, span, opNLFilter, err)
		return nil, err
	}

	span.SetAttributes(
		otel.AttrResultCount.Int(len(data)),
		otel.AttrQueryMatched.StringSlice(interpretation.Rules),
	)
	s.finish(ctx, span, opNLFilter, nil)
	return &service.NaturalLanguageResult{
		Data:          data,
		Original:      interpretation.Original,
		ParsedFilters: interpretation.Predicates.Applied(),
	}, nil
}

// applyFilters runs the filter engine over a snapshot of the store
func (s *stringSvc) applyFilters(
	ctx context.Context,
	predicates *filtering.Predicates,
) ([]*analyzer.StringRecord, error) {
	data, err := s.filterService.ApplyFilters(ctx, s.store.List(), predicates)
	if err != nil {
		if errors.Is(err, filtering.ErrInvalidPredicates) {
			return nil, fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
		}
		return nil, fmt.Errorf("failed to filter strings: %w", err)
	}
	return data, nil
}

// finish records the outcome of an operation on the span and in metrics
func (s *stringSvc) finish(ctx context.Context, span trace.Span, operation string, err error) {
	otel.RecordError(span, err)
	s.metrics.RecordOperation(ctx, operation, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, service.ErrAlreadyExists):
		return telemetry.OutcomeConflict
	case errors.Is(err, service.ErrNotFound):
		return telemetry.OutcomeNotFound
	case errors.Is(err, service.ErrInvalidArgument):
		return telemetry.OutcomeInvalid
	default:
		return telemetry.OutcomeError
	}
}
