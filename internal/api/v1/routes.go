// Package v1 provides the REST API handlers for the string analyzer.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
	"github.com/stacklok/string-analyzer-server/internal/api/common"
	"github.com/stacklok/string-analyzer-server/internal/service"
)

// maxRequestBodyBytes bounds the size of a submitted string payload
const maxRequestBodyBytes = 1 << 20

// CreateStringRequest is the body accepted by POST /strings
type CreateStringRequest struct {
	Value string `json:"value" validate:"required"`
}

// ListStringsResponse is returned by GET /strings
type ListStringsResponse struct {
	Data           []*analyzer.StringRecord `json:"data"`
	Count          int                      `json:"count"`
	FiltersApplied map[string]any           `json:"filters_applied"`
}

// InterpretedQuery describes how a natural language query was understood
type InterpretedQuery struct {
	Original      string         `json:"original"`
	ParsedFilters map[string]any `json:"parsed_filters"`
}

// NaturalLanguageResponse is returned by GET /strings/filter-by-natural-language
type NaturalLanguageResponse struct {
	Data             []*analyzer.StringRecord `json:"data"`
	Count            int                      `json:"count"`
	InterpretedQuery InterpretedQuery         `json:"interpreted_query"`
}

// NaturalLanguageQuery holds the query parameters of the natural language endpoint
type NaturalLanguageQuery struct {
	Query string `validate:"required"`
}

// Routes handles HTTP requests for the string endpoints.
type Routes struct {
	service  service.StringService
	validate *validator.Validate
}

// NewRoutes creates a new Routes instance with the given service.
func NewRoutes(svc service.StringService) *Routes {
	return &Routes{
		service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router creates and configures the HTTP router for the string endpoints.
// It is meant to be mounted at /strings.
func Router(svc service.StringService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Post("/", routes.createString)
	r.Get("/", routes.listStrings)
	r.Get("/filter-by-natural-language", routes.filterByNaturalLanguage)
	r.Get("/{value}", routes.getString)
	r.Delete("/{value}", routes.deleteString)

	return r
}

// createString handles POST /strings
//
// @Summary		Analyze and store a string
// @Description	Compute the properties of a string and store the record
// @Tags		strings
// @Accept		json
// @Produce		json
// @Param		body	body		CreateStringRequest	true	"String to analyze"
// @Success		201		{object}	analyzer.StringRecord
// @Failure		400		{object}	common.ErrorResponse	"Invalid request body"
// @Failure		409		{object}	common.ErrorResponse	"String already exists"
// @Router		/strings [post]
func (routes *Routes) createString(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		common.WriteErrorResponse(w, "Request body is required", http.StatusBadRequest)
		return
	}

	var req CreateStringRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		common.WriteErrorResponse(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := routes.validate.Struct(&req); err != nil {
		common.WriteErrorResponse(w, formatValidationError(err), http.StatusBadRequest)
		return
	}

	record, err := routes.service.CreateString(r.Context(), req.Value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, record, http.StatusCreated)
}

// getString handles GET /strings/{value}
//
// @Summary		Get a string
// @Description	Get the stored record for an exact string value
// @Tags		strings
// @Produce		json
// @Param		value	path		string	true	"String value (URL encoded)"
// @Success		200		{object}	analyzer.StringRecord
// @Failure		404		{object}	common.ErrorResponse	"String not found"
// @Router		/strings/{value} [get]
func (routes *Routes) getString(w http.ResponseWriter, r *http.Request) {
	value, err := common.GetAndValidateURLParam(r, "value")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := routes.service.GetString(r.Context(), value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, record, http.StatusOK)
}

// deleteString handles DELETE /strings/{value}
//
// @Summary		Delete a string
// @Tags		strings
// @Param		value	path	string	true	"String value (URL encoded)"
// @Success		204
// @Failure		404		{object}	common.ErrorResponse	"String not found"
// @Router		/strings/{value} [delete]
func (routes *Routes) deleteString(w http.ResponseWriter, r *http.Request) {
	value, err := common.GetAndValidateURLParam(r, "value")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := routes.service.DeleteString(r.Context(), value); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listStrings handles GET /strings
//
// @Summary		List strings
// @Description	List stored strings matching every supplied filter
// @Tags		strings
// @Produce		json
// @Param		is_palindrome		query	bool	false	"Palindrome flag"
// @Param		min_length			query	int		false	"Inclusive minimum length"
// @Param		max_length			query	int		false	"Inclusive maximum length"
// @Param		word_count			query	int		false	"Exact word count"
// @Param		contains_character	query	string	false	"Single character, compared case-insensitively"
// @Success		200		{object}	ListStringsResponse
// @Failure		400		{object}	common.ErrorResponse	"Invalid filter"
// @Router		/strings [get]
func (routes *Routes) listStrings(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := routes.service.ListStrings(r.Context(), opts...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := nonNil(result.Data)
	common.WriteJSONResponse(w, ListStringsResponse{
		Data:           data,
		Count:          len(data),
		FiltersApplied: result.FiltersApplied,
	}, http.StatusOK)
}

// filterByNaturalLanguage handles GET /strings/filter-by-natural-language
//
// @Summary		Filter strings with a natural language query
// @Description	Interpret a free text query into filters and apply them
// @Tags		strings
// @Produce		json
// @Param		query	query		string	true	"Natural language query"
// @Success		200		{object}	NaturalLanguageResponse
// @Failure		400		{object}	common.ErrorResponse	"Query missing or not understood"
// @Router		/strings/filter-by-natural-language [get]
func (routes *Routes) filterByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	params := NaturalLanguageQuery{Query: r.URL.Query().Get("query")}
	if err := routes.validate.Struct(&params); err != nil {
		common.WriteErrorResponse(w, formatValidationError(err), http.StatusBadRequest)
		return
	}

	result, err := routes.service.FilterByNaturalLanguage(r.Context(), params.Query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := nonNil(result.Data)
	common.WriteJSONResponse(w, NaturalLanguageResponse{
		Data:  data,
		Count: len(data),
		InterpretedQuery: InterpretedQuery{
			Original:      result.Original,
			ParsedFilters: result.ParsedFilters,
		},
	}, http.StatusOK)
}

// parseListOptions converts the supplied query parameters into list options.
// A parameter that is present but empty is rejected.
func parseListOptions(r *http.Request) ([]service.ListOption, error) {
	query := r.URL.Query()
	var opts []service.ListOption

	if raw, ok := lookup(query, "is_palindrome"); ok {
		v, err := parseBool(raw)
		if err != nil {
			return nil, errors.New("invalid is_palindrome parameter: must be a boolean")
		}
		opts = append(opts, service.WithIsPalindrome(v))
	}

	intParams := []struct {
		name string
		opt  func(int) service.ListOption
	}{
		{"min_length", service.WithMinLength},
		{"max_length", service.WithMaxLength},
		{"word_count", service.WithWordCount},
	}
	for _, p := range intParams {
		raw, ok := lookup(query, p.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s parameter: must be an integer", p.name)
		}
		opts = append(opts, p.opt(v))
	}

	if raw, ok := lookup(query, "contains_character"); ok {
		opts = append(opts, service.WithContainsCharacter(raw))
	}

	return opts, nil
}

// parseBool accepts the strconv.ParseBool forms plus yes/on/no/off in any case.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.ToLower(raw))
}

func lookup(query url.Values, name string) (string, bool) {
	values, ok := query[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func nonNil(records []*analyzer.StringRecord) []*analyzer.StringRecord {
	if records == nil {
		return []*analyzer.StringRecord{}
	}
	return records
}

// writeServiceError maps service errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		common.WriteErrorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrNotFound):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidArgument):
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		common.WriteErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
