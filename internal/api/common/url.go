// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// GetAndValidateURLParam extracts and decodes a URL parameter from the request.
// chi matches against the raw path when the request carries one, so the
// parameter is only unescaped in that case. Whitespace is preserved; the
// decoded value must not be empty.
func GetAndValidateURLParam(r *http.Request, paramName string) (string, error) {
	value := chi.URLParam(r, paramName)

	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(value)
		if err != nil {
			return "", fmt.Errorf("invalid URL encoding in %s", paramName)
		}
		value = decoded
	}

	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", paramName)
	}

	return value, nil
}
