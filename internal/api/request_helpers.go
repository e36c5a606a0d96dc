package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskboardhq/taskboard-api/internal/domain"
)

// getPathID extracts an integer ID from the URL path parameters.
// Returns domain.ErrInvalidID (wrapped) when the parameter is missing or not
// a number, so the caller can reject the request before any service call.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%w: missing %s parameter", domain.ErrInvalidID, paramName)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidID, pathParam)
	}

	return id, nil
}

// getQueryInt64 extracts an optional integer query parameter.
// Returns (nil, nil) when the parameter is absent and domain.ErrInvalidID
// (wrapped) when present but not a number.
func getQueryInt64(r *http.Request, paramName string) (*int64, error) {
	raw := r.URL.Query().Get(paramName)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidID, raw)
	}

	return &v, nil
}
