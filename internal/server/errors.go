// Package server provides the HTTP REST API for the talent search funnel.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/talent-search/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation *types.ErrValidation
		notFound   *types.ErrNotFound
		upstream   *types.ErrUpstream
		format     *types.ErrResponseFormat
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &format):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
