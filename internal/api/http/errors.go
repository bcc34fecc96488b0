package http

import (
	"errors"
	"net/http"

	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/pkg/httpx"
	"github.com/kikundi/chama/pkg/slogx"
)

// writeError maps a service error onto the API's error bodies.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteFieldErrors(w, ve.Fields)
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, "Not found.", "not_found")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteDetail(w, http.StatusForbidden, "You do not have permission to perform this action.", httpx.CodePermissionDenied)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "A server error occurred.", "server_error")
	}
}

func writeParseError(w http.ResponseWriter, err error) {
	httpx.WriteDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error(), "parse_error")
}

// decode reads the JSON body into v, writing the 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		writeParseError(w, err)
		return false
	}
	return true
}

// principal returns the authenticated caller's id. Authn guarantees it is
// present on every secured route.
func principal(r *http.Request) httpx.Principal {
	p, _ := httpx.PrincipalFromContext(r.Context())
	return p
}
