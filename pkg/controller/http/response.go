package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/usecase"
	"github.com/secmon-lab/grxp/pkg/utils/errutil"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

// ErrBadRequest marks malformed request input
var ErrBadRequest = goerr.New("bad request")

// statusOf maps use case and domain errors to an HTTP status
func statusOf(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, usecase.ErrRiskNotFound), errors.Is(err, usecase.ErrCatalogEntryNotFound):
		return http.StatusNotFound
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrBadRequest), usecase.IsImportError(err), types.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoArchiver):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.From(r.Context()).Warn("failed to write response", "error", err)
	}
}

// decodeJSON reads a JSON request body. Unknown fields such as the computed
// level of an assessment are ignored.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return goerr.Wrap(err, "request body too large")
		}
		return goerr.Wrap(ErrBadRequest, "invalid JSON body", goerr.V("error", err.Error()))
	}
	return nil
}
