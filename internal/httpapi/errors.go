package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"predictd/internal/classifier"
	"predictd/internal/normalize"
	"predictd/pkg/types"
)

// statusForError is the single translation point from the typed error
// taxonomy to HTTP status codes. Anything unrecognized maps to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, normalize.ErrEmptyInput):
		return http.StatusBadRequest
	case normalize.IsDecode(err):
		return http.StatusUnprocessableEntity
	case classifier.IsModelUnavailable(err):
		return http.StatusInternalServerError
	case classifier.IsInference(err):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a predict failure to its status and logs it. A 500 is
// never written without the full error context in the log.
func respondError(w http.ResponseWriter, req *http.Request, log zerolog.Logger, err error, start time.Time) {
	status := statusForError(err)
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("request_id", middleware.GetReqID(req.Context())).
		Int("status", status).
		Dur("dur", time.Since(start)).
		Msg("predict failed")
	writeJSONError(w, status, err.Error())
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
