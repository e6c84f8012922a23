package server

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/kamusis/coursepath/internal/logging"
	"github.com/kamusis/coursepath/internal/validation"
)

// APIError is the body of every non-validation error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("cannot encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	respondJSON(w, r, status, APIError{Code: code, Message: msg})
}

func respondValidation(w http.ResponseWriter, r *http.Request, verr *validation.Error) {
	respondJSON(w, r, http.StatusBadRequest, verr.ToAPIError())
}
