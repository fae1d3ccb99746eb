package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/utagms/internal/analysis"
	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
	"github.com/MikeSquared-Agency/utagms/internal/store"
	"github.com/MikeSquared-Agency/utagms/internal/uta"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, problem.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrProblemNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, uta.ErrInfeasible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lp.ErrIntegerUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

var errInvalidSamples = fmt.Errorf("%w: samples must be a non-negative integer", problem.ErrInvalid)
