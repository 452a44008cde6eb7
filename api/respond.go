package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/iitconnect/iitconnect/internal/ai"
	"github.com/iitconnect/iitconnect/pkg/llm"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

// writeRepoError maps store sentinels onto HTTP statuses. Anything
// unrecognized is a server fault and gets logged.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, errResponse{Error: "not found"}, http.StatusNotFound)
	case errors.Is(err, repository.ErrForbidden):
		writeJSON(w, errResponse{Error: "you do not own this"}, http.StatusForbidden)
	case errors.Is(err, repository.ErrDuplicate):
		writeJSON(w, errResponse{Error: "already exists"}, http.StatusConflict)
	case errors.Is(err, repository.ErrCrossForum):
		writeJSON(w, errResponse{Error: "parent comment belongs to a different thread"}, http.StatusBadRequest)
	default:
		logger.Error("request failed", slog.Any("err", err))
		writeJSON(w, errResponse{Error: "internal error"}, http.StatusInternalServerError)
	}
}

// writeEngineError maps study engine failures. The AI features degrade
// softly: a down model host or garbage output never surfaces as a 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrMalformedOutput):
		writeJSON(w, errResponse{Error: "the model produced unusable output, try again"}, http.StatusBadGateway)
	case errors.Is(err, llm.ErrCircuitOpen):
		writeJSON(w, errResponse{Error: "study features are temporarily unavailable"}, http.StatusServiceUnavailable)
	default:
		logger.Warn("study engine failure", slog.Any("err", err))
		writeJSON(w, errResponse{Error: "study features are temporarily unavailable"}, http.StatusServiceUnavailable)
	}
}
