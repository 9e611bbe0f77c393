package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
	"github.com/taskjarvis/web-gateway/upstream"
)

// decodeRequest parses a JSON request body into out.
func decodeRequest(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidRequest, err)
	}
	return nil
}

// errorBody is the JSON error shape the gateway's API surface returns.
type errorBody struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Message: message})
}

// respondUpstreamError maps an upstream call failure onto the gateway's API
// surface: upstream rejections keep their status and message, everything
// else collapses to a generic failure so transport details never leak.
func respondUpstreamError(w http.ResponseWriter, err error, genericMessage string) {
	var upstreamErr *upstream.Error
	if apperrors.As(err, &upstreamErr) {
		respondError(w, upstreamErr.Status, upstreamErr.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, genericMessage)
}
