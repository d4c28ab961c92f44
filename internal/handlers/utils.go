package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hopefund/apiserver/internal/services"
	"github.com/hopefund/apiserver/internal/store"
)

type contextKey string

const contextClaimsKey contextKey = "claims"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges an operation with no other payload.
type StatusResponse struct {
	Status string `json:"status"`
}

func claimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, errors.New("missing claims")
	}
	return claims, nil
}

func actorFromContext(ctx context.Context) (services.Actor, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{
		ID:    claims.ID,
		Role:  claims.Role,
		Admin: claims.Admin,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service and store errors onto the HTTP error
// taxonomy. Unexpected failures are logged in full and reported with
// the generic fallback message only.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg, fallbackMsg string) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	default:
		slog.Error(fallbackMsg, "error", err)
		writeError(w, http.StatusInternalServerError, fallbackMsg)
	}
}
