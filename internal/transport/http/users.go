package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nyckye/keyshop/internal/domain"
)

// UserRegistrar is the minimal interface needed by the registration endpoint.
type UserRegistrar interface {
	Register(ctx context.Context, userID, name string) error
}

// HandleRegisterUser returns an HTTP handler recording a user on first
// contact. Repeat registrations are no-ops.
func HandleRegisterUser(svc UserRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.Register(r.Context(), req.UserID, req.Name); err != nil {
			switch {
			case errors.Is(err, domain.ErrUserIDRequired):
				writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type registerUserRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
