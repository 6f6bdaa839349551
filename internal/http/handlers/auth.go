package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/satriastudio/studio-be/internal/auth"
	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/routes"
)

// TokenIssuer is the credential check behind the login endpoint.
type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (auth.Token, error)
}

// AuthHandler owns the admin login endpoint.
type AuthHandler struct {
	issuer  TokenIssuer
	limiter func(http.Handler) http.Handler
}

// NewAuthHandler constructs the handler. limiter wraps the login route.
func NewAuthHandler(issuer TokenIssuer, limiter func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{issuer: issuer, limiter: limiter}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r *mux.Router) {
	r.Handle(routes.AdminLogin, h.limiter(http.HandlerFunc(h.handleLogin))).Methods(http.MethodPost)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, respond.CodeInvalidPayload, "invalid JSON payload")
		return
	}

	token, err := h.issuer.IssueToken(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token.Value, ExpiresAt: token.ExpiresAt})
	case errors.Is(err, auth.ErrValidation):
		respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "username and password are required")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, respond.CodeInvalidCredentials, "invalid credentials")
	case errors.Is(err, auth.ErrBackendUnavailable):
		respond.Error(w, http.StatusInternalServerError, respond.CodeUnavailable, "service unavailable")
	default:
		respond.Error(w, http.StatusInternalServerError, respond.CodeInternal, "internal server error")
	}
}
