package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
)

type AuthHandler struct {
	auth port.Authenticator
}

func NewAuthHandler(auth port.Authenticator) AuthHandler {
	if auth == nil {
		panic("nil authenticator") // develop mistake
	}
	return AuthHandler{auth}
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Login"
	log := slog.With("op", op)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cred, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			log.Warn("login rejected", "remote", clientAddr(r))
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:   "Login successful",
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
		User:      userResponse(cred.Identity),
	})
}

// Verify runs behind AdminOnly, so reaching it means the token is good.
func (h AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, codeAuthentication, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Valid: true, User: userResponse(id)})
}
