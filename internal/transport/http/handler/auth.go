package handler

import (
	"errors"
	"net/http"

	"github.com/go-api-employees/internal/application/auth"
	"github.com/go-api-employees/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AuthHandler handles registration and account activation.
type AuthHandler struct {
	svc         auth.Service
	exposeToken bool
}

// NewAuthHandler builds the handler. When exposeToken is set the activation
// token is echoed in the register response.
func NewAuthHandler(svc auth.Service, exposeToken bool) *AuthHandler {
	return &AuthHandler{svc: svc, exposeToken: exposeToken}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	token, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	resp := RegisterEnvelope{Message: "User registered successfully. Please use the activation code to activate your account."}
	if h.exposeToken {
		resp.ActivationToken = token
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Activate(r.Context(), chi.URLParam(r, "token")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "This activation token is invalid.")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Account activated successfully."})
}

func (h *AuthHandler) ResendActivation(w http.ResponseWriter, r *http.Request) {
	var req domain.ResendActivationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.ResendActivation(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "We can't find a user with that email address.")
		case errors.Is(err, domain.ErrConflict):
			writeError(w, http.StatusConflict, "This account is already activated.")
		default:
			httpError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "A new activation code has been sent."})
}
