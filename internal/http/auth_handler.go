package http

import (
	"net/http"

	"github.com/luissince/architect-portfolio-sub000/internal/session"
)

type AuthHandler struct {
	sessions *session.Service
}

func NewAuthHandler(sessions *session.Service) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type SessionResponseDTO struct {
	State string      `json:"state"`
	User  interface{} `json:"user,omitempty"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ok, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !ok {
		// One generic message for unknown email and wrong password.
		respondError(w, http.StatusUnauthorized, "bad_credentials", "credentials incorrect")
		return
	}

	h.Session(w, r)
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "password_mismatch", "passwords do not match")
		return
	}

	if err := h.sessions.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		handleServiceError(w, err)
		return
	}

	h.Session(w, r)
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	h.Session(w, r)
}

// GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := SessionResponseDTO{State: h.sessions.State().String()}
	if user, ok := h.sessions.CurrentUser(); ok {
		resp.User = user
	}
	respondJSON(w, http.StatusOK, resp)
}
