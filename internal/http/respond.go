package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/luissince/architect-portfolio-sub000/internal/cart"
	"github.com/luissince/architect-portfolio-sub000/internal/checkout"
	"github.com/luissince/architect-portfolio-sub000/internal/ledger"
	"github.com/luissince/architect-portfolio-sub000/internal/session"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps package sentinels onto HTTP statuses. Unknown
// ids surface as a 404 not-found view state, never a 500.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "validation_failed", validationErr.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "line_not_found", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		respondError(w, http.StatusConflict, "checkout_in_flight", err.Error())
	case errors.Is(err, checkout.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, ledger.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "missing_fields", err.Error())
	case errors.Is(err, session.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", err.Error())
	default:
		log.Printf("[http] internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
