package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInFlight  = errors.New("another checkout attempt is already committing")
	ErrNotAuthenticated  = errors.New("checkout requires an authenticated session")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// ValidationError reports a single rejected form field. Validation runs
// before any side effect, so a rejected attempt leaves cart and ledger
// untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required and must be non-empty"}
}
