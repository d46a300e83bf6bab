package shopify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a product, collection, or order does not
// exist (or is not published to the storefront).
var ErrNotFound = errors.New("shopify: not found")

// UserError is a field-level validation error returned by Admin API
// mutations in the userErrors array.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// ValidationError wraps Shopify userErrors. Handlers map it to a 4xx
// response with a message the storefront UI can show directly.
type ValidationError struct {
	Errors []UserError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			messages = append(messages, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
		} else {
			messages = append(messages, ue.Message)
		}
	}
	return "shopify validation: " + strings.Join(messages, "; ")
}

// userErrorsToErr converts a userErrors array to a *ValidationError, or nil
// when the array is empty.
func userErrorsToErr(errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// IsValidation reports whether err originates from Shopify userErrors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
