package ingest

import (
	"errors"
	"fmt"

	"github.com/ecomsync/backend/internal/domain/commerce"
)

// NormalizationError reports a malformed or missing field in a raw platform
// payload. Messages failing with it are dropped after logging and never
// retried: a malformed payload will not become well-formed on redelivery.
type NormalizationError struct {
	Platform commerce.Platform
	Field    string
	Reason   string
}

// Error implements the error interface
func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s payload: field %q: %s", e.Platform, e.Field, e.Reason)
}

// IsNormalizationError reports whether err is (or wraps) a NormalizationError
func IsNormalizationError(err error) bool {
	var ne *NormalizationError
	return errors.As(err, &ne)
}

func missingField(p commerce.Platform, field string) error {
	return &NormalizationError{Platform: p, Field: field, Reason: "required field is missing"}
}

func invalidField(p commerce.Platform, field, reason string) error {
	return &NormalizationError{Platform: p, Field: field, Reason: reason}
}
