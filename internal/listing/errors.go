package listing

import (
	"errors"
	"fmt"
)

const (
	namespaceNotFoundMessageConstant = "namespace resolves to neither a group nor a user"
	listingErrorTemplateConstant     = "listing %s: %s"
)

// ErrNamespaceNotFound indicates a configured namespace matches no group or user.
var ErrNamespaceNotFound = errors.New(namespaceNotFoundMessageConstant)

// ListingError wraps a platform API failure observed while enumerating repositories.
type ListingError struct {
	Operation string
	Cause     error
}

// Error describes the failed listing operation.
func (failure ListingError) Error() string {
	return fmt.Sprintf(listingErrorTemplateConstant, failure.Operation, failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (failure ListingError) Unwrap() error {
	return failure.Cause
}
