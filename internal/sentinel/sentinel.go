package sentinel

import "fmt"

var _ error = Error("")

// Error is an immutable error value. Because it is a comparable string type,
// errors.Is matches it anywhere in a wrapped chain.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}

// With returns an error whose chain contains both e and cause, so callers can
// match on the category (e) as well as the underlying reason (cause).
// A nil cause yields e itself.
func (e Error) With(cause error) error {
	if cause == nil {
		return e
	}
	return fmt.Errorf("%w: %w", e, cause)
}

// Withf is like With but formats a detail message instead of wrapping a cause.
func (e Error) Withf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}
