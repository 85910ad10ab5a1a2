// README: Error taxonomy shared by the API clients, the scheduler and the chat flow.
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a lookup returned no candidates (user input problem).
	ErrNotFound = errors.New("not found")
	// ErrConfig means required configuration or input data is missing.
	ErrConfig = errors.New("configuration error")
)

// TransportError wraps any network, HTTP status or decoding failure from an
// external API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError returns nil when err is nil.
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// IsTransport reports whether err (or anything it wraps) is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
