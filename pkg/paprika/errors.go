package paprika

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is to tell them apart; errors.As yields the
// concrete type with details.
var (
	// ErrTransport matches *TransportError.
	ErrTransport = errors.New("paprika: transport error")
	// ErrDecode matches *DecodeError.
	ErrDecode = errors.New("paprika: decode error")
	// ErrUnexpectedShape matches *ShapeError.
	ErrUnexpectedShape = errors.New("paprika: unexpected response shape")
	// ErrRejected is returned when the service answers an upload with false.
	// The recipe's remote state is unknown; fetch it again to confirm.
	ErrRejected = errors.New("paprika: upload rejected by service")
	// ErrEmptyBody is the cause of a DecodeError for an empty response.
	ErrEmptyBody = errors.New("empty response body")
)

// maxErrorBody caps how much of a failed response is kept on a TransportError.
const maxErrorBody = 512

// TransportError reports a failed HTTP exchange: the request could not be
// sent, the response could not be read, or the status was not 2xx.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int    // 0 when no response arrived
	Body       string // start of the response body for non-2xx statuses
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("paprika: %s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("paprika: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError reports a response body that is not a known envelope. Body
// holds the raw text for diagnostics.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("paprika: decode response: %v (body %q)", e.Err, truncate(e.Body, maxErrorBody))
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecode as a match.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ShapeError reports a well-formed envelope whose payload is not the kind
// the endpoint is supposed to return.
type ShapeError struct {
	Endpoint string
	Expected Kind
	Got      Kind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("paprika: %s: expected %s result, got %s", e.Endpoint, e.Expected, e.Got)
}

// Is reports ErrUnexpectedShape as a match.
func (e *ShapeError) Is(target error) bool { return target == ErrUnexpectedShape }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
