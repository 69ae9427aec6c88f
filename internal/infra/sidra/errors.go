package sidra

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that are not a *FetchError.
	KindUnknown Kind = iota
	// KindNetwork covers connection, DNS, TLS and timeout failures.
	KindNetwork
	// KindStatus is a non-2xx HTTP response.
	KindStatus
	// KindDecode is a body that is not the expected JSON shape.
	KindDecode
	// KindEmpty is a well-formed response with no data rows.
	KindEmpty
	// KindCircuitOpen is a call rejected by the circuit breaker.
	KindCircuitOpen
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindEmpty:
		return "empty"
	case KindCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// ErrEmptyResult is the cause carried by KindEmpty errors.
var ErrEmptyResult = errors.New("response has no data rows")

// FetchError is the error returned by Client.FetchPopulation.
type FetchError struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("sidra fetch failed (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *FetchError in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return KindUnknown
}
