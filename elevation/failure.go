package elevation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind of a failed lookup attempt
type Kind int

const (
	Transient   Kind = iota // retry after a linear delay
	RateLimited             // retry after an exponential delay
	Permanent               // don't retry
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case RateLimited:
		return "rate limited"
	case Permanent:
		return "permanent"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrNoData is the cause of a failure when the service answered with its "no data" sentinel.
var ErrNoData = errors.New("no data")

// Failure is a classified lookup failure.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Classify turns any error from a lookup attempt into a Failure. Errors that are already a Failure
// keep their kind. Cancellation is permanent, everything else (timeouts, connection errors) is transient.
func Classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.Canceled) {
		return &Failure{Kind: Permanent, Err: err}
	}
	return &Failure{Kind: Transient, Err: err}
}

// StatusFailure classifies a non-200 http response.
func StatusFailure(code int, message string) *Failure {
	err := fmt.Errorf("status %d: %s", code, message)
	switch {
	case code == http.StatusTooManyRequests,
		code == http.StatusBadGateway,
		code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout:
		return &Failure{Kind: RateLimited, Err: err}
	case code == http.StatusRequestTimeout, code >= 500:
		return &Failure{Kind: Transient, Err: err}
	case code >= 400:
		return &Failure{Kind: Permanent, Err: err}
	}
	return &Failure{Kind: Transient, Err: err}
}
