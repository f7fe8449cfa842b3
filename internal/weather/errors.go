package weather

import "errors"

var (
	// ErrInvalidInput is returned for a missing or too-short postal code.
	ErrInvalidInput = errors.New("invalid postal code")
	// ErrUnsupportedRegion is returned when the postal prefix has no city.
	ErrUnsupportedRegion = errors.New("postal code not supported")
	// ErrUpstreamUnavailable covers transport failures, timeouts and non-2xx statuses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamMalformed is returned when the feed body is not parsable XML.
	ErrUpstreamMalformed = errors.New("upstream malformed")
)

// UpstreamError ties an upstream failure to its kind (ErrUpstreamUnavailable
// or ErrUpstreamMalformed) while keeping the underlying message intact.
type UpstreamError struct {
	Kind error
	Err  error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func upstreamUnavailable(err error) error {
	return &UpstreamError{Kind: ErrUpstreamUnavailable, Err: err}
}

func upstreamMalformed(err error) error {
	return &UpstreamError{Kind: ErrUpstreamMalformed, Err: err}
}
