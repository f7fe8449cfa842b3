package providers

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errClientStatus = errors.New("client error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// tripAfter is the number of consecutive failures that opens a breaker.
const tripAfter = 5

// newCircuitBreaker opens after tripAfter consecutive failures and half-opens
// after openTimeout. 4xx answers are the caller's problem and do not
// count against the upstream.
func newCircuitBreaker(name string, openTimeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientStatus)
		},
	})
}

// breakerSet lazily creates one breaker per key.
type breakerSet struct {
	mu          sync.Mutex
	prefix      string
	openTimeout time.Duration
	breakers    map[string]*gobreaker.CircuitBreaker
}

func newBreakerSet(prefix string, openTimeout time.Duration) *breakerSet {
	return &breakerSet{
		prefix:      prefix,
		openTimeout: openTimeout,
		breakers:    make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (s *breakerSet) get(key string) *gobreaker.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.breakers[key]
	if !ok {
		cb = newCircuitBreaker(s.prefix+":"+key, s.openTimeout)
		s.breakers[key] = cb
	}
	return cb
}

// doRequest executes req exactly once through the circuit breaker. Non-2xx
// responses are closed and reported as errors. There are no retries.
func doRequest(client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: %d for url: %s", errRateLimited, resp.StatusCode, req.URL)
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: %d for url: %s", errServerError, resp.StatusCode, req.URL)
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("%w: %w: %d for url: %s", errUnexpected, errClientStatus, resp.StatusCode, req.URL)
		default:
			return nil, fmt.Errorf("%w: %d for url: %s", errUnexpected, resp.StatusCode, req.URL)
		}
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
