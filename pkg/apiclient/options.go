package apiclient

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3001"

const (
	defaultTimeout      = 5 * time.Second
	defaultRetryBackoff = 100 * time.Millisecond
)

// Observer receives one event per HTTP round trip. status is 0 when the call
// failed before a response arrived.
type Observer interface {
	ObserveRequest(op string, status int, elapsed time.Duration, err error)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. WithTimeout is ignored
// when a client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
			c.customHTTP = true
		}
	}
}

// WithTimeout bounds every round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetries retries the idempotent list call up to n extra times on
// transport errors and 5xx responses. Mutations are never retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryBackoff sets the base of the exponential retry backoff.
func WithRetryBackoff(base time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.backoff = base
		}
	}
}

// WithSchemaValidation checks decoded responses against contract. A nil
// contract selects the embedded users contract.
func WithSchemaValidation(contract *Contract) Option {
	return func(c *Client) {
		c.validate = true
		c.contract = contract
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver reports round trips to observer.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}
