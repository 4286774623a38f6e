package reliefweb

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds each individual HTTP request.
const DefaultTimeout = 30 * time.Second

// Option defines a functional option for configuring a Client.
type Option func(*Options) error

// Options contains optional configuration for the Client.
type Options struct {
	// baseURL is the API root that endpoint names are appended to.
	baseURL string

	// timeout bounds each individual HTTP request.
	timeout time.Duration

	// fetchConcurrency is the maximum number of document fetches in flight, 1 means sequential.
	fetchConcurrency int

	// newTransport builds the transport for a single search invocation.
	newTransport func() http.RoundTripper
}

// NewOptions creates Options with defaults and applies the given options.
func NewOptions(opts ...Option) (Options, error) {
	o := Options{
		baseURL:          DefaultBaseURL,
		timeout:          DefaultTimeout,
		fetchConcurrency: 1,
		newTransport:     defaultTransport,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithBaseURL sets the API root, e.g. "https://api.reliefweb.int/v2".
func WithBaseURL(baseURL string) Option {
	return func(o *Options) error {
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if baseURL == "" {
			return fmt.Errorf("base URL cannot be empty")
		}

		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base URL '%s' must use http or https", baseURL)
		}

		o.baseURL = baseURL
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

// WithFetchConcurrency sets how many documents may be fetched at once.
// Output order always follows the order of the search results.
func WithFetchConcurrency(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("fetch concurrency must be at least 1, got %d", n)
		}
		o.fetchConcurrency = n
		return nil
	}
}

// WithTransport sets the factory used to build a transport for each search invocation.
func WithTransport(fn func() http.RoundTripper) Option {
	return func(o *Options) error {
		if fn == nil {
			return fmt.Errorf("transport factory cannot be nil")
		}
		o.newTransport = fn
		return nil
	}
}

func defaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	return http.DefaultTransport
}
