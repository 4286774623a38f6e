package reliefweb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"

	"github.com/jahirul76/reliefweb-mcp/internal/errors"
)

// Response is the outcome of a single GET issued by a Requester.
// Exactly one of Body or Err is meaningful: when Err is non-nil the request did not complete.
type Response struct {
	// URL is the requested URL, including any encoded query parameters.
	URL string

	// StatusCode is the HTTP status returned by the server, zero when the request failed.
	StatusCode int

	// Body is the raw response text, returned regardless of the status code.
	Body string

	// Err wraps errors.ErrRequestFailed when the request could not be completed.
	Err error
}

// Failed reports whether the request failed at the transport level.
func (r Response) Failed() bool {
	return r.Err != nil
}

// Requester issues GET requests and reports the outcome as a Response rather than an error.
type Requester struct {
	client *http.Client
	logger hclog.Logger
}

// NewRequester returns a Requester using the given HTTP client.
// The client is expected to carry the request timeout, redirects are followed by the default policy.
func NewRequester(logger hclog.Logger, client *http.Client) *Requester {
	if client == nil {
		client = http.DefaultClient
	}

	return &Requester{
		client: client,
		logger: logger,
	}
}

// Fetch performs a GET against rawURL. When params is non-empty it is merged into the URL's
// query string, otherwise the URL is requested verbatim.
func (r *Requester) Fetch(ctx context.Context, rawURL string, params url.Values) Response {
	r.logger.Debug("Outbound request", "url", rawURL, "params", params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return r.failed(rawURL, fmt.Errorf("%w: building request for '%s': %w", errors.ErrRequestFailed, rawURL, err))
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	requestURL := req.URL.String()

	resp, err := r.client.Do(req)
	if err != nil {
		return r.failed(requestURL, fmt.Errorf("%w: %w", errors.ErrRequestFailed, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return r.failed(
			requestURL,
			fmt.Errorf("%w: reading response body from '%s': %w", errors.ErrRequestFailed, requestURL, err),
		)
	}

	r.logger.Debug("Response received", "url", requestURL, "status", resp.StatusCode)
	r.logger.Trace("Response body", "url", requestURL, "body", string(body))

	return Response{
		URL:        requestURL,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

func (r *Requester) failed(requestURL string, err error) Response {
	r.logger.Warn("Outbound request failed", "url", requestURL, "error", err)

	return Response{
		URL: requestURL,
		Err: err,
	}
}
