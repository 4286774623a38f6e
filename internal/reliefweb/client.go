package reliefweb

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// Document is one fetched search result.
type Document struct {
	// Href is the document URL taken from the search response.
	Href string

	// Body is the raw document text, or SentinelErrorBody when the fetch failed.
	Body string

	// Err is set when the fetch failed.
	Err error
}

// Result is the outcome of a single search invocation.
type Result struct {
	Endpoint Endpoint
	Filter   string

	// SearchErr is set when the search request itself failed or returned an unreadable body.
	// In that case no documents were fetched.
	SearchErr error

	// Documents holds the fetched documents in search result order.
	Documents []Document
}

// JSON returns the aggregated JSON array literal built from the raw document bodies.
// The bodies are not re-encoded, so the array is valid JSON only if every body is.
func (r Result) JSON() string {
	bodies := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		bodies[i] = d.Body
	}
	return "[" + strings.Join(bodies, ",") + "]"
}

// FailedDocuments returns the number of documents that were replaced by SentinelErrorBody.
func (r Result) FailedDocuments() int {
	n := 0
	for _, d := range r.Documents {
		if d.Err != nil {
			n++
		}
	}
	return n
}

// Client runs searches against the ReliefWeb API.
// NewClient should be used to create instances of Client.
type Client struct {
	appName string
	opts    Options
	logger  hclog.Logger
}

// NewClient returns a Client identifying itself with appName.
func NewClient(logger hclog.Logger, appName string, opts ...Option) (*Client, error) {
	options, err := NewOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		appName: appName,
		opts:    options,
		logger:  logger.Named("reliefweb"),
	}, nil
}

// Search queries endpoint with the given parameters, then fetches every document listed in the
// response in order.
//
// Failures of the search request are reported through Result.SearchErr and yield an empty
// document list. Failures of individual document fetches are reported per Document and do not
// stop the remaining fetches. An error is returned only for an unsupported endpoint.
func (c *Client) Search(ctx context.Context, endpoint Endpoint, params SearchParams) (Result, error) {
	if err := endpoint.Validate(); err != nil {
		return Result{}, err
	}

	result := Result{
		Endpoint:  endpoint,
		Filter:    BuildFilter(params.Query, params.CountryName, params.StartDate),
		Documents: []Document{},
	}

	// Each invocation owns its transport, idle connections are released when it returns.
	transport := c.opts.newTransport()
	defer closeIdleConnections(transport)

	requester := NewRequester(c.logger, &http.Client{
		Transport: transport,
		Timeout:   c.opts.timeout,
	})

	searchURL := c.opts.baseURL + "/" + endpoint.String()
	resp := requester.Fetch(ctx, searchURL, RequestParams(c.appName, params))
	if resp.Failed() {
		c.logger.Error("Search request failed", "endpoint", endpoint, "error", resp.Err)
		result.SearchErr = resp.Err
		return result, nil
	}

	hrefs, err := ExtractHrefs(resp.Body)
	if err != nil {
		c.logger.Error("Search response could not be parsed", "endpoint", endpoint, "status", resp.StatusCode, "error", err)
		result.SearchErr = fmt.Errorf("parsing %s search response: %w", endpoint, err)
		return result, nil
	}

	c.logger.Debug("Search completed", "endpoint", endpoint, "status", resp.StatusCode, "documents", len(hrefs))

	result.Documents = c.fetchDocuments(ctx, requester, hrefs)

	return result, nil
}

// fetchDocuments retrieves every href, with at most fetchConcurrency requests in flight.
// Results are stored by index so the output order matches hrefs regardless of completion order.
func (c *Client) fetchDocuments(ctx context.Context, requester *Requester, hrefs []string) []Document {
	docs := make([]Document, len(hrefs))

	g := new(errgroup.Group)
	g.SetLimit(c.opts.fetchConcurrency)

	for i, href := range hrefs {
		g.Go(func() error {
			resp := requester.Fetch(ctx, href, nil)
			if resp.Failed() {
				docs[i] = Document{Href: href, Body: SentinelErrorBody, Err: resp.Err}
				return nil
			}

			docs[i] = Document{Href: href, Body: resp.Body}
			return nil
		})
	}

	// Fetch failures are recorded per document, the group never returns an error.
	_ = g.Wait()

	return docs
}

func closeIdleConnections(rt http.RoundTripper) {
	if ci, ok := rt.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}
