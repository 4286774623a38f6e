package reliefweb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/jahirul76/reliefweb-mcp/internal/errors"
)

// fakeAPI serves a search endpoint listing the given document paths, and the documents themselves.
type fakeAPI struct {
	server *httptest.Server

	mu          sync.Mutex
	searchQuery map[string]string
	requests    []string
}

func newFakeAPI(t *testing.T, searchBody func(base string) string, docs map[string]string) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, r.URL.Path)
		api.mu.Unlock()

		switch r.URL.Path {
		case "/v2/disasters", "/v2/reports":
			q := map[string]string{}
			for k := range r.URL.Query() {
				q[k] = r.URL.Query().Get(k)
			}
			api.mu.Lock()
			api.searchQuery = q
			api.mu.Unlock()
			_, _ = w.Write([]byte(searchBody(api.server.URL)))
		default:
			body, ok := docs[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"status":404}`))
				return
			}
			_, _ = w.Write([]byte(body))
		}
	}))
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeAPI) baseURL() string {
	return a.server.URL + "/v2"
}

func (a *fakeAPI) query() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searchQuery
}

func (a *fakeAPI) paths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

func hrefList(base string, paths ...string) string {
	items := make([]map[string]string, 0, len(paths))
	for _, p := range paths {
		items = append(items, map[string]string{"href": base + p})
	}
	b, _ := json.Marshal(map[string]any{"data": items})
	return string(b)
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()

	c, err := NewClient(hclog.NewNullLogger(), "test-app", opts...)
	require.NoError(t, err)
	return c
}

func TestClient_Search_AggregatesDocumentsInOrder(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t,
		func(base string) string { return hrefList(base, "/v2/disasters/2", "/v2/disasters/1") },
		map[string]string{
			"/v2/disasters/1": `{"id":1}`,
			"/v2/disasters/2": `{"id":2}`,
		},
	)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(context.Background(), EndpointDisasters, SearchParams{
		Query:       "earthquake",
		CountryName: "Sudan",
		StartDate:   "2023-01-01",
	})
	require.NoError(t, err)
	require.NoError(t, result.SearchErr)
	require.Equal(t, `[{"id":2},{"id":1}]`, result.JSON())
	require.Equal(t, 0, result.FailedDocuments())
	require.Equal(t, "earthquake AND country.name:Sudan AND date.created:>=2023-01-01", result.Filter)

	require.Equal(t, []string{"/v2/disasters", "/v2/disasters/2", "/v2/disasters/1"}, api.paths())
	require.Equal(t, map[string]string{
		"appname":         "test-app",
		"query[value]":    "earthquake AND country.name:Sudan AND date.created:>=2023-01-01",
		"query[operator]": "AND",
		"preset":          "latest",
		"profile":         "minimal",
		"limit":           "5",
	}, api.query())
}

func TestClient_Search_ReportsEndpoint(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t,
		func(base string) string { return hrefList(base, "/v2/reports/9") },
		map[string]string{"/v2/reports/9": `{"title":"Situation Report"}`},
	)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(context.Background(), EndpointReports, SearchParams{})
	require.NoError(t, err)
	require.Equal(t, `[{"title":"Situation Report"}]`, result.JSON())
	require.Equal(t, "", api.query()["query[value]"])
	require.Equal(t, "/v2/reports", api.paths()[0])
}

func TestClient_Search_FailedDocumentBecomesSentinel(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := dead.URL + "/v2/disasters/1"
	dead.Close()

	api := newFakeAPI(t,
		func(base string) string {
			b, _ := json.Marshal(map[string]any{"data": []map[string]string{
				{"href": deadURL},
				{"href": base + "/v2/disasters/2"},
			}})
			return string(b)
		},
		map[string]string{"/v2/disasters/2": `{"id":2}`},
	)

	c := newTestClient(t, WithBaseURL(api.baseURL()), WithTimeout(2*time.Second))
	result, err := c.Search(context.Background(), EndpointDisasters, SearchParams{Query: "flood"})
	require.NoError(t, err)
	require.NoError(t, result.SearchErr)
	require.Equal(t, `[{"error": "request failed"},{"id":2}]`, result.JSON())
	require.Equal(t, 1, result.FailedDocuments())
	require.ErrorIs(t, result.Documents[0].Err, errors.ErrRequestFailed)
	require.Equal(t, deadURL, result.Documents[0].Href)
}

func TestClient_Search_SearchFailureFetchesNothing(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadBase := dead.URL + "/v2"
	dead.Close()

	c := newTestClient(t, WithBaseURL(deadBase), WithTimeout(2*time.Second))
	result, err := c.Search(context.Background(), EndpointReports, SearchParams{Query: "flood"})
	require.NoError(t, err)
	require.ErrorIs(t, result.SearchErr, errors.ErrRequestFailed)
	require.Empty(t, result.Documents)
	require.Equal(t, "[]", result.JSON())
}

// searchFailingTransport fails every request to a search endpoint and forwards the rest.
type searchFailingTransport struct {
	http.RoundTripper
}

func (t searchFailingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Path == "/v2/disasters" || r.URL.Path == "/v2/reports" {
		return nil, fmt.Errorf("connection reset by peer")
	}
	return t.RoundTripper.RoundTrip(r)
}

func TestClient_Search_TransportFailureLeavesDocumentsUntouched(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(base string) string { return hrefList(base, "/v2/reports/1") },
		map[string]string{"/v2/reports/1": `{"id":1}`})

	c := newTestClient(t,
		WithBaseURL(api.baseURL()),
		WithTransport(func() http.RoundTripper {
			return searchFailingTransport{RoundTripper: http.DefaultTransport}
		}),
	)

	result, err := c.Search(context.Background(), EndpointReports, SearchParams{Query: "flood"})
	require.NoError(t, err)
	require.ErrorIs(t, result.SearchErr, errors.ErrRequestFailed)
	require.Equal(t, "[]", result.JSON())

	// The document server is reachable, it must not have been contacted.
	require.Empty(t, api.paths())

	// Sanity check: the same server answers document requests directly.
	resp, err := http.Get(api.server.URL + "/v2/reports/1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, []string{"/v2/reports/1"}, api.paths())
}

func TestClient_Search_SentinelSearchBodyFetchesNothing(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(string) string { return SentinelErrorBody }, nil)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(context.Background(), EndpointDisasters, SearchParams{})
	require.NoError(t, err)
	require.NoError(t, result.SearchErr)
	require.Equal(t, "[]", result.JSON())
	require.Equal(t, []string{"/v2/disasters"}, api.paths())
}

func TestClient_Search_MalformedSearchBody(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(string) string { return "<html>maintenance</html>" }, nil)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(context.Background(), EndpointDisasters, SearchParams{})
	require.NoError(t, err)
	require.ErrorIs(t, result.SearchErr, errors.ErrMalformedResponse)
	require.Equal(t, "[]", result.JSON())
	require.Equal(t, []string{"/v2/disasters"}, api.paths())
}

func TestClient_Search_NonOKDocumentIsData(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t,
		func(base string) string { return hrefList(base, "/v2/disasters/missing") },
		map[string]string{},
	)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(context.Background(), EndpointDisasters, SearchParams{})
	require.NoError(t, err)
	require.Equal(t, `[{"status":404}]`, result.JSON())
	require.Equal(t, 0, result.FailedDocuments())
}

func TestClient_Search_Idempotent(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t,
		func(base string) string { return hrefList(base, "/v2/reports/1", "/v2/reports/2", "/v2/reports/3") },
		map[string]string{
			"/v2/reports/1": `{"id":1,"title":"a"}`,
			"/v2/reports/2": `{"id":2,"title":"b"}`,
			"/v2/reports/3": `{"id":3,"title":"c"}`,
		},
	)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	params := SearchParams{Query: "cholera", CountryName: "Yemen"}

	first, err := c.Search(context.Background(), EndpointReports, params)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), EndpointReports, params)
	require.NoError(t, err)

	require.Equal(t, first.JSON(), second.JSON())
}

func TestClient_Search_SequentialByDefault(t *testing.T) {
	t.Parallel()

	var inFlight, maxInFlight atomic.Int32
	paths := make([]string, 0, 5)
	docs := map[string]string{}
	for i := 1; i <= 5; i++ {
		p := fmt.Sprintf("/v2/disasters/%d", i)
		paths = append(paths, p)
		docs[p] = fmt.Sprintf(`{"id":%d}`, i)
	}

	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/disasters" {
			_, _ = w.Write([]byte(hrefList(api.server.URL, paths...)))
			return
		}

		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		_, _ = w.Write([]byte(docs[r.URL.Path]))
	}))
	t.Cleanup(api.server.Close)

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(context.Background(), EndpointDisasters, SearchParams{})
	require.NoError(t, err)
	require.Equal(t, `[{"id":1},{"id":2},{"id":3},{"id":4},{"id":5}]`, result.JSON())
	require.Equal(t, int32(1), maxInFlight.Load())
}

func TestClient_Search_ConcurrentFetchPreservesOrder(t *testing.T) {
	t.Parallel()

	// Earlier documents respond slower, so completion order is the reverse of href order.
	delays := map[string]time.Duration{
		"/v2/reports/1": 60 * time.Millisecond,
		"/v2/reports/2": 30 * time.Millisecond,
		"/v2/reports/3": 0,
	}

	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/reports" {
			_, _ = w.Write([]byte(hrefList(api.server.URL, "/v2/reports/1", "/v2/reports/2", "/v2/reports/3")))
			return
		}
		time.Sleep(delays[r.URL.Path])
		_, _ = fmt.Fprintf(w, `{"path":%q}`, r.URL.Path)
	}))
	t.Cleanup(api.server.Close)

	c := newTestClient(t, WithBaseURL(api.baseURL()), WithFetchConcurrency(3))
	result, err := c.Search(context.Background(), EndpointReports, SearchParams{})
	require.NoError(t, err)
	require.Equal(
		t,
		`[{"path":"/v2/reports/1"},{"path":"/v2/reports/2"},{"path":"/v2/reports/3"}]`,
		result.JSON(),
	)
}

func TestClient_Search_CancelledContext(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(base string) string { return hrefList(base, "/v2/disasters/1") }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, WithBaseURL(api.baseURL()))
	result, err := c.Search(ctx, EndpointDisasters, SearchParams{})
	require.NoError(t, err)
	require.ErrorIs(t, result.SearchErr, errors.ErrRequestFailed)
	require.Equal(t, "[]", result.JSON())
}

func TestClient_Search_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	_, err := c.Search(context.Background(), Endpoint("countries"), SearchParams{})
	require.ErrorIs(t, err, errors.ErrUnknownEndpoint)
}

func TestNewClient_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "defaults"},
		{name: "trailing slash trimmed", opts: []Option{WithBaseURL("https://example.org/v2/")}},
		{name: "empty base url", opts: []Option{WithBaseURL("  ")}, wantErr: true},
		{name: "non http base url", opts: []Option{WithBaseURL("ftp://example.org")}, wantErr: true},
		{name: "zero timeout", opts: []Option{WithTimeout(0)}, wantErr: true},
		{name: "zero concurrency", opts: []Option{WithFetchConcurrency(0)}, wantErr: true},
		{name: "nil transport", opts: []Option{WithTransport(nil)}, wantErr: true},
		{name: "nil option ignored", opts: []Option{nil}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewClient(hclog.NewNullLogger(), "app", tc.opts...)
			if tc.wantErr {
				require.Error(t, err)
				require.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}

	opts, err := NewOptions(WithBaseURL("https://example.org/v2/"))
	require.NoError(t, err)
	require.Equal(t, "https://example.org/v2", opts.baseURL)
	require.Equal(t, DefaultTimeout, opts.timeout)
	require.Equal(t, 1, opts.fetchConcurrency)
}

type countingTransport struct {
	http.RoundTripper
	closed *atomic.Int32
}

func (t countingTransport) CloseIdleConnections() {
	t.closed.Add(1)
}

func TestClient_Search_ReleasesTransport(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(base string) string { return hrefList(base, "/v2/reports/1") },
		map[string]string{"/v2/reports/1": `{}`})

	var created, closed atomic.Int32
	c := newTestClient(t,
		WithBaseURL(api.baseURL()),
		WithTransport(func() http.RoundTripper {
			created.Add(1)
			return countingTransport{RoundTripper: http.DefaultTransport, closed: &closed}
		}),
	)

	for range 2 {
		_, err := c.Search(context.Background(), EndpointReports, SearchParams{})
		require.NoError(t, err)
	}

	require.Equal(t, int32(2), created.Load())
	require.Equal(t, int32(2), closed.Load())
}
