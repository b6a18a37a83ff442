// Package httpfetch is the single outbound HTTP capability used by provider clients.
// Clients depend on Fetcher, so tests can substitute a scripted fake.
package httpfetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	maxBodyBytes   = 6 << 20
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// ErrTransport marks failures where no HTTP status was received.
var ErrTransport = errors.New("http transport failure")

type Request struct {
	URL    string
	Query  url.Values
	Header map[string]string
}

// FullURL joins URL and the encoded query.
func (r Request) FullURL() string {
	if len(r.Query) == 0 {
		return r.URL
	}
	sep := "?"
	if strings.Contains(r.URL, "?") {
		sep = "&"
	}
	return r.URL + sep + r.Query.Encode()
}

type Response struct {
	Status int
	Body   []byte
}

func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Fetcher performs a GET. A non-2xx status is not an error; transport faults are.
type Fetcher interface {
	Get(ctx context.Context, req Request) (Response, error)
}

// NetHTTP is the default Fetcher, instrumented with otelhttp.
type NetHTTP struct {
	client *http.Client
}

func NewNetHTTP(timeout time.Duration) *NetHTTP {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NetHTTP{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewNetHTTPWithClient wraps an existing client, e.g. one from httptest.
func NewNetHTTPWithClient(client *http.Client) *NetHTTP {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &NetHTTP{client: client}
}

func (f *NetHTTP) Get(ctx context.Context, req Request) (Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.FullURL(), nil)
	if err != nil {
		return Response{}, errors.Wrap(err, "build request")
	}
	applyHeaders(req.Header, httpReq.Header.Set)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return Response{}, errors.Mark(errors.Wrap(err, "send request"), ErrTransport)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, errors.Mark(errors.Wrap(err, "read response body"), ErrTransport)
	}
	return Response{Status: resp.StatusCode, Body: raw}, nil
}

func applyHeaders(custom map[string]string, set func(key, value string)) {
	set("Accept", "application/json")
	set("User-Agent", userAgent)
	for key, value := range custom {
		set(key, value)
	}
}
