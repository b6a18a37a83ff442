package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"live":"` + r.URL.Query().Get("live") + `","key":"` + r.Header.Get("X-RapidAPI-Key") + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchers_GetReturnsStatusAndBody(t *testing.T) {
	srv := newEchoServer(t)

	fetchers := map[string]Fetcher{
		"nethttp":  NewNetHTTPWithClient(srv.Client()),
		"fasthttp": NewFastHTTP(2 * time.Second),
	}
	for name, fetcher := range fetchers {
		resp, err := fetcher.Get(context.Background(), Request{
			URL:    srv.URL + "/v3/fixtures",
			Query:  url.Values{"live": []string{"all"}},
			Header: map[string]string{"X-RapidAPI-Key": "secret"},
		})
		if err != nil {
			t.Fatalf("%s: get: %v", name, err)
		}
		if !resp.OK() {
			t.Fatalf("%s: expected 2xx, got %d", name, resp.Status)
		}
		if string(resp.Body) != `{"live":"all","key":"secret"}` {
			t.Fatalf("%s: unexpected body %s", name, resp.Body)
		}

		missing, err := fetcher.Get(context.Background(), Request{URL: srv.URL + "/missing"})
		if err != nil {
			t.Fatalf("%s: non-2xx must not be an error: %v", name, err)
		}
		if missing.Status != http.StatusNotFound || missing.OK() {
			t.Fatalf("%s: expected 404, got %d", name, missing.Status)
		}
	}
}

func TestNetHTTP_TransportFailureIsMarked(t *testing.T) {
	srv := newEchoServer(t)
	addr := srv.URL
	srv.Close()

	_, err := NewNetHTTP(time.Second).Get(context.Background(), Request{URL: addr})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestRequest_FullURL(t *testing.T) {
	t.Parallel()

	req := Request{URL: "https://api.example.com/v3/fixtures?season=2025", Query: url.Values{"live": []string{"all"}}}
	if got := req.FullURL(); got != "https://api.example.com/v3/fixtures?season=2025&live=all" {
		t.Fatalf("unexpected url: %s", got)
	}
	if got := (Request{URL: "https://api.example.com"}).FullURL(); got != "https://api.example.com" {
		t.Fatalf("unexpected url: %s", got)
	}
}
