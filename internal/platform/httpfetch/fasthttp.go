package httpfetch

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

// FastHTTP is a Fetcher backed by fasthttp. It has no native context support, so the
// context deadline is folded into the per-call timeout.
type FastHTTP struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewFastHTTP(timeout time.Duration) *FastHTTP {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &FastHTTP{
		client: &fasthttp.Client{
			Name:                     userAgent,
			MaxResponseBodySize:      maxBodyBytes,
			NoDefaultUserAgentHeader: true,
		},
		timeout: timeout,
	}
}

func (f *FastHTTP) Get(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(req.FullURL())
	httpReq.Header.SetMethod(fasthttp.MethodGet)
	applyHeaders(req.Header, httpReq.Header.Set)

	if err := f.client.DoTimeout(httpReq, httpResp, timeout); err != nil {
		return Response{}, errors.Mark(errors.Wrap(err, "send request"), ErrTransport)
	}

	body := append([]byte(nil), httpResp.Body()...)
	return Response{Status: httpResp.StatusCode(), Body: body}, nil
}
