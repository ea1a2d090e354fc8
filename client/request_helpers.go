package client

import (
	"context"
	"net/http"
	"time"
)

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// applyServiceHeaders pins the request to the service's expected web client
// fingerprint. Requests without these headers are rejected upstream.
func (c *Client) applyServiceHeaders(req *http.Request) {
	req.Header.Set("Origin", c.origin)
	req.Header.Set("Referer", c.referer)
}
