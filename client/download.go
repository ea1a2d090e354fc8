package client

import (
	"context"
	"io"
	"net/http"
)

// OpenDownloadStream issues the GET for a signed download URL and hands the
// body back for the download engine to pull from. The returned total is the
// Content-Length, or -1 when the server omits it (progress then degrades to
// unknown). The caller owns closing the body.
func (c *Client) OpenDownloadStream(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, err
	}
	c.applyServiceHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, 0, &HTTPStatusError{Op: "download", StatusCode: resp.StatusCode}
	}
	return resp.Body, resp.ContentLength, nil
}
