package downloader

import (
	"context"
	"io"
)

// StreamOpener opens the remote byte stream behind a signed download URL.
// The returned total is the Content-Length when the server reports one, or
// a negative value when it does not.
type StreamOpener interface {
	OpenDownloadStream(ctx context.Context, downloadURL string) (body io.ReadCloser, total int64, err error)
}
