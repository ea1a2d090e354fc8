package client

import (
	"net/http"
	"time"
)

// Default service endpoints. The service pins its web client's fingerprint,
// so Origin doubles as both the landing page URL and the Origin header value.
const (
	DefaultOrigin      = "https://v1.y2mate.nu"
	DefaultBaseInitURL = "https://eta.etacloud.org/api/v1"
)

// Config holds configuration for the conversion client.
type Config struct {
	// HTTPClient is the client used for making requests.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// ProxyURL is the optional proxy URL to use for requests.
	// If HTTPClient is provided, this field is ignored.
	ProxyURL string

	// Origin overrides the service origin. It is fetched as the landing page
	// and sent as the Origin header on every request.
	Origin string

	// Referer overrides the Referer header. If empty, Origin + "/" is used.
	Referer string

	// BaseInitURL overrides the init endpoint base URL.
	BaseInitURL string

	// RequestTimeout bounds each handshake operation when the caller's
	// context carries no deadline. Zero means no client-imposed timeout.
	RequestTimeout time.Duration

	// Logger receives non-fatal warnings. If nil, warnings are dropped.
	Logger Logger

	// Now supplies unix-second timestamps for outbound request URLs.
	// If nil, time.Now is used. Tests inject a fixed clock here.
	Now func() int64
}
