// Package convertapi holds the wire shapes and request builders for the
// conversion service's init/convert/redirect endpoints.
package convertapi

import (
	"fmt"
	"net/url"
)

// InitResponse is returned by the /init endpoint. Error is a string code;
// "0" means success. ConvertURL carries an embedded signature and is the
// base for the subsequent convert call.
type InitResponse struct {
	ConvertURL string `json:"convertURL"`
	Error      string `json:"error"`
}

// ConvertResponse is returned by the convert endpoint and, when Redirect is
// set, by the one-hop redirect endpoint in the same shape. Error 0 means
// success. ProgressURL is present on the wire but unused by this client.
type ConvertResponse struct {
	Error       int    `json:"error"`
	ProgressURL string `json:"progressURL"`
	DownloadURL string `json:"downloadURL"`
	RedirectURL string `json:"redirectURL"`
	Redirect    int    `json:"redirect"`
	Title       string `json:"title"`
}

// InitURL builds the init request URL. The service validates request
// freshness, so the timestamp must be generated at call time and never
// reused across requests.
func InitURL(baseInitURL, param, token string, unixSeconds int64) string {
	return fmt.Sprintf("%s/init?%s=%s&t=%d",
		baseInitURL, url.QueryEscape(param), url.QueryEscape(token), unixSeconds)
}

// ConvertURL appends the video and format selection to the signed convert
// URL returned by init.
func ConvertURL(convertURL, videoID string, unixSeconds int64) string {
	return fmt.Sprintf("%s&v=%s&f=mp3&t=%d", convertURL, url.QueryEscape(videoID), unixSeconds)
}

// RedirectURL appends a fresh timestamp to a redirect URL from a
// ConvertResponse.
func RedirectURL(redirectURL string, unixSeconds int64) string {
	return fmt.Sprintf("%s&t=%d", redirectURL, unixSeconds)
}
