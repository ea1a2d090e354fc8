// Package client implements the conversion service protocol: the
// init→convert→[redirect] handshake that turns a video identifier into a
// signed, single-use download URL, plus the stream opener the download
// engine pulls from.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/famomatic/mp3grab/internal/authtoken"
	"github.com/famomatic/mp3grab/internal/convertapi"
)

// Client executes the conversion handshake. It holds base configuration
// only and no per-request state, so one Client is safe to share across
// sequential attempts.
type Client struct {
	httpClient  *http.Client
	origin      string
	referer     string
	baseInitURL string
	timeout     time.Duration
	logger      Logger
	now         func() int64
}

// ConvertResult is the validated outcome of the convert step.
type ConvertResult struct {
	Title       string
	DownloadURL string
}

// New creates a new conversion client.
func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient(config.ProxyURL)
	}
	origin := strings.TrimSpace(config.Origin)
	if origin == "" {
		origin = DefaultOrigin
	}
	referer := strings.TrimSpace(config.Referer)
	if referer == "" {
		referer = origin + "/"
	}
	baseInitURL := strings.TrimSpace(config.BaseInitURL)
	if baseInitURL == "" {
		baseInitURL = DefaultBaseInitURL
	}
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	now := config.Now
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	return &Client{
		httpClient:  httpClient,
		origin:      origin,
		referer:     referer,
		baseInitURL: baseInitURL,
		timeout:     config.RequestTimeout,
		logger:      logger,
		now:         now,
	}
}

// Initialize fetches the landing page, derives the rotating auth token and
// performs the init request. It returns the signed convert URL. The token
// and timestamp are single-use; every call re-derives both.
func (c *Client) Initialize(ctx context.Context) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	html, err := c.fetchLandingPage(ctx)
	if err != nil {
		return "", err
	}
	token, err := authtoken.Extract(html)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthExtraction, err)
	}

	initURL := convertapi.InitURL(c.baseInitURL, token.Param, token.Value, c.now())
	var initResp convertapi.InitResponse
	if err := c.getJSON(ctx, "init", initURL, &initResp); err != nil {
		return "", err
	}
	if initResp.Error != "0" {
		return "", &UpstreamError{Op: "init", Code: initResp.Error}
	}
	return initResp.ConvertURL, nil
}

// Convert requests conversion of videoID through the signed convert URL and
// validates the response. When the service asks for a redirect it follows
// exactly one hop with a fresh timestamp; a second nested redirect request
// is never chased.
func (c *Client) Convert(ctx context.Context, convertURL, videoID string) (ConvertResult, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	var resp convertapi.ConvertResponse
	if err := c.getJSON(ctx, "convert", convertapi.ConvertURL(convertURL, videoID, c.now()), &resp); err != nil {
		return ConvertResult{}, err
	}
	if resp.Error != 0 {
		return ConvertResult{}, &UpstreamError{Op: "convert", Code: strconv.Itoa(resp.Error)}
	}

	if resp.Redirect == 1 && resp.RedirectURL != "" {
		var redirected convertapi.ConvertResponse
		if err := c.getJSON(ctx, "redirect", convertapi.RedirectURL(resp.RedirectURL, c.now()), &redirected); err != nil {
			return ConvertResult{}, err
		}
		if redirected.Error != 0 {
			return ConvertResult{}, &UpstreamError{Op: "redirect", Code: strconv.Itoa(redirected.Error)}
		}
		if redirected.Redirect == 1 {
			c.logger.Warnf("redirect response requested another redirect; not following")
		}
		resp = redirected
	}

	return ConvertResult{Title: resp.Title, DownloadURL: resp.DownloadURL}, nil
}

// GetDownloadInfo runs the full handshake for videoID and returns the
// display title and the signed download URL. The URL is single-use and
// time-stamped; a retry must start over from Initialize.
func (c *Client) GetDownloadInfo(ctx context.Context, videoID string) (title, downloadURL string, err error) {
	convertURL, err := c.Initialize(ctx)
	if err != nil {
		return "", "", err
	}
	result, err := c.Convert(ctx, convertURL, videoID)
	if err != nil {
		return "", "", err
	}
	if result.DownloadURL == "" {
		return "", "", ErrNoDownloadURL
	}
	if result.Title == "" {
		c.logger.Warnf("service returned empty title for %s", videoID)
	}
	return result.Title, result.DownloadURL, nil
}

func (c *Client) fetchLandingPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPStatusError{Op: "landing page", StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// getJSON performs one service GET with the pinned headers and decodes the
// body into out. Transport, status and decode failures stay distinct so
// callers can tell them apart.
func (c *Client) getJSON(ctx context.Context, op, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.applyServiceHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &HTTPStatusError{Op: op, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
