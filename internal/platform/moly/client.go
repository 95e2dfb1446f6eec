package moly

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultRequestInterval = 200 * time.Millisecond
	retryAttempts          = 5
	retryDelay             = 100 * time.Millisecond
)

// Client fetches and parses pages from the external site. It is an
// explicit, injectable instance: the retry policy and rate limiter are
// plain values on the struct, shared by every caller holding the same
// pointer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRequestInterval sets the minimum spacing between requests.
// Zero or negative disables the limiter.
func WithRequestInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "booklist-sync/1.0",
		limiter:    rate.NewLimiter(rate.Every(defaultRequestInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// The scrape target misbehaves in odd ways (1xx responses, 4xx under
// load), so the retry net is deliberately wide: informational, most
// client errors and all server errors.
func retryableStatus(code int) bool {
	switch {
	case code >= 100 && code <= 199:
		return true
	case code >= 400 && code <= 429:
		return true
	case code >= 500 && code <= 599:
		return true
	}
	return false
}

// GetDocument GETs a page and parses it. Relative paths are resolved
// against the configured base URL. Transport errors and retryable
// statuses are retried up to 5 times with a fixed 100ms delay; an
// exhausted or non-retryable failure comes back wrapped in ErrFetch.
func (c *Client) GetDocument(ctx context.Context, pathOrURL string) (*goquery.Document, error) {
	fullURL := c.resolveURL(pathOrURL)

	var doc *goquery.Document
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", c.userAgent)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if retryableStatus(resp.StatusCode) {
				return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return retry.Unrecoverable(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
			}

			d, err := goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			doc = d
			return nil
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", fullURL, ErrFetch, err)
	}
	return doc, nil
}

func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.baseURL + pathOrURL
}
