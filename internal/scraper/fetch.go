package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

const (
	userAgent    = "concertvenues-bot/0.1"
	fetchTimeout = 15 * time.Second
	maxRetries   = 2
	// detailWorkers bounds the concurrent detail-page fan-out inside one
	// scraper. It is private to that scraper and never blocks other venues.
	detailWorkers = 8
)

// Client is the shared HTTP fetcher used by all scrapers. Transient
// failures (network errors, 5xx) are retried with exponential backoff;
// client errors are not.
type Client struct {
	http *http.Client
}

// NewClient returns a client with the standard timeout and user agent.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: fetchTimeout},
	}
}

// NewInsecureClient returns a client that skips TLS certificate
// verification, for venues with broken certificates.
func NewInsecureClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// Get fetches url and parses the response body as an HTML document.
func (c *Client) Get(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parsing HTML: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return doc, nil
}

// absoluteURL resolves href against base, so scrapers always emit absolute
// event URLs.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// slugTitle derives a display title from the last path segment of a URL,
// used when a card carries no text title.
func slugTitle(eventURL string) string {
	slug := strings.TrimRight(eventURL, "/")
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
