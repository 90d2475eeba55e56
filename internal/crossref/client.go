// Package crossref provides a rate-limited client for the Crossref works
// API, used to resolve missing bibliographic fields by author/title/year.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref works API endpoint.
	BaseURL = "https://api.crossref.org/works"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us inside Crossref's polite-pool guidance.
	RateLimit = 2.0

	// DefaultRows is how many candidate works to request per query.
	DefaultRows = 3

	// userAgent identifies the tool per Crossref etiquette.
	userAgent = "bibdoi (https://github.com/AlbertoCuadra/doi-scraper)"
)

// Client is a rate-limited HTTP client for the Crossref API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	rows       int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMailto sets the contact address sent with each request, which places
// requests in Crossref's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithRows sets how many candidate works to request per query.
func WithRows(rows int) ClientOption {
	return func(c *Client) {
		c.rows = rows
	}
}

// NewClient creates a new Crossref API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		rows:       DefaultRows,
	}

	// Check for a contact address in the environment
	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Resolve queries Crossref for the work described by q and returns the
// resolvable field values (doi, year, journal, volume, number, pages,
// publisher when present). Returns ErrNotFound when no candidate's title
// matches the query title.
func (c *Client) Resolve(ctx context.Context, q Query) (map[string]string, error) {
	if q.Title == "" {
		return nil, fmt.Errorf("%w: query has no title", ErrNotFound)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("query.bibliographic", q.Title)
	if q.Author != "" {
		params.Set("query.author", q.Author)
	}
	params.Set("rows", strconv.Itoa(c.rows))
	params.Set("select", "DOI,title,container-title,volume,issue,page,publisher,created,issued")
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying Crossref: %w", err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	work := pickWork(works.Message.Items, q.Title)
	if work == nil {
		return nil, ErrNotFound
	}

	return fieldsFromWork(work), nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}
