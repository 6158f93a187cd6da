// Package kanoon provides a corpus client for the Indian Kanoon API.
package kanoon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CorpusClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.indiankanoon.org"
	DefaultAuthScheme = "Token"
	DefaultTimeout    = 30 * time.Second

	maxErrorBody = 512
)

// Config holds configuration for the Indian Kanoon client.
type Config struct {
	// BaseURL is the API root (default: https://api.indiankanoon.org).
	BaseURL string

	// Token is the API token (required).
	Token string

	// AuthScheme prefixes the token in the Authorization header (default: Token).
	AuthScheme string

	// Timeout bounds every request (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond paces outbound calls. Zero uses the default, negative disables pacing.
	RequestsPerSecond float64

	// Burst is the token bucket size (default: 4).
	Burst int

	// HTTPClient overrides the HTTP client. Its timeout is left untouched.
	HTTPClient *http.Client
}

// Client calls the Indian Kanoon search, docmeta and doc endpoints.
// Calls are never retried.
type Client struct {
	http       *http.Client
	baseURL    string
	authHeader string
	limiter    *RateLimiter
}

// NewClient creates a new Indian Kanoon client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("kanoon: API token is %w", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = DefaultBurst
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		http:       client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: cfg.AuthScheme + " " + cfg.Token,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}, nil
}

// searchResponse is the /search/ response format.
type searchResponse struct {
	Docs  []searchDoc `json:"docs"`
	Found string      `json:"found"`
}

type searchDoc struct {
	TID      json.Number `json:"tid"`
	Title    string      `json:"title"`
	Snippet  string      `json:"snippet"`
	Headline string      `json:"headline"`
}

// Search runs a free-text query against /search/.
func (c *Client) Search(ctx context.Context, query string, page int) (*driven.CorpusPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("formInput", query)
	params.Set("filter", "on")
	params.Set("pagenum", strconv.Itoa(page))

	body, err := c.post(ctx, "/search/", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}

	hits := make([]driven.CorpusHit, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		snippet := d.Snippet
		if snippet == "" {
			snippet = d.Headline
		}
		hits = append(hits, driven.CorpusHit{
			ID:      d.TID.String(),
			Title:   CleanHTML(d.Title),
			Snippet: CleanHTML(snippet),
		})
	}

	return &driven.CorpusPage{Hits: hits, Found: resp.Found, Raw: body}, nil
}

// DocumentMeta fetches /docmeta/{id}/.
func (c *Client) DocumentMeta(ctx context.Context, id string) (*driven.CorpusPayload, error) {
	return c.payload(ctx, "/docmeta/"+url.PathEscape(id)+"/", id)
}

// Document fetches /doc/{id}/.
func (c *Client) Document(ctx context.Context, id string) (*driven.CorpusPayload, error) {
	return c.payload(ctx, "/doc/"+url.PathEscape(id)+"/", id)
}

// payload decodes a per-document response. The title and the body
// ("content" or "doc") are cleaned; other scalar fields are kept as-is.
func (c *Client) payload(ctx context.Context, path, id string) (*driven.CorpusPayload, error) {
	body, err := c.post(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := decode(body, &raw); err != nil {
		return nil, err
	}

	p := &driven.CorpusPayload{ID: id, Fields: make(map[string]any), Raw: body}
	for k, v := range raw {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				p.Title = CleanHTML(s)
			}
		case "content", "doc":
			if s, ok := v.(string); ok && p.Content == "" {
				p.Content = CleanHTML(s)
			}
		default:
			switch val := v.(type) {
			case string, bool:
				p.Fields[k] = val
			case json.Number:
				p.Fields[k] = val.String()
			}
		}
	}
	if p.Title != "" {
		p.Fields["title"] = p.Title
	}
	return p, nil
}

// post sends one paced POST request and returns the body of a 2xx response.
func (c *Client) post(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrRetrievalUnavailable, err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrRetrievalUnavailable, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %w", domain.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrRetrievalUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimited(retryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrRetrievalUnavailable, path, resp.StatusCode, excerpt(body))
	}
	return body, nil
}

func decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrRetrievalUnavailable, err)
	}
	return nil
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
