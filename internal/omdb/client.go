// Package omdb fetches movie records from the OMDb web API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blakestevenson/moviedetails/internal/movie"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public OMDb endpoint
const DefaultBaseURL = "https://www.omdbapi.com/"

var (
	// ErrUnexpectedStatus is matched by every *StatusError
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedResponse is returned when the body is not a movie record
	ErrMalformedResponse = errors.New("malformed OMDb response")
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("OMDb API returned status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnexpectedStatus) match any status error
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Client issues lookups against the API. It holds no credentials; the API
// key is passed with every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The client is never
// modified; WithTimeout applies to a copy of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets a request timeout; zero leaves it to the transport
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new OMDb client
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger.With(zap.String("component", "omdb")),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c
}

// FetchByTitle looks up a record by title lookup key (see movie.LookupKey)
func (c *Client) FetchByTitle(ctx context.Context, key, apiKey string) (*movie.Record, error) {
	if strings.Trim(key, "+ ") == "" {
		return nil, movie.ErrEmptyLookupKey
	}
	return c.fetch(ctx, "t", escapeLookupKey(key), apiKey)
}

// FetchByID looks up a record by IMDb identifier
func (c *Client) FetchByID(ctx context.Context, id, apiKey string) (*movie.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, movie.ErrEmptyLookupKey
	}
	return c.fetch(ctx, "i", url.QueryEscape(id), apiKey)
}

func (c *Client) fetch(ctx context.Context, param, value, apiKey string) (*movie.Record, error) {
	endpoint := fmt.Sprintf("%s?%s=%s&apikey=%s", c.baseURL, param, value, url.QueryEscape(apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching movie record",
		zap.String("param", param),
		zap.String("value", value),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OMDb request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("OMDb returned non-success status", zap.Int("status", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OMDb response: %w", err)
	}

	var record movie.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if record.Response == "" && record.Title == "" && record.IMDbID == "" {
		return nil, fmt.Errorf("%w: no movie fields in body", ErrMalformedResponse)
	}

	if record.Failed() {
		msg := record.Error
		if msg == "" {
			msg = "no details given"
		}
		return nil, fmt.Errorf("%w: %s", movie.ErrLookupFailed, msg)
	}

	return &record, nil
}

// escapeLookupKey escapes each segment of a '+'-joined key and keeps the
// separators, which the API decodes as spaces
func escapeLookupKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, "+")
}
