// Package api is the client for the library backend's REST API. Every method
// shapes and validates its payload before sending, and reduces failures to a
// single readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://back-end-for-assessment.vercel.app"
	defaultTimeout  = 15 * time.Second
	defaultLoanDays = 14
)

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Client is a library backend client.
type Client struct {
	base           string
	tokens         TokenSource
	http           *http.Client
	now            func() time.Time
	loanDays       int
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUnauthorizedHandler registers fn to run on every HTTP 401.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLoanDays sets the default loan period for Borrow. Zero keeps 14 days.
func WithLoanDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.loanDays = days
		}
	}
}

// WithClock overrides the time source used for due dates and status derivation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client for baseURL. If baseURL is empty the public
// assessment backend is used.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		tokens:   tokens,
		http:     &http.Client{Timeout: defaultTimeout},
		now:      time.Now,
		loanDays: defaultLoanDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler replaces the 401 hook after construction, for
// callers that build the session store on top of the client.
func (c *Client) SetUnauthorizedHandler(fn func()) { c.onUnauthorized = fn }

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// do executes the request with the standard headers.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// doJSON sends body as JSON and decodes the response into out. Numbers decode
// as float64 into untyped targets, which the normalizers expect.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return err
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// getRaw fetches path and returns the decoded body as an untyped value.
func (c *Client) getRaw(ctx context.Context, u string) (any, error) {
	var raw any
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// url builds an API URL from path segments. Segments are escaped.
func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.base + "/" + strings.Join(escaped, "/")
}

// urlQuery is url with non-empty query parameters appended.
func (c *Client) urlQuery(q url.Values, parts ...string) string {
	u := c.url(parts...)
	for k, vs := range q {
		if len(vs) == 0 || vs[0] == "" {
			q.Del(k)
		}
	}
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// checkStatus returns an *Error for non-2xx responses, carrying the backend
// message field when present.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	e := &Error{Status: resp.StatusCode, Message: backendMessage(body)}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		e.err = ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		e.err = ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		e.err = ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		e.err = ErrConflict
	case resp.StatusCode >= 500:
		e.err = ErrUnavailable
	default:
		e.err = ErrRejected
	}
	return e
}

// backendMessage extracts the "message" field of an error body. Array
// messages, as produced by request validators, are joined with "; ".
func backendMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	switch m := payload.Message.(type) {
	case string:
		return strings.TrimSpace(m)
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
