package extapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/blockext/internal/extension"
)

// Remote is the set of operations the client performs against the extensions
// API. It is implemented by *Client and can be faked in tests.
type Remote interface {
	FetchSnapshot(ctx context.Context) (extension.Snapshot, error)
	AddCustom(ctx context.Context, name string) error
	DeleteCustom(ctx context.Context, name string) error
	CommitBatch(ctx context.Context, batch extension.Batch) error
}

// Ensure Client implements Remote at compile time.
var _ Remote = (*Client)(nil)

// SessionHeader carries the per-session client id on every request.
const SessionHeader = "X-Client-Session"

const (
	defaultAPIBase   = "127.0.0.1:8080"
	defaultUserAgent = "blockext/0.1"
	defaultTimeout   = 5 * time.Second
	apiPrefix        = "/api/extensions"
	maxErrorBody     = 64 << 10
)

// Client talks to the extensions HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	session   string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSession tags every request with the given session id.
func WithSession(id string) Option {
	return func(c *Client) {
		c.session = id
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API at apiBase (host:port or URL).
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := ParseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns a copy of the API base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// FetchSnapshot retrieves the full extension state.
func (c *Client) FetchSnapshot(ctx context.Context) (extension.Snapshot, error) {
	if c == nil {
		return extension.Snapshot{}, fmt.Errorf("client is nil")
	}
	var env envelope
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: apiPrefix}, nil, "", &env); err != nil {
		return extension.Snapshot{}, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return extension.Snapshot{}, fmt.Errorf("decode response: missing data")
	}
	var snap extension.Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		return extension.Snapshot{}, fmt.Errorf("decode response: %w", err)
	}
	return snap, nil
}

// AddCustom registers a custom extension. The name is validated locally first
// and rejected names never reach the network.
func (c *Client) AddCustom(ctx context.Context, name string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	normalized, err := extension.NormalizeName(name)
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("customExtension", normalized)
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, &url.URL{Path: apiPrefix + "/add"}, body, "application/x-www-form-urlencoded", nil)
}

// DeleteCustom removes a custom extension by name.
func (c *Client) DeleteCustom(ctx context.Context, name string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &extension.ValidationError{Input: name, Reason: extension.ErrEmpty}
	}
	rel := &url.URL{
		Path:    apiPrefix + "/custom/" + trimmed,
		RawPath: apiPrefix + "/custom/" + url.PathEscape(trimmed),
	}
	return c.do(ctx, http.MethodDelete, rel, nil, "", nil)
}

// CommitBatch sends a set of fixed-extension toggles in one request. The
// server decides how partial failures apply; callers treat the batch as a
// unit. An empty batch is a no-op.
func (c *Client) CommitBatch(ctx context.Context, batch extension.Batch) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if batch.Empty() {
		return nil
	}
	payload := extension.Batch{Checked: batch.Checked, Unchecked: batch.Unchecked}
	if payload.Checked == nil {
		payload.Checked = []string{}
	}
	if payload.Unchecked == nil {
		payload.Unchecked = []string{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	return c.do(ctx, http.MethodPatch, &url.URL{Path: apiPrefix + "/fixed/batch"}, bytes.NewReader(data), "application/json", nil)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp, rel)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, rel *url.URL) error {
	apiErr := &APIError{Status: resp.StatusCode, Path: rel.Path}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	return apiErr
}

// ParseBaseURL normalizes an API base (host:port or URL) to a scheme and host
// with no path, query or fragment.
func ParseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
