package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "http://192.168.0.12:8069"
	DefaultTimeout = 10 * time.Second

	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"

	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
)

// Config holds the client defaults applied to every request.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Client is a JSON REST client over resty. Every call resolves to a Result;
// transport errors never escape to the caller.
type Client struct {
	http   *resty.Client
	tokens TokenStore
	log    Logger

	mu  sync.RWMutex
	cfg Config
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithTokenStore enables bearer-token injection from store.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

// WithLogger sets the client logger.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient uses rc as the underlying transport. New installs the auth
// and 401 hooks on rc and replaces its pre-request hook, so rc must not be
// shared with another Client.
func WithHTTPClient(rc *resty.Client) Option {
	return func(c *Client) { c.http = rc }
}

// New creates a Client from cfg. Zero fields take the package defaults.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: normalizeConfig(cfg)}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newRestyBaseClient()
	}
	c.log = ensureLogger(c.log)

	c.http.OnBeforeRequest(c.injectAuthToken)
	c.http.OnAfterResponse(c.discardTokenOnUnauthorized)
	c.http.SetPreRequestHook(applyStreamLength)
	return c
}

// newRestyBaseClient creates a resty client without retries; the request
// timeout is applied per call through the context.
func newRestyBaseClient() *resty.Client {
	return resty.New().SetRetryCount(0)
}

func normalizeConfig(cfg Config) Config {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	headers := map[string]string{headerContentType: ContentTypeJSON}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers
	return cfg
}

// Config returns a copy of the current client defaults.
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := c.cfg
	out.Headers = make(map[string]string, len(c.cfg.Headers))
	for k, v := range c.cfg.Headers {
		out.Headers[k] = v
	}
	return out
}

// SetBaseURL changes the base address for subsequent requests.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.cfg.BaseURL = strings.TrimSpace(baseURL)
	c.mu.Unlock()
}

// SetTimeout changes the per-request timeout. A non-positive value leaves
// requests bounded only by the caller's context.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	c.cfg.Timeout = timeout
	c.mu.Unlock()
}

// SetHeaders merges headers into the defaults sent with every request.
func (c *Client) SetHeaders(headers map[string]string) {
	c.mu.Lock()
	for k, v := range headers {
		c.cfg.Headers[k] = v
	}
	c.mu.Unlock()
}

// RequestOption overrides client defaults for a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
	query   map[string]string
}

// WithHeader sets a header on this call only.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithHeaders sets several headers on this call only.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		for k, v := range headers {
			WithHeader(k, v)(o)
		}
	}
}

// WithQuery adds query parameters to this call.
func WithQuery(params map[string]string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = make(map[string]string, len(params))
		}
		for k, v := range params {
			o.query[k] = v
		}
	}
}

// Get performs a GET with params encoded as the query string.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, opts ...RequestOption) Result[json.RawMessage] {
	if len(params) > 0 {
		opts = append([]RequestOption{WithQuery(params)}, opts...)
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts ...RequestOption) Result[json.RawMessage] {
	return c.do(ctx, http.MethodPost, endpoint, body, opts)
}

// Put sends body as JSON (full update).
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts ...RequestOption) Result[json.RawMessage] {
	return c.do(ctx, http.MethodPut, endpoint, body, opts)
}

// Patch sends body as JSON (partial update).
func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts ...RequestOption) Result[json.RawMessage] {
	return c.do(ctx, http.MethodPatch, endpoint, body, opts)
}

// Delete performs a DELETE without a body.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) Result[json.RawMessage] {
	return c.do(ctx, http.MethodDelete, endpoint, nil, opts)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, opts []RequestOption) Result[json.RawMessage] {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := c.Config()

	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeaders(cfg.Headers)
	if len(ro.headers) > 0 {
		req.SetHeaders(ro.headers)
	}
	if len(ro.query) > 0 {
		req.SetQueryParams(ro.query)
	}
	if body != nil {
		req.SetBody(body)
	}

	target := resolveURL(cfg.BaseURL, endpoint)
	if err := checkTarget(target); err != nil {
		return c.report(method, endpoint, requestFailure(err))
	}
	resp, err := req.Execute(method, target)
	return c.report(method, endpoint, normalize(resp, err))
}

// checkTarget rejects URLs the transport could never dial.
func checkTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid request url %q: %w", target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("request url %q has no scheme or host", target)
	}
	return nil
}

// resolveURL joins endpoint onto base unless endpoint is already absolute.
func resolveURL(base, endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if base == "" {
		return endpoint
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) report(method, endpoint string, res Result[json.RawMessage]) Result[json.RawMessage] {
	if res.Success {
		c.log.DebugObj("api request completed", "api_request", map[string]any{
			"method":   method,
			"endpoint": endpoint,
			"status":   res.Status,
		})
		return res
	}
	c.log.ErrorObj("api request failed", "api_error", map[string]any{
		"method":   method,
		"endpoint": endpoint,
		"code":     res.Error.Code,
		"kind":     res.Error.Kind,
		"status":   res.Error.Status,
		"message":  res.Error.Message,
	})
	return res
}
