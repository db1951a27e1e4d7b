// Package http is the transport used by the Twilio client: one HTTP round
// trip in, status, headers and body out. Status codes are not interpreted
// here.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
)

// BasicAuth holds the credentials sent with every request.
type BasicAuth struct {
	Username string
	Password string
}

// Client executes requests against a base URL.
type Client struct {
	baseURL      string
	auth         *BasicAuth
	httpClient   *retryablehttp.Client
	userAgent    string
	logger       twilio.Logger
	debug        bool
	interceptors *twilio.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// Request is one outbound call. Path may carry its own query string; Query
// is merged into it.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Form    url.Values
	Headers map[string]string
}

// Response is the raw outcome of a round trip.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger twilio.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response through the logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig enables retries of connection errors, 5xx and 429
// responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithTimeout sets the timeout of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *twilio.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport for baseURL. A nil auth sends no
// credentials.
func NewClient(baseURL string, auth *BasicAuth, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = retryablehttp.DefaultRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    baseURL,
		auth:       auth,
		httpClient: retryClient,
		userAgent:  constants.UserAgent,
		logger:     twilio.NopLogger{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do sends req and returns the raw response. Errors are transport failures
// only; a 4xx or 5xx answer is returned as a Response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := url.Parse(c.baseURL + req.Path)
	if err != nil {
		return nil, fmt.Errorf("parsing request URL: %w", err)
	}

	if len(req.Query) > 0 {
		query := target.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		target.RawQuery = query.Encode()
	}

	var body []byte
	if req.Form != nil {
		body = []byte(req.Form.Encode())
	}

	intercepted := &twilio.Request{
		Method:  req.Method,
		Path:    target.Path,
		Headers: c.headers(req),
		Body:    body,
	}

	if !c.interceptors.Empty() {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	var rawBody interface{}
	if intercepted.Body != nil {
		rawBody = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target.String(), rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	if c.auth != nil {
		httpReq.SetBasicAuth(c.auth.Username, c.auth.Password)
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target.Redacted(),
		})
	}

	resp, err := c.send(httpReq)
	if err != nil {
		_ = c.intercept(ctx, intercepted, &twilio.Response{Error: err})

		return nil, err
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         target.Redacted(),
			"status_code": resp.StatusCode,
			"bytes":       len(resp.Body),
		})
	}

	err = c.intercept(ctx, intercepted, &twilio.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	})
	if err != nil {
		return resp, err
	}

	return resp, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a form-encoded POST request.
func (c *Client) Post(ctx context.Context, path string, form url.Values) (*Response, error) {
	if form == nil {
		form = url.Values{}
	}

	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

func (c *Client) headers(req *Request) http.Header {
	headers := make(http.Header)
	headers.Set("Accept", "application/json")
	headers.Set("Accept-Charset", "utf-8")
	headers.Set("User-Agent", c.userAgent)

	if req.Form != nil {
		headers.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers
}

func (c *Client) send(httpReq *retryablehttp.Request) (*Response, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}

func (c *Client) intercept(ctx context.Context, req *twilio.Request, resp *twilio.Response) error {
	if c.interceptors.Empty() {
		return nil
	}

	return c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
}
