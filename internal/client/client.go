package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	twiliohttp "github.com/fivetwenty-io/twilio-client/internal/http"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
)

// Transport executes one HTTP round trip. *twiliohttp.Client implements it.
type Transport interface {
	Do(ctx context.Context, req *twiliohttp.Request) (*twiliohttp.Response, error)
}

// Client implements twilio.Requester on top of a Transport. It builds
// request URIs and turns raw responses into decoded payloads or
// *twilio.APIError values.
type Client struct {
	transport Transport
	logger    twilio.Logger
}

var _ twilio.Requester = (*Client)(nil)

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *twilio.Config) []twiliohttp.Option {
	var httpOpts []twiliohttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, twiliohttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, twiliohttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, twiliohttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, twiliohttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, twiliohttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if len(config.RequestInterceptors)+len(config.ResponseInterceptors) > 0 {
		chain := twilio.NewInterceptorChain()
		for _, interceptor := range config.RequestInterceptors {
			chain.AddRequestInterceptor(interceptor)
		}

		for _, interceptor := range config.ResponseInterceptors {
			chain.AddResponseInterceptor(interceptor)
		}

		httpOpts = append(httpOpts, twiliohttp.WithInterceptors(chain))
	}

	return httpOpts
}

// New creates a facade with a transport built from config.
func New(ctx context.Context, config *twilio.Config) (*Client, error) {
	if config == nil {
		return nil, twilio.ErrConfigRequired
	}

	if config.AccountSID == "" || config.AuthToken == "" {
		return nil, twilio.ErrCredentialsRequired
	}

	transport := twiliohttp.NewClient(normalizeBaseURL(config.BaseURL), &twiliohttp.BasicAuth{
		Username: config.AccountSID,
		Password: config.AuthToken,
	}, createHTTPClientOptions(config)...)

	return NewWithTransport(transport, config.Logger), nil
}

// normalizeBaseURL trims trailing slashes and defaults the scheme to https.
func normalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		return constants.APIBaseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithTransport creates a facade over an existing transport.
func NewWithTransport(transport Transport, logger twilio.Logger) *Client {
	if logger == nil {
		logger = twilio.NopLogger{}
	}

	return &Client{
		transport: transport,
		logger:    logger,
	}
}

// Fetch retrieves a resource.
func (c *Client) Fetch(ctx context.Context, uri string, query url.Values) (twilio.Attributes, error) {
	return c.do(ctx, &twiliohttp.Request{Method: http.MethodGet, Path: RequestURI(uri, query, false)})
}

// FetchURI retrieves a server-provided URI such as next_page_uri.
func (c *Client) FetchURI(ctx context.Context, uri string) (twilio.Attributes, error) {
	return c.do(ctx, &twiliohttp.Request{Method: http.MethodGet, Path: RequestURI(uri, nil, true)})
}

// Write posts form parameters to a resource.
func (c *Client) Write(ctx context.Context, uri string, form url.Values) (twilio.Attributes, error) {
	if form == nil {
		form = url.Values{}
	}

	return c.do(ctx, &twiliohttp.Request{Method: http.MethodPost, Path: RequestURI(uri, nil, false), Form: form})
}

// Remove deletes a resource.
func (c *Client) Remove(ctx context.Context, uri string, query url.Values) (twilio.Attributes, error) {
	return c.do(ctx, &twiliohttp.Request{Method: http.MethodDelete, Path: RequestURI(uri, query, false)})
}

// RequestURI builds the path sent on the wire. Resource URIs get the ".json"
// suffix and the encoded query; full URIs are used as given.
func RequestURI(uri string, query url.Values, fullURI bool) string {
	if uri == "" || fullURI {
		return uri
	}

	uri += constants.JSONSuffix

	if len(query) > 0 {
		return uri + "?" + query.Encode()
	}

	return uri
}

func (c *Client) do(ctx context.Context, req *twiliohttp.Request) (twilio.Attributes, error) {
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, &transportError{method: req.Method, path: req.Path, err: err}
	}

	return processResponse(resp)
}

// transportError marks a failure before any response was received.
type transportError struct {
	method string
	path   string
	err    error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.method, e.path, e.err)
}

func (e *transportError) Unwrap() error {
	return e.err
}

// processResponse classifies a raw response: 204 is an empty success,
// anything else must be a JSON object with a Content-Type header.
func processResponse(resp *twiliohttp.Response) (twilio.Attributes, error) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil //nolint:nilnil // empty success carries no payload
	}

	if resp.Headers.Get("Content-Type") == "" {
		return nil, twilio.ErrMissingContentType
	}

	payload, err := decodeObject(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return payload, nil
	}

	return nil, newAPIError(resp.StatusCode, payload)
}

func decodeObject(body []byte) (twilio.Attributes, error) {
	var payload map[string]any

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	err := decoder.Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("%w: body is not valid JSON: %w", twilio.ErrBadResponse, err)
	}

	if payload == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", twilio.ErrBadResponse)
	}

	return twilio.Attributes(payload), nil
}

func newAPIError(statusCode int, payload twilio.Attributes) *twilio.APIError {
	apiErr := &twilio.APIError{Status: statusCode}

	if status, ok := payload.Int("status"); ok && status != 0 {
		apiErr.Status = status
	}

	apiErr.Message, _ = payload.String("message")
	apiErr.Code, _ = payload.Int("code")
	apiErr.MoreInfo, _ = payload.String("more_info")

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}

	return apiErr
}

// IsTransportError reports whether err came from the transport rather than
// from a response: connection failures, timeouts, cancelled contexts.
func IsTransportError(err error) bool {
	var transportErr *transportError

	return errors.As(err, &transportErr)
}
