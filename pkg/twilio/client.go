package twilio

import (
	"context"
	"net/url"
	"time"
)

// Requester is the client facade the resource graph talks to. Implementations
// turn a resource URI into an HTTP round trip and decode the JSON object in
// the response. A nil Attributes with a nil error means the server answered
// with an empty success (204).
type Requester interface {
	// Fetch issues a GET for a resource URI. The ".json" suffix and query
	// string are added by the implementation.
	Fetch(ctx context.Context, uri string, query url.Values) (Attributes, error)
	// FetchURI issues a GET for a server-provided URI exactly as given.
	FetchURI(ctx context.Context, uri string) (Attributes, error)
	// Write issues a form-encoded POST to a resource URI.
	Write(ctx context.Context, uri string, form url.Values) (Attributes, error)
	// Remove issues a DELETE for a resource URI.
	Remove(ctx context.Context, uri string, query url.Values) (Attributes, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a twilioclient.Client.
//
// # Credentials
//
// AccountSID and AuthToken are sent as HTTP Basic credentials on every
// request. AccountSID also names the account returned by Client.Account.
//
// # Versions
//
// APIVersion selects the URL prefix of the root Accounts listing. Known
// versions are "2008-08-01" and "2010-04-01"; anything else, including the
// empty string, resolves to the latest known version.
//
// # Timeouts and retries
//
// Per-request deadlines should be controlled via the context passed to each
// operation. The resource graph never retries. RetryMax enables transport
// level retries for connection errors, 5xx and 429 responses, and defaults to
// zero.
type Config struct {
	// AccountSID: account identifier and Basic auth username.
	AccountSID string
	// AuthToken: account secret and Basic auth password.
	AuthToken string
	// APIVersion: REST API version prefix; empty selects the latest.
	APIVersion string
	// BaseURL: API host, defaults to https://api.twilio.com. Tests point this
	// at a local server.
	BaseURL string
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string

	// HTTPTimeout: transport timeout for a single attempt.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of transport retries. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug: enables request/response logging through Logger.
	Debug bool
	// Logger: optional structured logger used by the transport and the
	// resource graph.
	Logger Logger

	// RequestInterceptors run in order before every request is sent.
	RequestInterceptors []RequestInterceptor
	// ResponseInterceptors run in order after every response is received.
	ResponseInterceptors []ResponseInterceptor
}
