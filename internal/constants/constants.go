package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Twilio REST API endpoints and versions.
const (
	// APIBaseURL is the default Twilio REST API host.
	APIBaseURL = "https://api.twilio.com"

	// APIVersion2008 is the legacy API version.
	APIVersion2008 = "2008-08-01"

	// APIVersion2010 is the current API version and the default.
	APIVersion2010 = "2010-04-01"

	// JSONSuffix is appended to resource URIs that are not server-provided.
	JSONSuffix = ".json"

	// AccountsSegment is the path segment of the root listing.
	AccountsSegment = "Accounts"
)

// ClientVersion is reported in the default user agent.
const ClientVersion = "1.0.0"

// UserAgent is the default User-Agent header value.
const UserAgent = "twilio-go/" + ClientVersion

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Retry limits. The core never retries on its own; these apply only when
// retries are enabled on the transport.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 50

	// FirstPage is the index of the first page.
	FirstPage = 0
)

// Twilio application error codes.
const (
	// ErrorCodePageOutOfRange signals the requested page is beyond the data set.
	ErrorCodePageOutOfRange = 20006

	// ErrorCodeAuthenticationFailed is returned for bad credentials.
	ErrorCodeAuthenticationFailed = 20003

	// ErrorCodeNotFound is returned for unknown resources.
	ErrorCodeNotFound = 20404
)

// Application SID detection.
const (
	// ApplicationSIDLength is the length of every Twilio SID.
	ApplicationSIDLength = 34

	// ApplicationSIDPrefix marks an application SID.
	ApplicationSIDPrefix = "AP"
)

// Call control values.
const (
	// CallStatusCompleted hangs up a call when written to its Status.
	CallStatusCompleted = "completed"
)

// Available phone number search types.
const (
	// NumberTypeLocal searches local numbers.
	NumberTypeLocal = "Local"

	// NumberTypeTollFree searches toll free numbers.
	NumberTypeTollFree = "TollFree"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
