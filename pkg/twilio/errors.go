package twilio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
)

// APIError represents an error envelope returned by the Twilio API.
type APIError struct {
	// Status is the status reported in the envelope, or the HTTP status
	// when the envelope carries none.
	Status   int    `json:"status"    yaml:"status"`
	Message  string `json:"message"   yaml:"message"`
	Code     int    `json:"code"      yaml:"code"`
	MoreInfo string `json:"more_info" yaml:"more_info"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
	}

	return fmt.Sprintf("%s (status: %d, code: %d)", e.Message, e.Status, e.Code)
}

// Common error codes.
const (
	ErrorCodePageOutOfRange       = constants.ErrorCodePageOutOfRange
	ErrorCodeAuthenticationFailed = constants.ErrorCodeAuthenticationFailed
	ErrorCodeNotFound             = constants.ErrorCodeNotFound
)

// Static errors for err113 compliance.
var (
	ErrBadResponse         = errors.New("bad response")
	ErrMissingContentType  = fmt.Errorf("%w: response header is missing Content-Type", ErrBadResponse)
	ErrAttributeNotFound   = errors.New("attribute not found")
	ErrUnexpectedType      = errors.New("unexpected attribute type")
	ErrCreateNotAllowed    = errors.New("create is not allowed on this listing")
	ErrCountNotSupported   = errors.New("count is not supported by paginator")
	ErrNoMoreItems         = errors.New("no more items")
	ErrUnknownAction       = errors.New("unknown action")
	ErrUnknownKind         = errors.New("unknown resource kind")
	ErrCredentialsRequired = errors.New("account SID and auth token are required")
	ErrConfigRequired      = errors.New("config is required")
)

// IsPageOutOfRange reports whether err signals a page beyond the data set.
func IsPageOutOfRange(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodePageOutOfRange
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound || apiErr.Code == ErrorCodeNotFound
	}

	return false
}

// IsAuthenticationError checks if the error is a credentials error.
func IsAuthenticationError(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Code == ErrorCodeAuthenticationFailed
	}

	return false
}
