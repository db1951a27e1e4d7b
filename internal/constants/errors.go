package constants

import "errors"

// Configuration errors.
var (
	ErrNoAccountConfigured = errors.New("no account SID configured, set TWILIO_ACCOUNT_SID or run 'twilio login'")
	ErrNoAuthToken         = errors.New("no auth token configured, set TWILIO_AUTH_TOKEN or run 'twilio login'")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
)

// Validation errors.
var (
	ErrInvalidFilter     = errors.New("filter must be in key=value form")
	ErrInvalidNumberType = errors.New("number type must be 'local' or 'tollfree'")
	ErrInvalidOutput     = errors.New("output must be one of table, json, yaml")
)

// Reporting errors.
var (
	ErrNetwork        = errors.New("could not reach the Twilio API")
	ErrAuthentication = errors.New("authentication failed, check the account SID and auth token or run 'twilio login'")
)
