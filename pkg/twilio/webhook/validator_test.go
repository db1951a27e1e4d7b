package webhook_test

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // Twilio signs callbacks with HMAC-SHA1
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	authToken   = "12345"
	callbackURL = "https://mycompany.com/myapp.php?foo=1&bar=2"
)

func callbackParams() url.Values {
	return url.Values{
		"Digits":  {"1234"},
		"To":      {"+18005551212"},
		"From":    {"+14158675309"},
		"Caller":  {"+14158675309"},
		"CallSid": {"CA1234567890ABCDE"},
	}
}

func sign(token, data string) string {
	mac := hmac.New(sha1.New, []byte(token))
	_, _ = mac.Write([]byte(data))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestComputeSignature(t *testing.T) {
	t.Parallel()

	validator := webhook.NewRequestValidator(authToken)

	tests := []struct {
		name     string
		url      string
		params   url.Values
		expected string
	}{
		{
			name:     "url only",
			url:      callbackURL,
			expected: sign(authToken, callbackURL),
		},
		{
			name:   "params sorted by name, name then value",
			url:    callbackURL,
			params: callbackParams(),
			expected: sign(authToken, callbackURL+
				"CallSidCA1234567890ABCDE"+
				"Caller+14158675309"+
				"Digits1234"+
				"From+14158675309"+
				"To+18005551212"),
		},
		{
			name:     "repeated values sorted",
			url:      "https://example.com/sms",
			params:   url.Values{"MediaUrl": {"b", "a"}},
			expected: sign(authToken, "https://example.com/smsMediaUrlaMediaUrlb"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, validator.ComputeSignature(tt.url, tt.params))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	validator := webhook.NewRequestValidator(authToken)
	signature := validator.ComputeSignature(callbackURL, callbackParams())

	tampered := callbackParams()
	tampered.Set("Digits", "9999")

	tests := []struct {
		name      string
		signature string
		url       string
		params    url.Values
		valid     bool
	}{
		{name: "matching", signature: signature, url: callbackURL, params: callbackParams(), valid: true},
		{name: "tampered param", signature: signature, url: callbackURL, params: tampered, valid: false},
		{name: "different url", signature: signature, url: "https://evil.example.com/myapp.php", params: callbackParams(), valid: false},
		{name: "empty signature", signature: "", url: callbackURL, params: callbackParams(), valid: false},
		{name: "signed with another token", signature: sign("other", callbackURL), url: callbackURL, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.valid, validator.Validate(tt.signature, tt.url, tt.params))
		})
	}
}

func newCallback(t *testing.T, signature string, form url.Values) *http.Request {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/myapp.php?foo=1&bar=2", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if signature != "" {
		request.Header.Set(webhook.SignatureHeader, signature)
	}

	return request
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	validator := webhook.NewRequestValidator(authToken)
	signature := validator.ComputeSignature(callbackURL, callbackParams())

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, validator.ValidateRequest(newCallback(t, signature, callbackParams()), callbackURL))
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		err := validator.ValidateRequest(newCallback(t, "", callbackParams()), callbackURL)
		require.ErrorIs(t, err, webhook.ErrMissingSignature)
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()

		err := validator.ValidateRequest(newCallback(t, signature, url.Values{"Digits": {"0"}}), callbackURL)
		require.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	validator := webhook.NewRequestValidator(authToken)

	router := chi.NewRouter()
	router.Use(validator.Middleware("https://mycompany.com/"))
	router.Post("/myapp.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.PostFormValue("Digits")))
	})

	tests := []struct {
		name      string
		signature string
		status    int
		body      string
	}{
		{name: "signed", signature: validator.ComputeSignature(callbackURL, callbackParams()), status: http.StatusOK, body: "1234"},
		{name: "unsigned", signature: "", status: http.StatusForbidden},
		{name: "forged", signature: sign("other", callbackURL), status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, newCallback(t, tt.signature, callbackParams()))

			assert.Equal(t, tt.status, recorder.Code)

			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}
