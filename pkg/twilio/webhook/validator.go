// Package webhook authenticates requests that Twilio sends to application
// callbacks.
//
// Twilio signs each request with the account's auth token: HMAC-SHA1 over
// the full callback URL followed by every POST parameter, sorted by name,
// written as name then value. The base64 digest travels in the
// X-Twilio-Signature header.
package webhook

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // Twilio signs callbacks with HMAC-SHA1
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// SignatureHeader carries the request signature.
const SignatureHeader = "X-Twilio-Signature"

var (
	ErrMissingSignature = errors.New("request has no Twilio signature")
	ErrInvalidSignature = errors.New("request signature does not match")
)

// RequestValidator checks request signatures for one account.
type RequestValidator struct {
	authToken []byte
}

// NewRequestValidator creates a validator keyed with authToken.
func NewRequestValidator(authToken string) *RequestValidator {
	return &RequestValidator{authToken: []byte(authToken)}
}

// ComputeSignature returns the base64 signature Twilio sends for a request
// to callbackURL carrying params.
func (v *RequestValidator) ComputeSignature(callbackURL string, params url.Values) string {
	var data strings.Builder

	data.WriteString(callbackURL)

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		values := slices.Clone(params[key])
		slices.Sort(values)

		for _, value := range values {
			data.WriteString(key)
			data.WriteString(value)
		}
	}

	mac := hmac.New(sha1.New, v.authToken)
	_, _ = mac.Write([]byte(data.String()))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Validate reports whether signature matches callbackURL and params. The comparison
// runs in constant time.
func (v *RequestValidator) Validate(signature, callbackURL string, params url.Values) bool {
	if signature == "" {
		return false
	}

	expected := v.ComputeSignature(callbackURL, params)

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ValidateRequest checks r, received at the public callbackURL. Only POST
// form parameters take part in the signature; query parameters are already
// part of callbackURL.
func (v *RequestValidator) ValidateRequest(r *http.Request, callbackURL string) error {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return ErrMissingSignature
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parsing callback form: %w", err)
	}

	if !v.Validate(signature, callbackURL, r.PostForm) {
		return fmt.Errorf("%w: %s %s", ErrInvalidSignature, r.Method, callbackURL)
	}

	return nil
}

// Middleware rejects requests whose signature does not verify with 403
// Forbidden. publicBaseURL is the scheme and host Twilio calls, e.g.
// "https://example.com"; the request URI is appended to it.
func (v *RequestValidator) Middleware(publicBaseURL string) func(http.Handler) http.Handler {
	publicBaseURL = strings.TrimRight(publicBaseURL, "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := v.ValidateRequest(r, publicBaseURL+r.URL.RequestURI()); err != nil {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
