package twilio_test

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
)

// recordedCall is one request seen by fakeRequester.
type recordedCall struct {
	Method string
	URI    string
	Values url.Values
}

// fakeRequester serves canned payloads keyed by URI and counts requests.
type fakeRequester struct {
	payloads map[string]twilio.Attributes
	errors   map[string]error
	calls    []recordedCall
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{
		payloads: make(map[string]twilio.Attributes),
		errors:   make(map[string]error),
	}
}

// respond looks up a fixture by method, URI and encoded query, falling
// back to method and URI alone.
func (f *fakeRequester) respond(method, uri string, query url.Values) (twilio.Attributes, error) {
	keys := []string{method + " " + uri}
	if len(query) > 0 {
		keys = append([]string{method + " " + uri + "?" + query.Encode()}, keys...)
	}

	for _, key := range keys {
		if err, ok := f.errors[key]; ok {
			return nil, err
		}

		if payload, ok := f.payloads[key]; ok {
			return payload.Clone(), nil
		}
	}

	return nil, &twilio.APIError{Status: 404, Code: twilio.ErrorCodeNotFound, Message: fmt.Sprintf("no fixture for %s", keys[0])}
}

func (f *fakeRequester) Fetch(ctx context.Context, uri string, query url.Values) (twilio.Attributes, error) {
	f.calls = append(f.calls, recordedCall{Method: "GET", URI: uri, Values: query})

	return f.respond("GET", uri, query)
}

func (f *fakeRequester) FetchURI(ctx context.Context, uri string) (twilio.Attributes, error) {
	f.calls = append(f.calls, recordedCall{Method: "GET", URI: uri})

	return f.respond("GET", uri, nil)
}

func (f *fakeRequester) Write(ctx context.Context, uri string, form url.Values) (twilio.Attributes, error) {
	f.calls = append(f.calls, recordedCall{Method: "POST", URI: uri, Values: form})

	return f.respond("POST", uri, nil)
}

func (f *fakeRequester) Remove(ctx context.Context, uri string, query url.Values) (twilio.Attributes, error) {
	f.calls = append(f.calls, recordedCall{Method: "DELETE", URI: uri, Values: query})

	return f.respond("DELETE", uri, query)
}

func (f *fakeRequester) count() int {
	return len(f.calls)
}
