package capability_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scope    capability.Scope
		expected string
	}{
		{
			name:     "without params",
			scope:    capability.NewScope("client", "outgoing", nil),
			expected: "scope:client:outgoing",
		},
		{
			name:     "with params",
			scope:    capability.NewScope("client", "incoming", url.Values{"clientName": {"jonas"}}),
			expected: "scope:client:incoming?clientName=jonas",
		},
		{
			name: "params in key order",
			scope: capability.NewScope("stream", "subscribe", url.Values{
				"path":   {"/2010-04-01/Events"},
				"params": {""},
			}),
			expected: "scope:stream:subscribe?params=&path=%2F2010-04-01%2FEvents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.scope.String())
		})
	}
}

func TestParseScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		uri      string
		expected capability.Scope
		err      error
	}{
		{
			name:     "without params",
			uri:      "scope:client:outgoing",
			expected: capability.NewScope("client", "outgoing", nil),
		},
		{
			name:     "with params",
			uri:      "scope:client:incoming?clientName=jonas",
			expected: capability.NewScope("client", "incoming", url.Values{"clientName": {"jonas"}}),
		},
		{
			name: "not a scope",
			uri:  "client:incoming",
			err:  capability.ErrNotScope,
		},
		{
			name: "missing privilege",
			uri:  "scope:client",
			err:  capability.ErrMalformedScope,
		},
		{
			name: "too many parts",
			uri:  "scope:client:incoming:extra",
			err:  capability.ErrMalformedScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scope, err := capability.ParseScope(tt.uri)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, scope)
			assert.Equal(t, tt.uri, scope.String())
		})
	}
}
