package twilio_test

import (
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen
func TestAttributes_Accessors(t *testing.T) {
	t.Parallel()

	attrs := twilio.Attributes{
		"sid":          "CA123",
		"price":        nil,
		"duration":     json.Number("42"),
		"num_segments": "3",
		"ratio":        1.5,
		"answered":     true,
		"flag":         "false",
		"uri":          map[string]any{"media": "/Media"},
		"tags":         []any{"a", "b"},
	}

	t.Run("String", func(t *testing.T) {
		t.Parallel()

		value, ok := attrs.String("sid")
		assert.True(t, ok)
		assert.Equal(t, "CA123", value)

		value, ok = attrs.String("price")
		assert.True(t, ok)
		assert.Empty(t, value)

		value, ok = attrs.String("duration")
		assert.True(t, ok)
		assert.Equal(t, "42", value)

		value, ok = attrs.String("ratio")
		assert.True(t, ok)
		assert.Equal(t, "1.5", value)

		value, ok = attrs.String("answered")
		assert.True(t, ok)
		assert.Equal(t, "true", value)

		_, ok = attrs.String("uri")
		assert.False(t, ok)

		_, ok = attrs.String("missing")
		assert.False(t, ok)
	})

	t.Run("Int", func(t *testing.T) {
		t.Parallel()

		n, ok := attrs.Int("duration")
		assert.True(t, ok)
		assert.Equal(t, 42, n)

		n, ok = attrs.Int("num_segments")
		assert.True(t, ok)
		assert.Equal(t, 3, n)

		_, ok = attrs.Int("sid")
		assert.False(t, ok)
	})

	t.Run("Bool", func(t *testing.T) {
		t.Parallel()

		b, ok := attrs.Bool("answered")
		assert.True(t, ok)
		assert.True(t, b)

		b, ok = attrs.Bool("flag")
		assert.True(t, ok)
		assert.False(t, b)

		_, ok = attrs.Bool("sid")
		assert.False(t, ok)
	})

	t.Run("Map and Slice", func(t *testing.T) {
		t.Parallel()

		nested, ok := attrs.Map("uri")
		require.True(t, ok)

		media, _ := nested.String("media")
		assert.Equal(t, "/Media", media)

		tags, ok := attrs.Slice("tags")
		require.True(t, ok)
		assert.Len(t, tags, 2)

		_, ok = attrs.Map("sid")
		assert.False(t, ok)
	})

	t.Run("Has sees null fields", func(t *testing.T) {
		t.Parallel()

		assert.True(t, attrs.Has("price"))
		assert.False(t, attrs.Has("missing"))
	})
}

func TestAttributes_Clone(t *testing.T) {
	t.Parallel()

	original := twilio.Attributes{"status": "queued"}
	clone := original.Clone()
	clone["status"] = "completed"

	assert.Equal(t, "queued", original["status"])

	var empty twilio.Attributes
	assert.NotNil(t, empty.Clone())
}

func TestParams_Values(t *testing.T) {
	t.Parallel()

	params := twilio.Params{"To": "+15558675309", "From": "+15551234567"}

	assert.Equal(t, "From=%2B15551234567&To=%2B15558675309", params.Values().Encode())
	assert.Empty(t, twilio.Params(nil).Values())
}
