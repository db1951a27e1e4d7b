package twilio_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterceptorTest = errors.New("test error")

func TestInterceptorChain(t *testing.T) {
	t.Parallel()

	chain := twilio.NewInterceptorChain()
	assert.True(t, chain.Empty())

	var callOrder []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *twilio.Request) error {
		callOrder = append(callOrder, "request1")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *twilio.Request) error {
		callOrder = append(callOrder, "request2")

		return nil
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *twilio.Request, resp *twilio.Response) error {
		callOrder = append(callOrder, "response1")

		return nil
	})

	assert.False(t, chain.Empty())

	ctx := context.Background()
	req := &twilio.Request{Method: "GET", Path: "/2010-04-01/Accounts.json"}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	err = chain.ExecuteResponseInterceptors(ctx, req, &twilio.Response{StatusCode: 200})
	require.NoError(t, err)

	assert.Equal(t, []string{"request1", "request2", "response1"}, callOrder)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	chain := twilio.NewInterceptorChain()
	called := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *twilio.Request) error {
		return errInterceptorTest
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *twilio.Request) error {
		called = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &twilio.Request{})
	require.ErrorIs(t, err, errInterceptorTest)
	assert.Contains(t, err.Error(), "request interceptor failed")
	assert.False(t, called)
}

func TestInterceptorChain_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var chain *twilio.InterceptorChain

	assert.True(t, chain.Empty())
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := twilio.HeaderInterceptor(map[string]string{
		"X-Custom-Header": "custom-value",
		"X-Request-ID":    "123456",
	})

	req := &twilio.Request{Method: "GET", Path: "/test"}

	err := interceptor(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "custom-value", req.Headers.Get("X-Custom-Header"))
	assert.Equal(t, "123456", req.Headers.Get("X-Request-ID"))
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()

	t.Run("burst passes immediately", func(t *testing.T) {
		t.Parallel()

		interceptor := twilio.RateLimitInterceptor(3)
		req := &twilio.Request{Method: "GET", Path: "/test"}

		for range 3 {
			require.NoError(t, interceptor(context.Background(), req))
		}
	})

	t.Run("cancelled context fails once the burst is spent", func(t *testing.T) {
		t.Parallel()

		interceptor := twilio.RateLimitInterceptor(1)
		req := &twilio.Request{Method: "GET", Path: "/test"}

		require.NoError(t, interceptor(context.Background(), req))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := interceptor(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter")
	})
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	req := &twilio.Request{Method: "GET", Path: "/2010-04-01/Accounts/AC123.json"}

	require.NoError(t, twilio.LoggingInterceptor(logger)(context.Background(), req))
	require.NoError(t, twilio.LoggingResponseInterceptor(logger)(context.Background(), req, &twilio.Response{StatusCode: 200}))
	require.NoError(t, twilio.LoggingResponseInterceptor(logger)(context.Background(), req, &twilio.Response{
		StatusCode: 500,
		Error:      errInterceptorTest,
	}))

	assert.Equal(t, []string{"debug:API Request", "debug:API Response", "error:API Response Error"}, logger.messages)
}

func TestMetricsCollector(t *testing.T) {
	t.Parallel()

	collector := twilio.NewMetricsCollector()

	var (
		notifiedEndpoint string
		notifiedMetrics  twilio.Metrics
	)

	collector.SetOnChange(func(endpoint string, metrics twilio.Metrics) {
		notifiedEndpoint = endpoint
		notifiedMetrics = metrics
	})

	requestInterceptor := twilio.MetricsRequestInterceptor(collector)
	responseInterceptor := twilio.MetricsResponseInterceptor(collector)

	ctx := context.Background()
	req := &twilio.Request{Method: "GET", Path: "/2010-04-01/Accounts/AC123/Calls.json"}

	err := requestInterceptor(ctx, req)
	require.NoError(t, err)

	inFlight, ok := collector.GetMetrics("GET /2010-04-01/Accounts/AC123/Calls.json")
	require.True(t, ok)
	assert.Equal(t, int64(1), inFlight.InFlight)
	assert.Zero(t, inFlight.TotalRequests)

	time.Sleep(5 * time.Millisecond)

	err = responseInterceptor(ctx, req, &twilio.Response{StatusCode: http.StatusOK})
	require.NoError(t, err)

	assert.Equal(t, "GET /2010-04-01/Accounts/AC123/Calls.json", notifiedEndpoint)
	assert.Equal(t, int64(1), notifiedMetrics.TotalRequests)
	assert.Equal(t, int64(0), notifiedMetrics.TotalErrors)
	assert.Positive(t, notifiedMetrics.AverageLatency)
	assert.Zero(t, notifiedMetrics.InFlight)

	req2 := &twilio.Request{Method: "GET", Path: "/2010-04-01/Accounts/AC123/Calls.json"}
	err = responseInterceptor(ctx, req2, &twilio.Response{StatusCode: http.StatusInternalServerError})
	require.NoError(t, err)

	metrics, ok := collector.GetMetrics("GET /2010-04-01/Accounts/AC123/Calls.json")
	require.True(t, ok)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.Zero(t, metrics.InFlight)

	_, ok = collector.GetMetrics("POST /nowhere")
	assert.False(t, ok)
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "debug:"+msg)
}

func (l *recordingLogger) Info(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "info:"+msg)
}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "warn:"+msg)
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, "error:"+msg)
}
