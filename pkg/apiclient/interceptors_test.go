package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

func TestInterceptorChain_RunsInOrder(t *testing.T) {
	t.Parallel()

	var order []string

	chain := apiclient.NewInterceptorChain().
		AddRequestInterceptor(func(context.Context, *apiclient.Request) error {
			order = append(order, "request first")

			return nil
		}).
		AddRequestInterceptor(func(context.Context, *apiclient.Request) error {
			order = append(order, "request second")

			return nil
		}).
		AddResponseInterceptor(func(context.Context, *apiclient.Request, *apiclient.Response) error {
			order = append(order, "response")

			return nil
		})

	ctx := context.Background()
	req := &apiclient.Request{Method: http.MethodGet, Path: "/v1/customers"}

	require.NoError(t, chain.ExecuteRequestInterceptors(ctx, req))
	require.NoError(t, chain.ExecuteResponseInterceptors(ctx, req, &apiclient.Response{StatusCode: 200}))

	assert.Equal(t, []string{"request first", "request second", "response"}, order)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	called := false

	chain := apiclient.NewInterceptorChain().
		AddRequestInterceptor(func(context.Context, *apiclient.Request) error { return boom }).
		AddRequestInterceptor(func(context.Context, *apiclient.Request) error {
			called = true

			return nil
		})

	err := chain.ExecuteRequestInterceptors(context.Background(), &apiclient.Request{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "request interceptor failed")
	assert.False(t, called)
}

func TestInterceptorChain_NilChain(t *testing.T) {
	t.Parallel()

	var chain *apiclient.InterceptorChain

	require.NoError(t, chain.ExecuteRequestInterceptors(context.Background(), &apiclient.Request{}))
	require.NoError(t, chain.ExecuteResponseInterceptors(context.Background(), &apiclient.Request{}, &apiclient.Response{}))
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	req := &apiclient.Request{Method: http.MethodGet}
	err := apiclient.HeaderInterceptor(map[string]string{"Stripe-Version": "2024-06-20"})(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-20", req.Headers.Get("Stripe-Version"))
}

func TestIdempotencyKeyInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := apiclient.IdempotencyKeyInterceptor("Idempotency-Key")
	ctx := context.Background()

	post := &apiclient.Request{Method: http.MethodPost}
	require.NoError(t, interceptor(ctx, post))
	assert.Len(t, post.Headers.Get("Idempotency-Key"), 36)

	preset := &apiclient.Request{Method: http.MethodPost, Headers: http.Header{"Idempotency-Key": []string{"mine"}}}
	require.NoError(t, interceptor(ctx, preset))
	assert.Equal(t, "mine", preset.Headers.Get("Idempotency-Key"))

	get := &apiclient.Request{Method: http.MethodGet}
	require.NoError(t, interceptor(ctx, get))
	assert.Empty(t, get.Headers.Get("Idempotency-Key"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	ctx := context.Background()
	req := &apiclient.Request{Method: http.MethodGet, Path: "/v1/customers"}

	require.NoError(t, apiclient.LoggingInterceptor(logger)(ctx, req))
	require.NoError(t, apiclient.LoggingResponseInterceptor(logger)(ctx, req, &apiclient.Response{StatusCode: 200}))
	require.NoError(t, apiclient.LoggingResponseInterceptor(logger)(ctx, req, &apiclient.Response{
		StatusCode: 404,
		Error:      &apiclient.APIError{StatusCode: 404},
	}))

	assert.Equal(t, 1, logger.count("API Request"))
	assert.Equal(t, []string{"debug"}, logger.levels("API Response"))
	assert.Equal(t, []string{"error"}, logger.levels("API Response Error"))
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	breaker := apiclient.NewCircuitBreaker(&apiclient.CircuitBreakerConfig{
		Threshold:        2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 1,
	})
	before := apiclient.CircuitBreakerRequestInterceptor(breaker)
	after := apiclient.CircuitBreakerResponseInterceptor(breaker)
	ctx := context.Background()
	req := &apiclient.Request{}

	for range 2 {
		require.NoError(t, before(ctx, req))
		require.NoError(t, after(ctx, req, &apiclient.Response{StatusCode: 503}))
	}

	assert.Equal(t, "open", breaker.State())
	require.ErrorIs(t, before(ctx, req), apiclient.ErrCircuitOpen)

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, before(ctx, req))
	assert.Equal(t, "half-open", breaker.State())

	require.NoError(t, after(ctx, req, &apiclient.Response{StatusCode: 200}))
	assert.Equal(t, "closed", breaker.State())
}
