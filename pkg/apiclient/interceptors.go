package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Request is the view of an outgoing request handed to interceptors.
// Interceptors may add headers; the transport sends whatever Headers
// holds once every interceptor has run.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the view of a completed exchange handed to interceptors.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) *InterceptorChain {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)

	return c
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) *InterceptorChain {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)

	return c
}

// ExecuteRequestInterceptors runs all request interceptors in order, stopping at the first error.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors in order, stopping at the first error.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	logger = LoggerOrNop(logger)

	return func(_ context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses, at error level for failures.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	logger = LoggerOrNop(logger)

	return func(_ context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// IdempotencyKeyInterceptor sets a random key in header on every POST that
// does not already carry one. Stripe reads "Idempotency-Key".
func IdempotencyKeyInterceptor(header string) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Method != http.MethodPost {
			return nil
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		if req.Headers.Get(header) == "" {
			req.Headers.Set(header, uuid.NewString())
		}

		return nil
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	Threshold        int           // Number of failures before opening
	Timeout          time.Duration // Time before trying again
	SuccessThreshold int           // Number of successes to close
}

type circuitState string

const (
	circuitClosed   circuitState = "closed"
	circuitOpen     circuitState = "open"
	circuitHalfOpen circuitState = "half-open"
)

const (
	defaultBreakerThreshold        = 5
	defaultBreakerTimeout          = 30 * time.Second
	defaultBreakerSuccessThreshold = 2
)

// CircuitBreaker stops sending requests to a vendor after repeated
// transport failures or 5xx responses.
type CircuitBreaker struct {
	mu          sync.Mutex
	config      *CircuitBreakerConfig
	failures    int
	successes   int
	state       circuitState
	lastFailure time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{
			Threshold:        defaultBreakerThreshold,
			Timeout:          defaultBreakerTimeout,
			SuccessThreshold: defaultBreakerSuccessThreshold,
		}
	}

	return &CircuitBreaker{
		config: config,
		state:  circuitClosed,
	}
}

// State reports "closed", "open" or "half-open".
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.state)
}

// CircuitBreakerRequestInterceptor rejects requests with ErrCircuitOpen while the breaker is open.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(_ context.Context, _ *Request) error {
		breaker.mu.Lock()
		defer breaker.mu.Unlock()

		if breaker.state != circuitOpen {
			return nil
		}

		if time.Since(breaker.lastFailure) > breaker.config.Timeout {
			breaker.state = circuitHalfOpen
			breaker.successes = 0

			return nil
		}

		return ErrCircuitOpen
	}
}

// CircuitBreakerResponseInterceptor updates circuit state based on responses.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(_ context.Context, _ *Request, resp *Response) error {
		breaker.mu.Lock()
		defer breaker.mu.Unlock()

		if resp.StatusCode >= http.StatusInternalServerError || (resp.Error != nil && resp.StatusCode == 0) {
			breaker.failures++
			breaker.lastFailure = time.Now()

			if breaker.state == circuitHalfOpen || breaker.failures >= breaker.config.Threshold {
				breaker.state = circuitOpen
			}

			return nil
		}

		switch breaker.state {
		case circuitHalfOpen:
			breaker.successes++
			if breaker.successes >= breaker.config.SuccessThreshold {
				breaker.state = circuitClosed
				breaker.failures = 0
			}
		case circuitClosed:
			breaker.failures = 0
		case circuitOpen:
		}

		return nil
	}
}
