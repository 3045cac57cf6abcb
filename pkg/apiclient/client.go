package apiclient

import (
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration shared by every vendor client.
//
// # Credentials
//
// The library does not manage credentials. Whatever a vendor expects
// (an API key, a bearer token, basic auth) is supplied through Headers and
// sent unchanged on every request.
//
// # Timeouts and retries
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. Timeout is an upper bound applied to the underlying
// http.Client. Retries are off unless RetryMax is set; when set, transient
// failures (connection errors, 429 and 5xx) are retried by the transport
// with backoff between RetryWaitMin and RetryWaitMax.
type Config struct {
	// BaseURL: base URL for the vendor API (e.g., "https://api.stripe.com").
	// Each vendor package supplies its public endpoint when empty.
	BaseURL string

	// Headers are added to every request. Use this for Authorization and
	// vendor version headers.
	Headers map[string]string

	// UserAgent overrides the default User-Agent header sent by the client.
	UserAgent string

	// Timeout bounds a single HTTP exchange. Zero uses the transport default.
	Timeout time.Duration

	// RetryMax: maximum number of retries for transient failures. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer and paginators.
	Logger Logger

	// Cache stores GET responses. Nil disables caching. See NewCacheFromConfig.
	Cache Cache
	// CacheTTL is how long a cached response is served without revalidation.
	CacheTTL time.Duration

	// Interceptors run around every request.
	Interceptors *InterceptorChain
}

// Clone returns a shallow copy of the config with its own Headers map.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	clone := *c

	clone.Headers = make(map[string]string, len(c.Headers))
	for key, value := range c.Headers {
		clone.Headers[key] = value
	}

	return &clone
}

// WithDefaultBaseURL returns baseURL when the config does not set one.
func (c *Config) WithDefaultBaseURL(baseURL string) *Config {
	clone := c.Clone()
	if clone.BaseURL == "" {
		clone.BaseURL = baseURL
	}

	return clone
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// LoggerOrNop returns logger, or a logger that discards everything when logger is nil.
func LoggerOrNop(logger Logger) Logger {
	if logger == nil {
		return nopLogger{}
	}

	return logger
}
