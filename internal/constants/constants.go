package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are off unless a caller sets Config.RetryMax.
const (
	// DefaultRetryWaitMin is the minimum wait between retries once enabled.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Pagination defaults per vendor.
const (
	// StripeDefaultLimit is Stripe's maximum page size.
	StripeDefaultLimit = 100

	// GitHubDefaultPerPage is GitHub's maximum page size for REST list endpoints.
	GitHubDefaultPerPage = 100

	// GitHubGraphQLPageSize keeps pull request queries under the node limit.
	GitHubGraphQLPageSize = 50

	// ShopifyDefaultLimit is Shopify's maximum page size.
	ShopifyDefaultLimit = 250

	// MailchimpDefaultCount is the page size used when walking Mailchimp collections.
	MailchimpDefaultCount = 1000

	// DocusignDefaultCount is the page size used when walking Docusign envelopes.
	DocusignDefaultCount = 100
)

// Cursor query parameter names.
const (
	// CursorStartingAfter is Stripe's cursor parameter.
	CursorStartingAfter = "starting_after"

	// CursorSince is GitHub's cursor parameter for user listing.
	CursorSince = "since"

	// CursorSinceID is Shopify's cursor parameter.
	CursorSinceID = "since_id"
)

// Cache defaults.
const (
	// DefaultCacheSize is the default number of entries kept by the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long a cached GET response is served without revalidation.
	DefaultCacheTTL = 1 * time.Minute

	// DefaultCacheRetention is how long a stale entry is kept for ETag revalidation.
	DefaultCacheRetention = 24 * time.Hour

	// DefaultNATSBucket is the default JetStream key-value bucket name.
	DefaultNATSBucket = "vendorapi-cache"

	// DefaultRedisPrefix prefixes every cache key stored in Redis.
	DefaultRedisPrefix = "vendorapi:"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// CLI argument counts.
const (
	// MinimumArgumentCount is the argument count for KEY VALUE commands.
	MinimumArgumentCount = 2
)
