package commands

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
	"github.com/fivetwenty-io/vendorapi/pkg/docusign"
	"github.com/fivetwenty-io/vendorapi/pkg/github"
	"github.com/fivetwenty-io/vendorapi/pkg/logging"
	"github.com/fivetwenty-io/vendorapi/pkg/mailchimp"
	"github.com/fivetwenty-io/vendorapi/pkg/shopify"
	"github.com/fivetwenty-io/vendorapi/pkg/stripe"
)

// buildAPIConfig turns the stored configuration of one vendor into an
// apiclient.Config. The returned release func closes the cache, if any.
func buildAPIConfig(ctx context.Context, config *Config, name string) (*apiclient.Config, func(), error) {
	vendor := config.Vendor(name)
	logger := logging.NewZerologAdapter(logging.NewLogger(name))

	apiConfig := &apiclient.Config{
		BaseURL:  vendor.BaseURL,
		Headers:  make(map[string]string),
		RetryMax: config.RetryMax,
		Debug:    viper.GetBool("verbose"),
		Logger:   logger,
		// failed calls are logged at error level even without --verbose
		Interceptors: apiclient.NewInterceptorChain().
			AddResponseInterceptor(apiclient.LoggingResponseInterceptor(logger)),
	}

	if config.RetryMax > 0 {
		apiConfig.RetryWaitMin = constants.DefaultRetryWaitMin
		apiConfig.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if config.Timeout != "" {
		timeout, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing timeout %q: %w", config.Timeout, err)
		}

		apiConfig.Timeout = timeout
	}

	if vendor.Token != "" {
		maps.Copy(apiConfig.Headers, authHeaders(name, vendor.Token))
	}

	maps.Copy(apiConfig.Headers, vendor.Headers)

	release := func() {}

	if config.Cache != nil && config.Cache.Type != apiclient.CacheTypeNone {
		cache, err := apiclient.NewCacheFromConfig(ctx, config.Cache)
		if err != nil {
			return nil, nil, fmt.Errorf("creating cache: %w", err)
		}

		apiConfig.Cache = cache
		apiConfig.CacheTTL = constants.DefaultCacheTTL
		release = func() { _ = apiclient.CloseCache(cache) }

		if config.CacheTTL != "" {
			ttl, err := time.ParseDuration(config.CacheTTL)
			if err != nil {
				release()

				return nil, nil, fmt.Errorf("parsing cache_ttl %q: %w", config.CacheTTL, err)
			}

			apiConfig.CacheTTL = ttl
		}
	}

	return apiConfig, release, nil
}

func authHeaders(name, token string) map[string]string {
	switch name {
	case vendorStripe:
		return stripe.AuthHeaders(token)
	case vendorGitHub:
		return github.AuthHeaders(token)
	case vendorShopify:
		return shopify.AuthHeaders(token)
	case vendorMailchimp:
		return mailchimp.AuthHeaders(token)
	case vendorDocusign:
		return docusign.AuthHeaders(token)
	default:
		return nil
	}
}

func newStripeClient(ctx context.Context) (*stripe.Client, func(), error) {
	apiConfig, release, err := buildAPIConfig(ctx, loadConfig(), vendorStripe)
	if err != nil {
		return nil, nil, err
	}

	client, err := stripe.New(apiConfig)
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("creating stripe client: %w", err)
	}

	return client, release, nil
}

func newGitHubClient(ctx context.Context) (*github.Client, func(), error) {
	apiConfig, release, err := buildAPIConfig(ctx, loadConfig(), vendorGitHub)
	if err != nil {
		return nil, nil, err
	}

	client, err := github.New(apiConfig)
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("creating github client: %w", err)
	}

	return client, release, nil
}

func newShopifyClient(ctx context.Context) (*shopify.Client, func(), error) {
	config := loadConfig()
	vendor := config.Vendor(vendorShopify)

	apiConfig, release, err := buildAPIConfig(ctx, config, vendorShopify)
	if err != nil {
		return nil, nil, err
	}

	if apiConfig.BaseURL == "" && vendor.Shop != "" {
		apiConfig.BaseURL = shopify.StoreURL(vendor.Shop, vendor.APIVersion)
	}

	client, err := shopify.New(apiConfig)
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("creating shopify client: %w", err)
	}

	return client, release, nil
}

func newMailchimpClient(ctx context.Context) (*mailchimp.Client, func(), error) {
	config := loadConfig()
	vendor := config.Vendor(vendorMailchimp)

	apiConfig, release, err := buildAPIConfig(ctx, config, vendorMailchimp)
	if err != nil {
		return nil, nil, err
	}

	if apiConfig.BaseURL == "" && vendor.Token != "" {
		apiConfig.BaseURL, err = mailchimp.BaseURLForKey(vendor.Token)
		if err != nil {
			release()

			return nil, nil, err
		}
	}

	client, err := mailchimp.New(apiConfig)
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("creating mailchimp client: %w", err)
	}

	return client, release, nil
}

func newDocusignClient(ctx context.Context) (*docusign.Client, func(), error) {
	config := loadConfig()
	vendor := config.Vendor(vendorDocusign)

	apiConfig, release, err := buildAPIConfig(ctx, config, vendorDocusign)
	if err != nil {
		return nil, nil, err
	}

	if apiConfig.BaseURL == "" && vendor.AccountID != "" {
		apiConfig.BaseURL = docusign.AccountURL(docusign.ProductionBaseURI, vendor.AccountID)
	}

	client, err := docusign.New(apiConfig)
	if err != nil {
		release()

		return nil, nil, fmt.Errorf("creating docusign client: %w", err)
	}

	return client, release, nil
}
