package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const (
	vendorStripe    = "stripe"
	vendorGitHub    = "github"
	vendorShopify   = "shopify"
	vendorMailchimp = "mailchimp"
	vendorDocusign  = "docusign"

	visibleTokenChars = 4
)

var vendorNames = []string{vendorStripe, vendorGitHub, vendorShopify, vendorMailchimp, vendorDocusign}

// Config represents the CLI configuration.
type Config struct {
	Output   string `json:"output,omitempty"    yaml:"output,omitempty"`
	RetryMax int    `json:"retry_max,omitempty" yaml:"retry_max,omitempty"`
	Timeout  string `json:"timeout,omitempty"   yaml:"timeout,omitempty"`
	CacheTTL string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`

	Cache *apiclient.CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`

	// Vendors is keyed by vendor name and stored as top-level sections.
	Vendors map[string]*VendorConfig `json:"vendors,omitempty" yaml:",inline"`
}

// VendorConfig holds the endpoint and credentials of one vendor.
type VendorConfig struct {
	BaseURL string            `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Token   string            `json:"token,omitempty"    yaml:"token,omitempty"`
	Headers map[string]string `json:"headers,omitempty"  yaml:"headers,omitempty"`

	// Shopify store handle and Admin API version.
	Shop       string `json:"shop,omitempty"        yaml:"shop,omitempty"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`

	// DocuSign account.
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
}

func (v *VendorConfig) empty() bool {
	return v.BaseURL == "" && v.Token == "" && len(v.Headers) == 0 &&
		v.Shop == "" && v.APIVersion == "" && v.AccountID == ""
}

// Vendor returns the configuration of name, never nil.
func (c *Config) Vendor(name string) *VendorConfig {
	if vendor, ok := c.Vendors[name]; ok && vendor != nil {
		return vendor
	}

	return &VendorConfig{}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage vendor endpoints, credentials and global settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with credentials masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := redactConfig(loadConfig())

			return render(cmd, config, func(w io.Writer) error {
				return displayConfigTable(w, config)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value and persist it to the config file.

Global keys: output, retry_max, timeout, cache_ttl, cache.type,
cache.memory.max_size, cache.redis.addr, cache.nats.url

Vendor keys: <vendor>.base_url, <vendor>.token, <vendor>.headers.<Name>,
shopify.shop, shopify.api_version, docusign.account_id`,
		Example: `  vendorapi config set stripe.token sk_test_123
  vendorapi config set github.headers.X-Trace on
  vendorapi config set output json`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			err := NewConfigPersister().Set(key, value)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)

			return nil
		},
	}
}

// loadConfig reads the configuration from viper, so environment variables
// override the file.
func loadConfig() *Config {
	config := &Config{
		Output:   viper.GetString("output"),
		RetryMax: viper.GetInt("retry_max"),
		Timeout:  viper.GetString("timeout"),
		CacheTTL: viper.GetString("cache_ttl"),
		Vendors:  make(map[string]*VendorConfig),
	}

	if viper.IsSet("cache") {
		cache := &apiclient.CacheConfig{}

		err := viper.UnmarshalKey("cache", cache)
		if err == nil && cache.Type != "" {
			config.Cache = cache
		}
	}

	for _, name := range vendorNames {
		vendor := &VendorConfig{
			BaseURL:    viper.GetString(name + ".base_url"),
			Token:      viper.GetString(name + ".token"),
			Shop:       viper.GetString(name + ".shop"),
			APIVersion: viper.GetString(name + ".api_version"),
			AccountID:  viper.GetString(name + ".account_id"),
		}

		headers := viper.GetStringMapString(name + ".headers")
		if len(headers) > 0 {
			vendor.Headers = headers
		}

		if !vendor.empty() {
			config.Vendors[name] = vendor
		}
	}

	return config
}

// configFilePath returns the file viper read, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".vendorapi", "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setConfigValue applies one KEY VALUE pair to config.
func setConfigValue(config *Config, key, value string) error {
	section, field, nested := strings.Cut(strings.ToLower(key), ".")
	if !nested {
		return setGlobalConfig(config, section, value)
	}

	if section == "cache" {
		return setCacheConfig(config, field, value)
	}

	if !slices.Contains(vendorNames, section) {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	vendor := config.Vendor(section)

	err := setVendorConfig(vendor, section, field, key, value)
	if err != nil {
		return err
	}

	if config.Vendors == nil {
		config.Vendors = make(map[string]*VendorConfig)
	}

	config.Vendors[section] = vendor

	return nil
}

func setGlobalConfig(config *Config, key, value string) error {
	switch key {
	case "output":
		switch value {
		case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
			config.Output = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownOutputFormat, value)
		}
	case "retry_max":
		retryMax, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retry_max %q: %w", value, err)
		}

		config.RetryMax = retryMax
	case "timeout":
		config.Timeout = value
	case "cache_ttl":
		config.CacheTTL = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

func setCacheConfig(config *Config, field, value string) error {
	if config.Cache == nil {
		config.Cache = &apiclient.CacheConfig{Type: apiclient.CacheTypeNone}
	}

	cache := config.Cache

	switch field {
	case "type":
		cache.Type = apiclient.CacheType(value)
	case "memory.max_size":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid cache size %q: %w", value, err)
		}

		cache.Memory = &apiclient.MemoryCacheConfig{MaxSize: size}
	case "redis.addr":
		if cache.Redis == nil {
			cache.Redis = &apiclient.RedisCacheConfig{}
		}

		cache.Redis.Addr = value
	case "nats.url":
		if cache.NATS == nil {
			cache.NATS = &apiclient.NATSKVConfig{}
		}

		cache.NATS.URL = value
	default:
		return fmt.Errorf("%w: cache.%s", ErrUnknownConfigKey, field)
	}

	return nil
}

func setVendorConfig(vendor *VendorConfig, name, field, key, value string) error {
	// viper folds keys to lower case, header names included
	if header, ok := strings.CutPrefix(field, "headers."); ok {
		if vendor.Headers == nil {
			vendor.Headers = make(map[string]string)
		}

		vendor.Headers[header] = value

		return nil
	}

	switch {
	case field == "base_url":
		vendor.BaseURL = value
	case field == "token":
		vendor.Token = value
	case field == "shop" && name == vendorShopify:
		vendor.Shop = value
	case field == "api_version" && name == vendorShopify:
		vendor.APIVersion = value
	case field == "account_id" && name == vendorDocusign:
		vendor.AccountID = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

// redactConfig returns a copy of config with tokens masked.
func redactConfig(config *Config) *Config {
	redacted := *config
	redacted.Vendors = make(map[string]*VendorConfig, len(config.Vendors))

	for name, vendor := range config.Vendors {
		clone := *vendor
		clone.Token = maskToken(vendor.Token)
		redacted.Vendors[name] = &clone
	}

	if config.Cache != nil && config.Cache.Redis != nil && config.Cache.Redis.Password != "" {
		cache := *config.Cache
		redis := *config.Cache.Redis
		redis.Password = maskToken(redis.Password)
		cache.Redis = &redis
		redacted.Cache = &cache
	}

	return &redacted
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}

	if len(token) <= visibleTokenChars {
		return "****"
	}

	return "****" + token[len(token)-visibleTokenChars:]
}

func displayConfigTable(w io.Writer, config *Config) error {
	cacheType := string(apiclient.CacheTypeNone)
	if config.Cache != nil {
		cacheType = string(config.Cache.Type)
	}

	_, _ = io.WriteString(w, "Global Configuration:\n")

	err := renderProperties(w, [][2]string{
		{"Output", config.Output},
		{"Retry Max", strconv.Itoa(config.RetryMax)},
		{"Timeout", config.Timeout},
		{"Cache", cacheType},
		{"Cache TTL", config.CacheTTL},
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(config.Vendors))

	for _, name := range vendorNames {
		vendor, ok := config.Vendors[name]
		if !ok {
			continue
		}

		rows = append(rows, []string{
			name,
			vendor.BaseURL,
			vendor.Token,
			strconv.Itoa(len(vendor.Headers)),
			vendorExtra(vendor),
		})
	}

	_, _ = io.WriteString(w, "\nVendors:\n")

	return renderRows(w, "vendors configured", []string{"Vendor", "Base URL", "Token", "Headers", "Extra"}, rows)
}

func vendorExtra(vendor *VendorConfig) string {
	var extra []string

	if vendor.Shop != "" {
		extra = append(extra, "shop="+vendor.Shop)
	}

	if vendor.APIVersion != "" {
		extra = append(extra, "api_version="+vendor.APIVersion)
	}

	if vendor.AccountID != "" {
		extra = append(extra, "account_id="+vendor.AccountID)
	}

	return strings.Join(extra, " ")
}
