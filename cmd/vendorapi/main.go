package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/vendorapi/cmd/vendorapi/commands"
	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "vendorapi",
	Short: "Command-line access to vendor REST APIs",
	Long: `A command-line interface for the Stripe, GitHub, Shopify, Mailchimp and
DocuSign REST APIs.

Credentials and endpoints are read from $HOME/.vendorapi/config.yml or from
VENDORAPI_* environment variables (for example VENDORAPI_STRIPE_TOKEN).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if viper.GetBool("verbose") {
			level = logging.LevelDebug
		}

		logging.Setup(logging.Config{Level: level, Pretty: true, Output: os.Stderr})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.vendorapi/config.yml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml); table when stdout is a terminal")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and pagination at debug level")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewStripeCommand())
	rootCmd.AddCommand(commands.NewGitHubCommand())
	rootCmd.AddCommand(commands.NewShopifyCommand())
	rootCmd.AddCommand(commands.NewMailchimpCommand())
	rootCmd.AddCommand(commands.NewDocusignCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".vendorapi")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// VENDORAPI_STRIPE_TOKEN maps to stripe.token
	viper.SetEnvPrefix("VENDORAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
