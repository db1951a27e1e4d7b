package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/fivetwenty-io/twilio-client/pkg/twilioclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigDirName is the directory below $HOME holding config.yml.
const ConfigDirName = ".twilio"

// Configuration keys, as used in config.yml and by viper.
const (
	keyAccountSID = "account_sid"
	keyAuthToken  = "auth_token"
	keyAPIVersion = "api_version"
	keyBaseURL    = "base_url"
	keyOutput     = "output"
	keyRateLimit  = "rate_limit"
	keyRetries    = "retries"
	keyVerbose    = "verbose"
)

var configKeys = []string{keyAccountSID, keyAuthToken, keyAPIVersion, keyBaseURL, keyOutput, keyRateLimit, keyRetries}

// Config represents the CLI configuration.
type Config struct {
	AccountSID string `json:"account_sid,omitempty" yaml:"account_sid,omitempty"`
	AuthToken  string `json:"auth_token,omitempty"  yaml:"auth_token,omitempty"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	BaseURL    string `json:"base_url,omitempty"    yaml:"base_url,omitempty"`
	Output     string `json:"output,omitempty"      yaml:"output,omitempty"`
	// RateLimit caps requests per second; zero disables pacing.
	RateLimit int `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	// Retries enables transport retries on 429, 5xx and connection errors.
	Retries int `json:"retries,omitempty" yaml:"retries,omitempty"`
}

// AddGlobalFlags registers the persistent flags and binds them to viper.
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()

	flags.StringP("config", "c", "", "config file (default is $HOME/.twilio/config.yml)")
	flags.String("account-sid", "", "account SID (env TWILIO_ACCOUNT_SID)")
	flags.String("auth-token", "", "auth token (env TWILIO_AUTH_TOKEN)")
	flags.String("api-version", constants.APIVersion2010, "REST API version (2008-08-01, 2010-04-01)")
	flags.String("base-url", constants.APIBaseURL, "API base URL")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.Int("rate-limit", 0, "maximum requests per second, 0 for unlimited")
	flags.Int("retries", constants.DefaultRetryMax, "retries for 429, 5xx and connection errors")
	flags.BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag(keyAccountSID, flags.Lookup("account-sid"))
	_ = viper.BindPFlag(keyAuthToken, flags.Lookup("auth-token"))
	_ = viper.BindPFlag(keyAPIVersion, flags.Lookup("api-version"))
	_ = viper.BindPFlag(keyBaseURL, flags.Lookup("base-url"))
	_ = viper.BindPFlag(keyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(keyRateLimit, flags.Lookup("rate-limit"))
	_ = viper.BindPFlag(keyRetries, flags.Lookup("retries"))
	_ = viper.BindPFlag(keyVerbose, flags.Lookup("verbose"))
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and edit the settings stored in $HOME/.twilio/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the auth token masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.AuthToken != "" {
				config.AuthToken = constants.MaskedSecret
			}

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON, constants.FormatYAML:
				return renderValue(cmd.OutOrStdout(), config)
			default:
				return displayConfigTable(cmd.OutOrStdout(), config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + fmt.Sprint(configKeys),
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], "")
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		AccountSID: viper.GetString(keyAccountSID),
		AuthToken:  viper.GetString(keyAuthToken),
		APIVersion: viper.GetString(keyAPIVersion),
		BaseURL:    viper.GetString(keyBaseURL),
		Output:     viper.GetString(keyOutput),
		RateLimit:  viper.GetInt(keyRateLimit),
		Retries:    viper.GetInt(keyRetries),
	}
}

func setConfigValue(config *Config, key, value string) error {
	if !slices.Contains(configKeys, key) {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	switch key {
	case keyAccountSID:
		config.AccountSID = value
	case keyAuthToken:
		config.AuthToken = value
	case keyAPIVersion:
		config.APIVersion = value
	case keyBaseURL:
		config.BaseURL = value
	case keyOutput:
		if value != "" && !isOutputFormat(value) {
			return constants.ErrInvalidOutput
		}

		config.Output = value
	case keyRateLimit, keyRetries:
		n := 0

		if value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, value, err)
			}

			n = parsed
		}

		if key == keyRateLimit {
			config.RateLimit = n
		} else {
			config.Retries = n
		}
	}

	viper.Set(key, value)

	return nil
}

func isOutputFormat(value string) bool {
	return value == constants.FormatTable || value == constants.FormatJSON || value == constants.FormatYAML
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ConfigDirName)

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
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

func displayConfigTable(w io.Writer, config *Config) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	_ = table.Append("Account SID", valueOrNA(config.AccountSID))
	_ = table.Append("Auth Token", valueOrNA(config.AuthToken))
	_ = table.Append("API Version", valueOrNA(config.APIVersion))
	_ = table.Append("Base URL", valueOrNA(config.BaseURL))
	_ = table.Append("Output", valueOrNA(config.Output))
	_ = table.Append("Rate Limit", strconv.Itoa(config.RateLimit))
	_ = table.Append("Retries", strconv.Itoa(config.Retries))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// CreateClient builds a client from flags, environment and config file.
func CreateClient(ctx context.Context) (*twilioclient.Client, error) {
	config := loadConfig()

	if config.AccountSID == "" {
		return nil, constants.ErrNoAccountConfigured
	}

	if config.AuthToken == "" {
		return nil, constants.ErrNoAuthToken
	}

	return twilioclient.New(ctx, buildTwilioConfig(config, viper.GetBool(keyVerbose)))
}

func buildTwilioConfig(config *Config, verbose bool) *twilio.Config {
	twilioConfig := &twilio.Config{
		AccountSID:  config.AccountSID,
		AuthToken:   config.AuthToken,
		APIVersion:  config.APIVersion,
		BaseURL:     config.BaseURL,
		HTTPTimeout: constants.DefaultHTTPTimeout,
	}

	if config.Retries > 0 {
		twilioConfig.RetryMax = config.Retries
		twilioConfig.RetryWaitMin = constants.DefaultRetryWaitMin
		twilioConfig.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if config.RateLimit > 0 {
		twilioConfig.RequestInterceptors = append(twilioConfig.RequestInterceptors,
			twilio.RateLimitInterceptor(config.RateLimit))
	}

	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		twilioConfig.Logger = twilio.NewSlogLogger(slog.New(handler))
		twilioConfig.Debug = true
	}

	return twilioConfig
}
