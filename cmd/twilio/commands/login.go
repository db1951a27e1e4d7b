package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/fivetwenty-io/twilio-client/pkg/twilioclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		accountSID string
		authToken  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Twilio credentials",
		Long:  "Verify an account SID and auth token against the API and save them to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			if accountSID == "" {
				accountSID = viper.GetString(keyAccountSID)
			}

			if accountSID == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Account SID: ")
				line, _ := reader.ReadString('\n')
				accountSID = strings.TrimSpace(line)
			}

			if accountSID == "" {
				return constants.ErrNoAccountConfigured
			}

			if authToken == "" {
				token, err := readSecret(cmd.OutOrStdout(), reader, "Auth Token: ")
				if err != nil {
					return err
				}

				authToken = token
			}

			if authToken == "" {
				return constants.ErrNoAuthToken
			}

			config := loadConfig()
			config.AccountSID = accountSID
			config.AuthToken = authToken

			ctx := commandContext(cmd)

			client, err := twilioclient.New(ctx, buildTwilioConfig(config, viper.GetBool(keyVerbose)))
			if err != nil {
				return err
			}

			name, err := client.Account().String(ctx, "friendly_name")
			if err != nil {
				if twilio.IsAuthenticationError(err) {
					return fmt.Errorf("login failed, check the account SID and auth token: %w", err)
				}

				return fmt.Errorf("login failed: %w", err)
			}

			viper.Set(keyAccountSID, accountSID)
			viper.Set(keyAuthToken, authToken)

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s (%s)\n", name, accountSID)

			return nil
		},
	}

	cmd.Flags().StringVar(&accountSID, "sid", "", "account SID")
	cmd.Flags().StringVar(&authToken, "token", "", "auth token (prompted without echo when omitted)")

	return cmd
}

// readSecret prompts without echo when stdin is a terminal and falls back to
// a plain line read otherwise.
func readSecret(w io.Writer, reader *bufio.Reader, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		_, _ = fmt.Fprintln(w)

		if err != nil {
			return "", fmt.Errorf("failed to read auth token: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read auth token: %w", err)
	}

	return strings.TrimSpace(line), nil
}
