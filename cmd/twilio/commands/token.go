package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio/capability"
	"github.com/spf13/cobra"
)

// NewTokenCommand creates the capability token command
func NewTokenCommand() *cobra.Command {
	var (
		incoming string
		outgoing string
		params   []string
		events   bool
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a Twilio Client capability token",
		Long: `Sign a capability token for Twilio Client with the configured auth token.
The token starts with no permissions; grant them with the flags.`,
		Example: `  twilio token --incoming alice
  twilio token --outgoing AP0123456789abcdef0123456789abcdef --param agent=alice --ttl 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.AccountSID == "" {
				return constants.ErrNoAccountConfigured
			}

			if config.AuthToken == "" {
				return constants.ErrNoAuthToken
			}

			grant := capability.New(config.AccountSID, config.AuthToken)

			if incoming != "" {
				if err := grant.AllowClientIncoming(incoming); err != nil {
					return err
				}
			}

			if outgoing != "" {
				appParams, err := parseFilters(params)
				if err != nil {
					return err
				}

				grant.AllowClientOutgoing(outgoing, appParams.Values())
			}

			if events {
				grant.AllowEventStream(nil)
			}

			if ttl <= 0 {
				ttl = capability.DefaultTTL
			}

			expires := time.Now().Add(ttl)

			token, err := grant.GenerateToken(ttl)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			scopes := make([]string, 0)
			for _, scope := range grant.Scopes() {
				scopes = append(scopes, scope.String())
			}

			return renderRecord(cmd.OutOrStdout(), twilio.Attributes{
				"token":      token,
				"scope":      strings.Join(scopes, " "),
				"expires_at": expires.UTC().Format(time.RFC3339),
			})
		},
	}

	cmd.Flags().StringVar(&incoming, "incoming", "", "allow incoming connections for this client name")
	cmd.Flags().StringVar(&outgoing, "outgoing", "", "allow outgoing connections through this application SID")
	cmd.Flags().StringArrayVar(&params, "param", nil, "signed outgoing parameter as key=value")
	cmd.Flags().BoolVar(&events, "events", false, "allow subscribing to the account event stream")
	cmd.Flags().DurationVar(&ttl, "ttl", capability.DefaultTTL, "token lifetime")

	return cmd
}
