package commands

import (
	"fmt"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

// NewApplicationsCommand creates the applications command group.
func NewApplicationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"application", "apps"},
		Short:   "Manage TwiML applications",
		Long:    "List, create and delete TwiML applications",
	}

	cmd.AddCommand(newApplicationsListCommand())
	cmd.AddCommand(newApplicationsCreateCommand())
	cmd.AddCommand(newApplicationsDeleteCommand())

	return cmd
}

func newApplicationsListCommand() *cobra.Command {
	flags := &listFlags{}

	var friendlyName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Long:  "List the account's TwiML applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing { return a.Applications().Listing }, flags,
				twilio.Filters{"FriendlyName": friendlyName}, []column{
					{"SID", "sid"},
					{"Name", "friendly_name"},
					{"Voice URL", "voice_url"},
					{"SMS URL", "sms_url"},
				}, "No applications found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&friendlyName, "name", "", "filter by friendly name")

	return cmd
}

func newApplicationsCreateCommand() *cobra.Command {
	var (
		voiceURL string
		smsURL   string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an application",
		Long:  "Create a TwiML application with a friendly name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			account, err := currentAccount(ctx)
			if err != nil {
				return err
			}

			params := twilio.Params{}
			if voiceURL != "" {
				params["VoiceUrl"] = voiceURL
			}

			if smsURL != "" {
				params["SmsUrl"] = smsURL
			}

			application, err := account.Applications().Create(ctx, args[0], params)
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}

			return renderRecord(cmd.OutOrStdout(), application.Attributes())
		},
	}

	cmd.Flags().StringVar(&voiceURL, "voice-url", "", "TwiML URL for incoming calls")
	cmd.Flags().StringVar(&smsURL, "sms-url", "", "TwiML URL for incoming messages")

	return cmd
}

func newApplicationsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete APPLICATION_SID",
		Short: "Delete an application",
		Long:  "Delete a TwiML application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, func(a *twilio.Account) *twilio.Listing { return a.Applications().Listing }, args[0])
		},
	}
}
