package commands

import (
	"fmt"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

var messageColumns = []column{
	{"SID", "sid"},
	{"From", "from"},
	{"To", "to"},
	{"Status", "status"},
	{"Body", "body"},
	{"Sent", "date_sent"},
}

// NewMessagesCommand creates the messages command group.
func NewMessagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"message", "sms"},
		Short:   "Manage SMS messages",
		Long:    "List and send SMS messages",
	}

	cmd.AddCommand(newMessagesListCommand())
	cmd.AddCommand(newMessagesGetCommand())
	cmd.AddCommand(newMessagesSendCommand())

	return cmd
}

func newMessagesListCommand() *cobra.Command {
	flags := &listFlags{}

	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages",
		Long:  "List the account's SMS log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing { return a.SmsMessages().Listing }, flags,
				twilio.Filters{"From": from, "To": to}, messageColumns, "No messages found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "filter by sender")
	cmd.Flags().StringVar(&to, "to", "", "filter by recipient")

	return cmd
}

func newMessagesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get MESSAGE_SID",
		Short: "Get message details",
		Long:  "Display detailed information about a specific message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := currentAccount(commandContext(cmd))
			if err != nil {
				return err
			}

			return showInstance(cmd, account.SmsMessages().Get(args[0]))
		},
	}
}

func newMessagesSendCommand() *cobra.Command {
	var statusCallback string

	cmd := &cobra.Command{
		Use:   "send FROM TO BODY",
		Short: "Send a message",
		Long:  "Send an SMS message from one of the account's numbers",
		Args:  cobra.ExactArgs(3), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			account, err := currentAccount(ctx)
			if err != nil {
				return err
			}

			params := twilio.Params{}
			if statusCallback != "" {
				params["StatusCallback"] = statusCallback
			}

			message, err := account.SmsMessages().Create(ctx, args[0], args[1], args[2], params)
			if err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}

			return renderRecord(cmd.OutOrStdout(), message.Attributes())
		},
	}

	cmd.Flags().StringVar(&statusCallback, "status-callback", "", "URL notified of delivery status")

	return cmd
}
