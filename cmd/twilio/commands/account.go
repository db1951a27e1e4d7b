package commands

import (
	"github.com/spf13/cobra"
)

// NewAccountCommand creates the account command group.
func NewAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Show account details",
		Long:    "Display the configured Twilio account and its subaccounts",
	}

	cmd.AddCommand(newAccountShowCommand())
	cmd.AddCommand(newAccountListCommand())

	return cmd
}

func newAccountShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured account",
		Long:  "Display every field of the configured account",
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := currentAccount(commandContext(cmd))
			if err != nil {
				return err
			}

			return showInstance(cmd, account.Instance)
		},
	}
}

func newAccountListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long:  "List the configured account and its subaccounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(commandContext(cmd))
			if err != nil {
				return err
			}

			records, err := collectRecords(commandContext(cmd), client.Accounts().Listing, flags, nil)
			if err != nil {
				return err
			}

			return renderRecords(cmd.OutOrStdout(), records, []column{
				{"SID", "sid"},
				{"Name", "friendly_name"},
				{"Status", "status"},
				{"Type", "type"},
				{"Created", "date_created"},
			}, "No accounts found")
		},
	}

	flags.register(cmd)

	return cmd
}
