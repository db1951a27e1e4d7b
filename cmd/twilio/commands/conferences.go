package commands

import (
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

// NewConferencesCommand creates the conferences command group.
func NewConferencesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conferences",
		Aliases: []string{"conference"},
		Short:   "Inspect conferences",
		Long:    "List conferences and their participants",
	}

	cmd.AddCommand(newConferencesListCommand())
	cmd.AddCommand(newConferencesParticipantsCommand())

	return cmd
}

func newConferencesListCommand() *cobra.Command {
	flags := &listFlags{}

	var (
		status       string
		friendlyName string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conferences",
		Long:  "List the account's conferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing { return a.Conferences().Listing }, flags,
				twilio.Filters{"Status": status, "FriendlyName": friendlyName}, []column{
					{"SID", "sid"},
					{"Name", "friendly_name"},
					{"Status", "status"},
					{"Created", "date_created"},
				}, "No conferences found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "filter by status (init, in-progress, completed)")
	cmd.Flags().StringVar(&friendlyName, "name", "", "filter by friendly name")

	return cmd
}

func newConferencesParticipantsCommand() *cobra.Command {
	flags := &listFlags{}

	var muted string

	cmd := &cobra.Command{
		Use:   "participants CONFERENCE_SID",
		Short: "List participants",
		Long:  "List the participants of a conference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing {
				return a.Conferences().Get(args[0]).Participants()
			}, flags, twilio.Filters{"Muted": muted}, []column{
				{"Call SID", "call_sid"},
				{"Muted", "muted"},
				{"Start Conference On Enter", "start_conference_on_enter"},
				{"End Conference On Exit", "end_conference_on_exit"},
			}, "No participants found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&muted, "muted", "", "filter by muted state (true, false)")

	return cmd
}
