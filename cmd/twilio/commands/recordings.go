package commands

import (
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

var recordingColumns = []column{
	{"SID", "sid"},
	{"Call SID", "call_sid"},
	{"Duration", "duration"},
	{"Created", "date_created"},
}

// NewRecordingsCommand creates the recordings command group.
func NewRecordingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recordings",
		Aliases: []string{"recording"},
		Short:   "Manage recordings",
		Long:    "List and delete call recordings",
	}

	cmd.AddCommand(newRecordingsListCommand())
	cmd.AddCommand(newRecordingsDeleteCommand())

	return cmd
}

func newRecordingsListCommand() *cobra.Command {
	flags := &listFlags{}

	var callSID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recordings",
		Long:  "List the account's recordings, or those of one call with --call",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing {
				if callSID != "" {
					return a.Calls().Get(callSID).Recordings().Listing
				}

				return a.Recordings().Listing
			}, flags, nil, recordingColumns, "No recordings found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&callSID, "call", "", "only recordings of this call")

	return cmd
}

func newRecordingsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RECORDING_SID",
		Short: "Delete a recording",
		Long:  "Permanently delete a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, func(a *twilio.Account) *twilio.Listing { return a.Recordings().Listing }, args[0])
		},
	}
}
