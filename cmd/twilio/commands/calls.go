package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

var callColumns = []column{
	{"SID", "sid"},
	{"From", "from"},
	{"To", "to"},
	{"Status", "status"},
	{"Duration", "duration"},
	{"Start Time", "start_time"},
}

// NewCallsCommand creates the calls command group.
func NewCallsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calls",
		Aliases: []string{"call"},
		Short:   "Manage calls",
		Long:    "List, place and control calls",
	}

	cmd.AddCommand(newCallsListCommand())
	cmd.AddCommand(newCallsGetCommand())
	cmd.AddCommand(newCallsCreateCommand())
	cmd.AddCommand(newCallsHangupCommand())
	cmd.AddCommand(newCallsRouteCommand())
	cmd.AddCommand(newCallsDeleteCommand())

	return cmd
}

func newCallsListCommand() *cobra.Command {
	flags := &listFlags{}

	var (
		status string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calls",
		Long:  "List the account's call log, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing { return a.Calls().Listing }, flags,
				twilio.Filters{"Status": status, "From": from, "To": to}, callColumns, "No calls found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "filter by status (queued, ringing, in-progress, completed, ...)")
	cmd.Flags().StringVar(&from, "from", "", "filter by caller")
	cmd.Flags().StringVar(&to, "to", "", "filter by callee")

	return cmd
}

func newCallsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CALL_SID",
		Short: "Get call details",
		Long:  "Display detailed information about a specific call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := currentAccount(commandContext(cmd))
			if err != nil {
				return err
			}

			return showInstance(cmd, account.Calls().Get(args[0]).Instance)
		},
	}
}

func newCallsCreateCommand() *cobra.Command {
	var (
		statusCallback string
		timeout        string
		record         bool
	)

	cmd := &cobra.Command{
		Use:   "create FROM TO URL_OR_APPLICATION_SID",
		Short: "Place a call",
		Long: `Place an outbound call. The third argument is the TwiML URL to fetch
when the call connects, or the SID of an application to hand it to.`,
		Args: cobra.ExactArgs(3), //nolint:mnd
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

			if timeout != "" {
				params["Timeout"] = timeout
			}

			if record {
				params["Record"] = "true"
			}

			call, err := account.Calls().Create(ctx, args[0], args[1], args[2], params)
			if err != nil {
				return fmt.Errorf("failed to create call: %w", err)
			}

			return renderRecord(cmd.OutOrStdout(), call.Attributes())
		},
	}

	cmd.Flags().StringVar(&statusCallback, "status-callback", "", "URL notified when the call ends")
	cmd.Flags().StringVar(&timeout, "timeout", "", "seconds to let the call ring")
	cmd.Flags().BoolVar(&record, "record", false, "record the call")

	return cmd
}

func newCallsHangupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hangup CALL_SID",
		Short: "Hang up a call",
		Long:  "End a queued, ringing or in-progress call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			account, err := currentAccount(ctx)
			if err != nil {
				return err
			}

			err = account.Calls().Get(args[0]).Hangup(ctx)
			if err != nil {
				return fmt.Errorf("failed to hang up call %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Call %s hung up\n", args[0])

			return nil
		},
	}
}

func newCallsRouteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route CALL_SID URL",
		Short: "Redirect a call",
		Long:  "Redirect a live call to the TwiML at URL",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			account, err := currentAccount(ctx)
			if err != nil {
				return err
			}

			err = account.Calls().Get(args[0]).Route(ctx, args[1])
			if err != nil {
				return fmt.Errorf("failed to route call %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Call %s routed to %s\n", args[0], args[1])

			return nil
		},
	}
}

func newCallsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete CALL_SID",
		Short: "Delete a call",
		Long:  "Remove a call from the call log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, func(a *twilio.Account) *twilio.Listing { return a.Calls().Listing }, args[0])
		},
	}
}

// runDelete removes sid from the listing and reports it.
func runDelete(cmd *cobra.Command, listingFor func(*twilio.Account) *twilio.Listing, sid string) error {
	ctx := commandContext(cmd)

	account, err := currentAccount(ctx)
	if err != nil {
		return err
	}

	listing := listingFor(account)

	err = listing.Delete(ctx, sid, nil)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", sid, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", strings.ToLower(listing.Kind().Name), sid)

	return nil
}
