package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

// NewNumbersCommand creates the numbers command group.
func NewNumbersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "numbers",
		Aliases: []string{"number"},
		Short:   "Manage phone numbers",
		Long:    "Search numbers available for purchase and list the account's numbers",
	}

	cmd.AddCommand(newNumbersAvailableCommand())
	cmd.AddCommand(newNumbersIncomingCommand())

	return cmd
}

func newNumbersAvailableCommand() *cobra.Command {
	var (
		country    string
		numberType string
		areaCode   string
		contains   string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "available",
		Short: "Search available numbers",
		Long:  "Search local or toll free numbers available for purchase in a country",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			segment, err := numberTypeSegment(numberType)
			if err != nil {
				return err
			}

			account, err := currentAccount(ctx)
			if err != nil {
				return err
			}

			params := twilio.Params{}
			if areaCode != "" {
				params["AreaCode"] = areaCode
			}

			if contains != "" {
				params["Contains"] = contains
			}

			numbers, err := account.AvailablePhoneNumbers().List(ctx, strings.ToUpper(country), segment, params)
			if err != nil {
				return fmt.Errorf("failed to search numbers: %w", err)
			}

			if limit > 0 && len(numbers) > limit {
				numbers = numbers[:limit]
			}

			return renderRecords(cmd.OutOrStdout(), numbers, []column{
				{"Number", "phone_number"},
				{"Name", "friendly_name"},
				{"Locality", "rate_center"},
				{"Region", "region"},
				{"Postal Code", "postal_code"},
			}, "No numbers found")
		},
	}

	cmd.Flags().StringVar(&country, "country", "US", "ISO country code")
	cmd.Flags().StringVar(&numberType, "type", "local", "number type (local, tollfree)")
	cmd.Flags().StringVar(&areaCode, "area-code", "", "area code to search in")
	cmd.Flags().StringVar(&contains, "contains", "", "pattern the number must contain, e.g. 510555****")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many numbers, 0 for all")

	return cmd
}

// numberTypeSegment maps the --type flag to the search path segment.
func numberTypeSegment(numberType string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(numberType, "-", "")) {
	case "local":
		return constants.NumberTypeLocal, nil
	case "tollfree":
		return constants.NumberTypeTollFree, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidNumberType, numberType)
	}
}

func newNumbersIncomingCommand() *cobra.Command {
	flags := &listFlags{}

	var phoneNumber string

	cmd := &cobra.Command{
		Use:   "incoming",
		Short: "List the account's numbers",
		Long:  "List the phone numbers the account owns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, func(a *twilio.Account) *twilio.Listing { return a.IncomingPhoneNumbers() }, flags,
				twilio.Filters{"PhoneNumber": phoneNumber}, []column{
					{"SID", "sid"},
					{"Number", "phone_number"},
					{"Name", "friendly_name"},
					{"Voice URL", "voice_url"},
					{"SMS URL", "sms_url"},
				}, "No numbers found")
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&phoneNumber, "number", "", "filter by phone number")

	return cmd
}
