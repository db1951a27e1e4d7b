package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/spf13/cobra"
)

// listFlags are shared by every list command.
type listFlags struct {
	pageSize int
	limit    int
	filters  []string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pageSize, "page-size", constants.DefaultPageSize, "results per request")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "stop after this many results, 0 for all")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "filter as key=value, e.g. Status=completed or DateCreated>=2011-07-05")
}

// parseFilters turns key=value pairs into Filters. The key keeps any
// inequality suffix, so "StartTime>=2011-08-01" becomes {"StartTime>": "2011-08-01"}.
func parseFilters(pairs []string) (twilio.Filters, error) {
	filters := twilio.Filters{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFilter, pair)
		}

		filters[key] = value
	}

	return filters, nil
}

// collectRecords walks a listing with a paginator and returns the raw member
// records, stopping at flags.limit.
func collectRecords(ctx context.Context, listing *twilio.Listing, flags *listFlags, extra twilio.Filters) ([]twilio.Attributes, error) {
	filters, err := parseFilters(flags.filters)
	if err != nil {
		return nil, err
	}

	for key, value := range extra {
		if value != "" {
			filters[key] = value
		}
	}

	paginator := listing.Paginator(constants.FirstPage, flags.pageSize, filters)

	var records []twilio.Attributes

	for {
		ok, err := paginator.Valid(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", listing.Kind().Segment(), err)
		}

		if !ok {
			return records, nil
		}

		records = append(records, paginator.Record())

		if flags.limit > 0 && len(records) >= flags.limit {
			return records, nil
		}

		err = paginator.Advance(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", listing.Kind().Segment(), err)
		}
	}
}

// runList is the body shared by the list commands.
func runList(cmd *cobra.Command, listingFor func(*twilio.Account) *twilio.Listing, flags *listFlags, extra twilio.Filters,
	columns []column, empty string,
) error {
	ctx := commandContext(cmd)

	account, err := currentAccount(ctx)
	if err != nil {
		return err
	}

	records, err := collectRecords(ctx, listingFor(account), flags, extra)
	if err != nil {
		return err
	}

	return renderRecords(cmd.OutOrStdout(), records, columns, empty)
}

// showInstance loads an instance and prints it.
func showInstance(cmd *cobra.Command, instance *twilio.Instance) error {
	err := instance.Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to get %s %s: %w", instance.Kind().Name, instance.SID(), err)
	}

	return renderRecord(cmd.OutOrStdout(), instance.Attributes())
}

// currentAccount returns the configured account.
func currentAccount(ctx context.Context) (*twilio.Account, error) {
	client, err := CreateClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.Account(), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
