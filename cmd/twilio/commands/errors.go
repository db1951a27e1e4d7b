package commands

import (
	"fmt"

	"github.com/fivetwenty-io/twilio-client/internal/client"
	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
)

// DescribeError prefixes network and authentication failures so the user can
// tell them apart from other API errors.
func DescribeError(err error) error {
	switch {
	case err == nil:
		return nil
	case client.IsTransportError(err):
		return fmt.Errorf("%w: %w", constants.ErrNetwork, err)
	case twilio.IsAuthenticationError(err):
		return fmt.Errorf("%w: %w", constants.ErrAuthentication, err)
	default:
		return err
	}
}
