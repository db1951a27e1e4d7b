// Package twilioclient provides the main entry point for creating Twilio REST API clients
package twilioclient

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/twilio-client/internal/client"
	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
)

// Client is the root of a Twilio resource tree.
type Client struct {
	config   twilio.Config
	version  string
	requests twilio.Requester
	accounts *twilio.Accounts
}

// New creates a new Twilio client. No request is made until a resource
// attribute is read or an operation is called.
func New(ctx context.Context, config *twilio.Config) (*Client, error) {
	facade, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	version := ResolveVersion(config.APIVersion)

	return &Client{
		config:   *config,
		version:  version,
		requests: facade,
		accounts: twilio.NewAccounts(facade, version, config.Logger),
	}, nil
}

// NewWithCredentials creates a client for the production API with default
// settings.
func NewWithCredentials(ctx context.Context, accountSID, authToken string) (*Client, error) {
	return New(ctx, &twilio.Config{
		AccountSID: accountSID,
		AuthToken:  authToken,
	})
}

// ResolveVersion maps a requested API version to a supported one. Unknown
// and empty versions resolve to the latest.
func ResolveVersion(version string) string {
	switch version {
	case constants.APIVersion2008, constants.APIVersion2010:
		return version
	default:
		return constants.APIVersion2010
	}
}

// Account returns the account named by the configured AccountSID.
func (c *Client) Account() *twilio.Account {
	return c.accounts.Get(c.config.AccountSID)
}

// Accounts returns the root Accounts listing, used for subaccounts.
func (c *Client) Accounts() *twilio.Accounts {
	return c.accounts
}

// Version returns the resolved API version.
func (c *Client) Version() string {
	return c.version
}

// Requester returns the facade shared by every resource of the tree.
func (c *Client) Requester() twilio.Requester {
	return c.requests
}
