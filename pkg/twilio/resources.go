package twilio

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
)

// Accounts is the root listing of the account tree.
type Accounts struct {
	*Listing
}

// NewAccounts builds the root listing at "/<version>/Accounts".
func NewAccounts(client Requester, version string, logger Logger) *Accounts {
	listing := newListing(listingKinds[KindAccount], client, logger)
	listing.SetURI("/"+version, constants.AccountsSegment)

	return &Accounts{Listing: listing}
}

// Get returns the account with the given SID without a request.
func (a *Accounts) Get(sid string) *Account {
	return &Account{Instance: a.Listing.Get(sid)}
}

// Create creates a subaccount with a friendly name.
func (a *Accounts) Create(ctx context.Context, friendlyName string, params Params) (*Account, error) {
	instance, err := a.Listing.Create(ctx, params.withRequired(Params{"FriendlyName": friendlyName}))
	if err != nil {
		return nil, err
	}

	return &Account{Instance: instance}, nil
}

// Account is one Twilio account and the root of its resource tree.
type Account struct {
	*Instance
}

// Applications returns the account's voice and SMS applications.
func (a *Account) Applications() *Applications {
	return &Applications{Listing: a.mustListing(ActionApplications)}
}

// AvailablePhoneNumbers returns the number search listing.
func (a *Account) AvailablePhoneNumbers() *AvailablePhoneNumbers {
	return &AvailablePhoneNumbers{Listing: a.mustListing(ActionAvailablePhoneNumbers)}
}

// OutgoingCallerIDs returns the verified caller IDs.
func (a *Account) OutgoingCallerIDs() *OutgoingCallerIDs {
	return &OutgoingCallerIDs{Listing: a.mustListing(ActionOutgoingCallerIDs)}
}

// Calls returns the account's calls.
func (a *Account) Calls() *Calls {
	return &Calls{Listing: a.mustListing(ActionCalls)}
}

// Conferences returns the account's conferences.
func (a *Account) Conferences() *Conferences {
	return &Conferences{Listing: a.mustListing(ActionConferences)}
}

// IncomingPhoneNumbers returns the numbers owned by the account.
func (a *Account) IncomingPhoneNumbers() *Listing {
	return a.mustListing(ActionIncomingPhoneNumbers)
}

// Notifications returns the account's error and warning log.
func (a *Account) Notifications() *Listing {
	return a.mustListing(ActionNotifications)
}

// Recordings returns every recording of the account.
func (a *Account) Recordings() *Recordings {
	return &Recordings{Listing: a.mustListing(ActionRecordings)}
}

// SmsMessages returns the SMS/Messages listing.
func (a *Account) SmsMessages() *SmsMessages {
	return &SmsMessages{Listing: a.mustListing(ActionSmsMessages)}
}

// ShortCodes returns the SMS/ShortCodes listing.
func (a *Account) ShortCodes() *Listing {
	return a.mustListing(ActionShortCodes)
}

// Transcriptions returns every transcription of the account.
func (a *Account) Transcriptions() *Listing {
	return a.mustListing(ActionTranscriptions)
}

// ConnectApps returns the account's Connect apps. The listing is read-only.
func (a *Account) ConnectApps() *Listing {
	return a.mustListing(ActionConnectApps)
}

// AuthorizedConnectApps returns the Connect apps authorized on the account. The listing is read-only.
func (a *Account) AuthorizedConnectApps() *Listing {
	return a.mustListing(ActionAuthorizedConnectApps)
}

// Sandbox returns the account's developer sandbox.
func (a *Account) Sandbox() *Instance {
	sandbox, ok := a.Subresource(ActionSandbox)
	if !ok {
		panic("twilio: account has no sandbox")
	}

	return sandbox
}

// Calls is an account's call log.
type Calls struct {
	*Listing
}

// IsApplicationSID reports whether id looks like an application SID rather
// than a URL.
func IsApplicationSID(id string) bool {
	return len(id) == constants.ApplicationSIDLength && strings.Contains(id, constants.ApplicationSIDPrefix)
}

// Create places an outbound call. urlOrApplicationSID is sent as
// ApplicationSid when it looks like one and as Url otherwise.
func (c *Calls) Create(ctx context.Context, from, to, urlOrApplicationSID string, params Params) (*Call, error) {
	required := Params{"From": from, "To": to}
	if IsApplicationSID(urlOrApplicationSID) {
		required["ApplicationSid"] = urlOrApplicationSID
	} else {
		required["Url"] = urlOrApplicationSID
	}

	instance, err := c.Listing.Create(ctx, params.withRequired(required))
	if err != nil {
		return nil, err
	}

	return &Call{Instance: instance}, nil
}

// Get returns the call sid without fetching it.
func (c *Calls) Get(sid string) *Call {
	return &Call{Instance: c.Listing.Get(sid)}
}

// Call is a single call.
type Call struct {
	*Instance
}

// Hangup ends the call.
func (c *Call) Hangup(ctx context.Context) error {
	return c.UpdateField(ctx, "Status", constants.CallStatusCompleted)
}

// Route redirects a live call to new TwiML at url.
func (c *Call) Route(ctx context.Context, url string) error {
	return c.UpdateField(ctx, "Url", url)
}

// Status returns the call status, loading the call if needed.
func (c *Call) Status(ctx context.Context) (string, error) {
	return c.String(ctx, "status")
}

// Notifications returns the notifications raised by the call.
func (c *Call) Notifications() *Listing {
	return c.mustListing(ActionNotifications)
}

// Recordings returns the recordings made during the call.
func (c *Call) Recordings() *Recordings {
	return &Recordings{Listing: c.mustListing(ActionRecordings)}
}

// SmsMessages is an account's SMS log, served under SMS/Messages.
type SmsMessages struct {
	*Listing
}

// Create sends a message.
func (s *SmsMessages) Create(ctx context.Context, from, to, body string, params Params) (*Instance, error) {
	return s.Listing.Create(ctx, params.withRequired(Params{"From": from, "To": to, "Body": body}))
}

// Applications is an account's TwiML applications.
type Applications struct {
	*Listing
}

// Create registers an application with a friendly name.
func (a *Applications) Create(ctx context.Context, name string, params Params) (*Instance, error) {
	return a.Listing.Create(ctx, params.withRequired(Params{"FriendlyName": name}))
}

// OutgoingCallerIDs is an account's verified caller IDs.
type OutgoingCallerIDs struct {
	*Listing
}

// Create starts verification of phoneNumber.
func (o *OutgoingCallerIDs) Create(ctx context.Context, phoneNumber string, params Params) (*Instance, error) {
	return o.Listing.Create(ctx, params.withRequired(Params{"PhoneNumber": phoneNumber}))
}

// Conferences is an account's conference log.
type Conferences struct {
	*Listing
}

// Get returns the conference sid without fetching it.
func (c *Conferences) Get(sid string) *Conference {
	return &Conference{Instance: c.Listing.Get(sid)}
}

// Conference is a single conference.
type Conference struct {
	*Instance
}

// Participants returns the calls connected to the conference.
func (c *Conference) Participants() *Listing {
	return c.mustListing(ActionParticipants)
}

// Recordings is a recording log, either account wide or for one call.
type Recordings struct {
	*Listing
}

// Get returns the recording sid without fetching it.
func (r *Recordings) Get(sid string) *Recording {
	return &Recording{Instance: r.Listing.Get(sid)}
}

// Recording is a single recording.
type Recording struct {
	*Instance
}

// Transcriptions returns the transcriptions of the recording.
func (r *Recording) Transcriptions() *Listing {
	return r.mustListing(ActionTranscriptions)
}

// AvailablePhoneNumbers searches numbers available for purchase.
type AvailablePhoneNumbers struct {
	*Listing
}

// NumberSearch is a number search bound to a country and number type.
type NumberSearch struct {
	numbers *AvailablePhoneNumbers
	country string
	kind    string
}

// Local binds a search for local numbers in country (ISO code, e.g. "US").
func (a *AvailablePhoneNumbers) Local(country string) *NumberSearch {
	return &NumberSearch{numbers: a, country: country, kind: constants.NumberTypeLocal}
}

// TollFree binds a search for toll free numbers in country.
func (a *AvailablePhoneNumbers) TollFree(country string) *NumberSearch {
	return &NumberSearch{numbers: a, country: country, kind: constants.NumberTypeTollFree}
}

// List runs the bound search.
func (s *NumberSearch) List(ctx context.Context, params Params) ([]Attributes, error) {
	return s.numbers.List(ctx, s.country, s.kind, params)
}

// List fetches "<uri>/<country>/<numberType>" and returns the matching
// number records.
func (a *AvailablePhoneNumbers) List(ctx context.Context, country, numberType string, params Params) ([]Attributes, error) {
	payload, err := a.client.Fetch(ctx, a.uri+"/"+country+"/"+numberType, params.Values())
	if err != nil {
		return nil, fmt.Errorf("searching %s numbers in %s: %w", numberType, country, err)
	}

	raw, _ := payload.Slice(a.kind.ItemsKey)
	numbers := make([]Attributes, 0, len(raw))

	for _, entry := range raw {
		if record, ok := entry.(map[string]any); ok {
			numbers = append(numbers, Attributes(record))
		}
	}

	return numbers, nil
}
