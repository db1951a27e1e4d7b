package capability

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when GenerateToken gets a
// non-positive ttl.
const DefaultTTL = time.Hour

// Services and privileges understood by Twilio Client.
const (
	ServiceClient      = "client"
	ServiceStream      = "stream"
	PrivilegeIncoming  = "incoming"
	PrivilegeOutgoing  = "outgoing"
	PrivilegeSubscribe = "subscribe"
)

var (
	ErrInvalidClientName = errors.New("client name must be a non-empty alphanumeric string")
	ErrInvalidToken      = errors.New("invalid capability token")
)

var clientNamePattern = regexp.MustCompile(`^\w+$`)

// Claims is the payload of a capability token.
type Claims struct {
	jwt.RegisteredClaims
	// Scope lists the granted scope URIs separated by spaces.
	Scope string `json:"scope"`
}

// Scopes parses the granted scopes.
func (c *Claims) Scopes() ([]Scope, error) {
	fields := strings.Fields(c.Scope)
	scopes := make([]Scope, 0, len(fields))

	for _, field := range fields {
		scope, err := ParseScope(field)
		if err != nil {
			return nil, err
		}

		scopes = append(scopes, scope)
	}

	return scopes, nil
}

// Capability accumulates scopes for one account and signs them into tokens.
// It starts with no permissions.
type Capability struct {
	accountSID string
	authToken  string
	clientName string
	scopes     []Scope
	now        func() time.Time
}

// New creates a capability for accountSID, signed with authToken.
func New(accountSID, authToken string) *Capability {
	return &Capability{
		accountSID: accountSID,
		authToken:  authToken,
		now:        time.Now,
	}
}

// AllowClientIncoming lets the token holder accept incoming connections as
// client name. Outgoing scopes are tagged with the same name.
func (c *Capability) AllowClientIncoming(name string) error {
	if !clientNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidClientName, name)
	}

	c.clientName = name
	c.allow(ServiceClient, PrivilegeIncoming, url.Values{"clientName": {name}})

	return nil
}

// AllowClientOutgoing lets the token holder make outgoing connections
// through applicationSID. params are signed and cannot be overridden by the
// client.
func (c *Capability) AllowClientOutgoing(applicationSID string, params url.Values) {
	c.allow(ServiceClient, PrivilegeOutgoing, url.Values{
		"appSid":    {applicationSID},
		"appParams": {params.Encode()},
	})
}

// AllowEventStream lets the token holder subscribe to the account's event
// stream, narrowed by filters.
func (c *Capability) AllowEventStream(filters url.Values) {
	c.allow(ServiceStream, PrivilegeSubscribe, url.Values{
		"path":   {"/" + constants.APIVersion2010 + "/Events"},
		"params": {filters.Encode()},
	})
}

// Scopes returns the scopes granted so far, as they will be signed.
func (c *Capability) Scopes() []Scope {
	scopes := make([]Scope, 0, len(c.scopes))

	for _, scope := range c.scopes {
		scope = scope.clone()
		if scope.Privilege == PrivilegeOutgoing && c.clientName != "" {
			scope.Params.Set("clientName", c.clientName)
		}

		scopes = append(scopes, scope)
	}

	return scopes
}

// GenerateToken signs the granted scopes into a token valid for ttl.
func (c *Capability) GenerateToken(ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	scopes := c.Scopes()
	uris := make([]string, 0, len(scopes))

	for _, scope := range scopes {
		uris = append(uris, scope.String())
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.accountSID,
			ExpiresAt: jwt.NewNumericDate(c.now().Add(ttl)),
		},
		Scope: strings.Join(uris, " "),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.authToken))
	if err != nil {
		return "", fmt.Errorf("failed to sign capability token: %w", err)
	}

	return signed, nil
}

func (c *Capability) allow(service, privilege string, params url.Values) {
	c.scopes = append(c.scopes, NewScope(service, privilege, params))
}

// ParseToken verifies a token signed with authToken and returns its claims.
func ParseToken(token, authToken string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(authToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
