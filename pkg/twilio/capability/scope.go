package capability

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const scopePrefix = "scope:"

var (
	ErrNotScope       = errors.New("not a scope URI")
	ErrMalformedScope = errors.New("scope URI must have the form scope:<service>:<privilege>")
)

// Scope is a single privilege granted by a capability token.
type Scope struct {
	Service   string
	Privilege string
	Params    url.Values
}

// NewScope creates a scope. params may be nil.
func NewScope(service, privilege string, params url.Values) Scope {
	return Scope{Service: service, Privilege: privilege, Params: params}
}

// String renders the scope URI. Params are encoded in key order.
func (s Scope) String() string {
	uri := scopePrefix + s.Service + ":" + s.Privilege
	if len(s.Params) > 0 {
		uri += "?" + s.Params.Encode()
	}

	return uri
}

// ParseScope parses a scope URI.
func ParseScope(uri string) (Scope, error) {
	rest, ok := strings.CutPrefix(uri, scopePrefix)
	if !ok {
		return Scope{}, fmt.Errorf("%w: %q", ErrNotScope, uri)
	}

	rest, query, _ := strings.Cut(rest, "?")

	parts := strings.Split(rest, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Scope{}, fmt.Errorf("%w: %q", ErrMalformedScope, uri)
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return Scope{}, fmt.Errorf("parsing scope params of %q: %w", uri, err)
	}

	if len(params) == 0 {
		params = nil
	}

	return NewScope(parts[0], parts[1], params), nil
}

func (s Scope) clone() Scope {
	if s.Params == nil {
		return s
	}

	params := make(url.Values, len(s.Params))
	for key, values := range s.Params {
		params[key] = append([]string(nil), values...)
	}

	s.Params = params

	return s
}
