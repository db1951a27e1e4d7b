package twilio

import (
	"fmt"
	"maps"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
)

// Node is any URI-addressable resource: a *Listing or an *Instance.
type Node interface {
	URI() string
	Kind() *Kind
}

// Resource is the state shared by listings and instances: a URI, the
// requester used for round trips, and the named sub-resources (actions)
// hanging off it.
type Resource struct {
	uri     string
	kind    *Kind
	client  Requester
	logger  Logger
	actions map[string]Node
}

func newResource(kind *Kind, client Requester, logger Logger) Resource {
	return Resource{
		kind:    kind,
		client:  client,
		logger:  loggerOrNop(logger),
		actions: make(map[string]Node),
	}
}

// URI returns the resource URI without the ".json" suffix.
func (r *Resource) URI() string {
	return r.uri
}

// SetURI sets the resource URI, appending "/"+segment when segment is not
// empty.
func (r *Resource) SetURI(uri, segment string) {
	r.uri = uri
	if segment != "" {
		r.uri += "/" + segment
	}
}

// Kind returns the descriptor this resource was built from.
func (r *Resource) Kind() *Kind {
	return r.kind
}

// Requester returns the facade shared by the resource tree.
func (r *Resource) Requester() Requester {
	return r.client
}

func (r *Resource) action(name string) (Node, bool) {
	node, ok := r.actions[name]

	return node, ok
}

func (r *Resource) actionMap() map[string]Node {
	return maps.Clone(r.actions)
}

// setupActions builds one child per action name. The registry is validated
// at package init, so an unresolvable name here is a programming error.
func (r *Resource) setupActions(names ...string) {
	for _, action := range names {
		kind, ok := actionKind(action)
		if !ok {
			panic(fmt.Sprintf("twilio: %v: %q", ErrUnknownAction, action))
		}

		r.actions[action] = r.newChild(kind)
	}
}

// newChild builds the node for kind below r. Collections get the plural
// segment and run their init hook once the URI is set.
func (r *Resource) newChild(kind *Kind) Node {
	parent := strings.ReplaceAll(r.uri, constants.JSONSuffix, "")

	if kind.Collection {
		listing := newListing(kind, r.client, r.logger)
		listing.SetURI(parent, kind.Segment())

		if kind.Init != nil {
			kind.Init(&listing.Resource)
		}

		return listing
	}

	instance := newInstance(kind, r.client, r.logger)
	instance.SetURI(parent, kind.Segment())

	return instance
}

// canonicalName turns an action name such as "sms_messages" into the
// registry name "SmsMessage": trailing "s" dropped, words capitalised,
// separators removed.
func canonicalName(action string) string {
	name := strings.TrimRight(action, "s")
	name = strings.ReplaceAll(name, "_", " ")
	name = cases.Title(language.Und, cases.NoLower).String(name)

	return strings.ReplaceAll(name, " ", "")
}
