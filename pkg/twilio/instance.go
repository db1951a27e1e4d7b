package twilio

import (
	"context"
	"fmt"
)

// IdentifierKey is the representation field holding a resource SID.
const IdentifierKey = "sid"

// Instance is one addressable entity. Attributes are fetched from the
// instance URI the first time a missing one is requested.
type Instance struct {
	Resource

	identifier  string
	attributes  Attributes
	initialized bool
}

func newInstance(kind *Kind, client Requester, logger Logger) *Instance {
	return &Instance{
		Resource:   newResource(kind, client, logger),
		attributes: Attributes{},
	}
}

// NewInstance builds an unloaded instance of a registered kind at uri.
func NewInstance(client Requester, kindName, uri string, logger Logger) (*Instance, error) {
	kind, ok := InstanceKind(kindName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kindName)
	}

	instance := newInstance(kind, client, logger)
	instance.SetURI(uri, "")

	return instance, nil
}

// SID returns the identifier the instance was looked up or created with,
// falling back to a loaded "sid" attribute.
func (i *Instance) SID() string {
	if i.identifier != "" {
		return i.identifier
	}

	sid, _ := i.attributes.String(IdentifierKey)

	return sid
}

// Loaded reports whether name is present locally. It never fetches.
func (i *Instance) Loaded(name string) bool {
	return i.attributes.Has(name)
}

// Attributes returns a copy of the locally held attributes.
func (i *Instance) Attributes() Attributes {
	return i.attributes.Clone()
}

// Actions returns the instance's sub-resources keyed by action name.
func (i *Instance) Actions() map[string]Node {
	i.initialize()

	return i.actionMap()
}

// Action returns the named sub-resource.
func (i *Instance) Action(name string) (Node, bool) {
	i.initialize()

	return i.action(name)
}

// Get resolves name to a sub-resource or an attribute value. Actions take
// priority over attributes of the same name. A missing attribute triggers a
// fetch of the instance URI whose fields are all merged locally; if the
// response lacks name, ErrAttributeNotFound is returned.
func (i *Instance) Get(ctx context.Context, name string) (any, error) {
	i.initialize()

	if node, ok := i.action(name); ok {
		return node, nil
	}

	if !i.attributes.Has(name) {
		i.logger.Debug("Loading instance", map[string]interface{}{
			"uri":       i.uri,
			"attribute": name,
		})

		err := i.Load(ctx)
		if err != nil {
			return nil, err
		}
	}

	value, ok := i.attributes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrAttributeNotFound, name, i.uri)
	}

	return value, nil
}

// String returns the named attribute as a string.
func (i *Instance) String(ctx context.Context, name string) (string, error) {
	_, err := i.Get(ctx, name)
	if err != nil {
		return "", err
	}

	value, ok := i.attributes.String(name)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrUnexpectedType, name)
	}

	return value, nil
}

// Int returns the named attribute as an int.
func (i *Instance) Int(ctx context.Context, name string) (int, error) {
	_, err := i.Get(ctx, name)
	if err != nil {
		return 0, err
	}

	value, ok := i.attributes.Int(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrUnexpectedType, name)
	}

	return value, nil
}

// Bool returns the named attribute as a bool.
func (i *Instance) Bool(ctx context.Context, name string) (bool, error) {
	_, err := i.Get(ctx, name)
	if err != nil {
		return false, err
	}

	value, ok := i.attributes.Bool(name)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a boolean", ErrUnexpectedType, name)
	}

	return value, nil
}

// Load fetches the instance URI and merges the representation into the
// local attributes, overwriting existing values.
func (i *Instance) Load(ctx context.Context) error {
	payload, err := i.client.Fetch(ctx, i.uri, nil)
	if err != nil {
		return fmt.Errorf("loading %s: %w", i.uri, err)
	}

	i.attributes.merge(payload)

	return nil
}

// Update writes params to the instance URI and merges the server's post-write
// representation into the local attributes.
func (i *Instance) Update(ctx context.Context, params Params) error {
	payload, err := i.client.Write(ctx, i.uri, params.Values())
	if err != nil {
		return fmt.Errorf("updating %s: %w", i.uri, err)
	}

	i.attributes.merge(payload)

	return nil
}

// UpdateField writes a single field.
func (i *Instance) UpdateField(ctx context.Context, name, value string) error {
	return i.Update(ctx, Params{name: value})
}

// Listing returns the named sub-resource as a listing.
func (i *Instance) Listing(name string) (*Listing, bool) {
	node, ok := i.Action(name)
	if !ok {
		return nil, false
	}

	listing, ok := node.(*Listing)

	return listing, ok
}

// Subresource returns the named sub-resource as an instance.
func (i *Instance) Subresource(name string) (*Instance, bool) {
	node, ok := i.Action(name)
	if !ok {
		return nil, false
	}

	instance, ok := node.(*Instance)

	return instance, ok
}

// mustListing is used by typed wrappers whose actions are fixed by the
// registry.
func (i *Instance) mustListing(name string) *Listing {
	listing, ok := i.Listing(name)
	if !ok {
		panic(fmt.Sprintf("twilio: %s has no listing %q", i.kind.Name, name))
	}

	return listing
}

func (i *Instance) initialize() {
	if i.initialized {
		return
	}

	i.setupActions(i.kind.Actions...)

	if i.kind.Init != nil {
		i.kind.Init(&i.Resource)
	}

	i.initialized = true
}
