package twilio

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
)

// DefaultPageSize is the page size used when none is given.
const DefaultPageSize = constants.DefaultPageSize

// Page and size query parameter names.
const (
	pageParam     = "Page"
	pageSizeParam = "PageSize"
	nextPageKey   = "next_page_uri"
)

// Listing is a collection endpoint producing instances of one kind.
type Listing struct {
	Resource
}

func newListing(kind *Kind, client Requester, logger Logger) *Listing {
	return &Listing{Resource: newResource(kind, client, logger)}
}

// NewListing builds a registered collection kind at uri. The root Accounts
// listing is built this way.
func NewListing(client Requester, kindName, uri string, logger Logger) (*Listing, error) {
	kind, ok := ListingKind(kindName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kindName)
	}

	listing := newListing(kind, client, logger)
	listing.SetURI(uri, "")

	return listing, nil
}

// Get returns the member with the given SID. No request is made; the
// instance loads itself on first attribute access.
func (l *Listing) Get(sid string) *Instance {
	return l.member(sid)
}

// Create posts params to the collection and returns the new member,
// populated with the server's representation.
func (l *Listing) Create(ctx context.Context, params Params) (*Instance, error) {
	if l.kind.ReadOnly {
		return nil, fmt.Errorf("%w: %s", ErrCreateNotAllowed, l.kind.Segment())
	}

	payload, err := l.client.Write(ctx, l.uri, params.Values())
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", l.kind.Name, err)
	}

	sid, _ := payload.String(IdentifierKey)

	instance := l.member(sid)
	instance.attributes.merge(payload)

	return instance, nil
}

// Delete removes the member with the given SID.
func (l *Listing) Delete(ctx context.Context, sid string, params Params) error {
	_, err := l.client.Remove(ctx, l.uri+"/"+sid, params.Values())
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", l.kind.Name, sid, err)
	}

	return nil
}

// GetPage fetches one page of members. When nextPageURI is set it is
// requested verbatim and page, size and filters are ignored.
func (l *Listing) GetPage(ctx context.Context, page, size int, filters Filters, nextPageURI string) (*Page, error) {
	var (
		payload Attributes
		err     error
	)

	l.logger.Debug("Fetching page", map[string]interface{}{
		"uri":           l.uri,
		"page":          page,
		"page_size":     size,
		"next_page_uri": nextPageURI,
	})

	if nextPageURI != "" {
		payload, err = l.client.FetchURI(ctx, nextPageURI)
	} else {
		query := filters.Values()
		query.Set(pageParam, strconv.Itoa(page))
		query.Set(pageSizeParam, strconv.Itoa(size))

		payload, err = l.client.Fetch(ctx, l.uri, query)
	}

	if err != nil {
		return nil, fmt.Errorf("fetching %s page: %w", l.kind.Name, err)
	}

	return l.newPage(payload)
}

// Paginator returns a sequence over every member starting at page.
func (l *Listing) Paginator(page, size int, filters Filters) *Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}

	paginator := NewPaginator(l.GetPage, page, size, filters)
	paginator.logger = l.logger

	return paginator
}

func (l *Listing) newPage(payload Attributes) (*Page, error) {
	raw, ok := payload[l.kind.ItemsKey]
	if !ok {
		return nil, fmt.Errorf("%w: page envelope has no %q list", ErrBadResponse, l.kind.ItemsKey)
	}

	list, ok := raw.([]any)
	if !ok && raw != nil {
		return nil, fmt.Errorf("%w: %q is not a list", ErrBadResponse, l.kind.ItemsKey)
	}

	items := make([]*Instance, 0, len(list))
	records := make([]Attributes, 0, len(list))

	for _, entry := range list {
		record, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q entry is not an object", ErrBadResponse, l.kind.ItemsKey)
		}

		sid, _ := Attributes(record).String(IdentifierKey)
		items = append(items, l.member(sid))
		records = append(records, Attributes(record))
	}

	nextPageURI, _ := payload.String(nextPageKey)

	page := NewPage(payload, items, nextPageURI)
	page.records = records

	return page, nil
}

// member builds an unloaded member at uri/sid, or at the collection URI when
// sid is empty.
func (l *Listing) member(sid string) *Instance {
	instance := newInstance(l.kind.memberKind(), l.client, l.logger)
	instance.SetURI(l.uri, sid)
	instance.identifier = sid

	return instance
}
