package twilio

import "slices"

// Page is one fetched batch of listing members. It is immutable once built.
type Page struct {
	envelope    Attributes
	items       []*Instance
	records     []Attributes
	nextPageURI string
}

// NewPage wraps a decoded envelope, its converted members and the optional
// next page URI.
func NewPage(envelope Attributes, items []*Instance, nextPageURI string) *Page {
	return &Page{
		envelope:    envelope.Clone(),
		items:       slices.Clone(items),
		nextPageURI: nextPageURI,
	}
}

// Envelope returns a copy of the decoded page, bookkeeping fields included
// (page, page_size, start, end, uri, ...).
func (p *Page) Envelope() Attributes {
	return p.envelope.Clone()
}

// Items returns the page members. They carry a URI and SID but no
// attributes.
func (p *Page) Items() []*Instance {
	return slices.Clone(p.items)
}

// Records returns the raw member representations in item order. Pages not
// built by a Listing have none.
func (p *Page) Records() []Attributes {
	return slices.Clone(p.records)
}

// Len returns the number of members.
func (p *Page) Len() int {
	return len(p.items)
}

// NextPageURI returns the server-provided link to the next page, if any.
func (p *Page) NextPageURI() string {
	return p.nextPageURI
}

// HasNextPage reports whether the server provided a next page link.
func (p *Page) HasNextPage() bool {
	return p.nextPageURI != ""
}

func (p *Page) record(index int) Attributes {
	if index < 0 || index >= len(p.records) {
		return nil
	}

	return p.records[index]
}
