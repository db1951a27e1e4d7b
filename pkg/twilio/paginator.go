package twilio

import (
	"context"
	"iter"
)

// PageFunc fetches one page. Listing.GetPage has this signature.
type PageFunc func(ctx context.Context, page, size int, filters Filters, nextPageURI string) (*Page, error)

// PaginatorState is the position of a Paginator in its traversal.
type PaginatorState int

const (
	// StateEmpty means no page has been loaded since construction or Rewind.
	StateEmpty PaginatorState = iota
	// StateBuffered means a page is loaded and the cursor may address an item.
	StateBuffered
	// StateExhausted is terminal until Rewind.
	StateExhausted
)

// String returns the state name.
func (s PaginatorState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuffered:
		return "buffered"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

type paginatorSnapshot struct {
	page    int
	size    int
	filters Filters
}

// Paginator is a lazy, restartable sequence over the members of a listing.
// It requests successive pages through a PageFunc, following the server's
// next page link once one is known. A page request rejected with code 20006
// ends the sequence; every other error is returned unchanged.
type Paginator struct {
	fetch   PageFunc
	logger  Logger
	page    int
	size    int
	filters Filters

	current     *Page
	cursor      int
	nextPageURI string
	state       PaginatorState

	snapshot paginatorSnapshot
}

// NewPaginator returns a paginator starting at page with the given size and
// filters. The starting values are restored by Rewind.
func NewPaginator(fetch PageFunc, page, size int, filters Filters) *Paginator {
	return &Paginator{
		fetch:   fetch,
		logger:  NopLogger{},
		page:    page,
		size:    size,
		filters: filters.clone(),
		snapshot: paginatorSnapshot{
			page:    page,
			size:    size,
			filters: filters.clone(),
		},
	}
}

// State returns the current traversal state.
func (p *Paginator) State() PaginatorState {
	return p.state
}

// Valid loads the next page if the current one is drained and reports
// whether the cursor addresses an item.
func (p *Paginator) Valid(ctx context.Context) (bool, error) {
	err := p.load(ctx)
	if err != nil {
		return false, err
	}

	return p.positioned(), nil
}

// Current returns the item under the cursor, or nil when there is none.
// Call Valid first.
func (p *Paginator) Current() *Instance {
	if !p.positioned() {
		return nil
	}

	return p.current.items[p.cursor]
}

// Record returns the raw representation of the item under the cursor.
func (p *Paginator) Record() Attributes {
	if !p.positioned() {
		return nil
	}

	return p.current.record(p.cursor)
}

// Advance moves the cursor forward, loading the next page when the current
// one is drained.
func (p *Paginator) Advance(ctx context.Context) error {
	if p.positioned() {
		p.cursor++
	}

	return p.load(ctx)
}

// Next returns the next item, or ErrNoMoreItems once the sequence ends.
func (p *Paginator) Next(ctx context.Context) (*Instance, error) {
	ok, err := p.Valid(ctx)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrNoMoreItems
	}

	item := p.Current()
	p.cursor++

	return item, nil
}

// ForEach calls fn for every remaining item, stopping at the first error.
func (p *Paginator) ForEach(ctx context.Context, fn func(*Instance) error) error {
	for {
		ok, err := p.Valid(ctx)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		err = fn(p.Current())
		if err != nil {
			return err
		}

		p.cursor++
	}
}

// All collects every remaining item.
func (p *Paginator) All(ctx context.Context) ([]*Instance, error) {
	var items []*Instance

	err := p.ForEach(ctx, func(item *Instance) error {
		items = append(items, item)

		return nil
	})
	if err != nil {
		return items, err
	}

	return items, nil
}

// Items returns the remaining items as a range-over-func sequence. A failed
// page request is yielded once as a nil item with the error, ending the
// sequence.
func (p *Paginator) Items(ctx context.Context) iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		for {
			ok, err := p.Valid(ctx)
			if err != nil {
				yield(nil, err)

				return
			}

			if !ok {
				return
			}

			item := p.Current()
			p.cursor++

			if !yield(item, nil) {
				return
			}
		}
	}
}

// Rewind restores the starting page, size and filters and drops any
// buffered page, so the next access re-issues the first request.
func (p *Paginator) Rewind() {
	p.page = p.snapshot.page
	p.size = p.snapshot.size
	p.filters = p.snapshot.filters.clone()
	p.current = nil
	p.cursor = 0
	p.nextPageURI = ""
	p.state = StateEmpty
}

// Count is not supported: the total is only known after consuming the whole
// remote sequence.
func (p *Paginator) Count() (int, error) {
	return 0, ErrCountNotSupported
}

func (p *Paginator) positioned() bool {
	return p.state == StateBuffered && p.current != nil && p.cursor < len(p.current.items)
}

// load fetches the next page when nothing is buffered or the buffer is
// drained. An empty page or a 20006 rejection exhausts the paginator.
func (p *Paginator) load(ctx context.Context) error {
	if p.state == StateExhausted || p.positioned() {
		return nil
	}

	page, err := p.fetch(ctx, p.page, p.size, p.filters, p.nextPageURI)
	if err != nil {
		if IsPageOutOfRange(err) {
			p.logger.Debug("Pagination range exceeded", map[string]interface{}{
				"page":      p.page,
				"page_size": p.size,
			})
			p.exhaust()

			return nil
		}

		return err
	}

	p.current = page
	p.cursor = 0
	p.nextPageURI = page.NextPageURI()
	p.page++

	if page.Len() == 0 {
		p.exhaust()

		return nil
	}

	p.state = StateBuffered

	return nil
}

func (p *Paginator) exhaust() {
	p.current = nil
	p.cursor = 0
	p.state = StateExhausted
}
