// Package twilio provides a lazy object model over the Twilio REST API.
//
// # Overview
//
// Remote resources are represented by two kinds of node. An Instance is one
// addressable entity (an account, a call, a message) whose attributes are
// fetched on first access. A Listing is a collection endpoint that can look up
// a member by SID without a round trip, create and delete members, and fetch
// pages of members. Each node knows the named sub-resources ("actions") it
// exposes, e.g. an account's calls or a call's recordings.
//
// Most consumers should construct a client with the twilioclient package and
// start from the account it returns:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/twilio-client/pkg/twilio"
//	  "github.com/fivetwenty-io/twilio-client/pkg/twilioclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := twilioclient.New(ctx, &twilio.Config{AccountSID: "AC...", AuthToken: "..."})
//	  if err != nil { log.Fatal(err) }
//
//	  call, err := cli.Account().Calls().Create(ctx, "+15005550006", "+14108675310", "http://example.com/voice", nil)
//	  if err != nil { log.Fatal(err) }
//
//	  status, err := call.Status(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = status
//	}
//
// # Lazy attributes
//
// Instance.Get returns a registered action when the name matches one, and
// otherwise an attribute value. A missing attribute triggers a fetch of the
// entity's own URI and every field of the response is merged into the local
// attribute set, so later reads of any of those fields are served locally.
// Update writes through: the server's post-write representation replaces the
// local values.
//
// # Pagination
//
// Listing.Paginator returns a restartable sequence over the listing's pages:
//
//	p := cli.Account().Calls().Paginator(0, twilio.DefaultPageSize, twilio.Filters{"Status": "completed"})
//	for call, err := range p.Items(ctx) {
//	  if err != nil { break }
//	  _ = call
//	}
//
// A page request answered with error code 20006 (page out of range) ends the
// sequence. Every other error is returned to the caller unchanged. Rewind
// restores the initial page, size and filters so the same Paginator can be
// traversed again; each traversal re-issues its requests.
//
// # Errors
//
// API failures are returned as *APIError. Helpers such as IsNotFound and
// IsPageOutOfRange branch on common cases. Malformed responses wrap
// ErrBadResponse, and creating members of a read-only listing returns
// ErrCreateNotAllowed without sending a request.
//
// # Concurrency
//
// Instances, Listings and Paginators are not safe for concurrent use. The
// Requester they share may be used from many goroutines.
package twilio
