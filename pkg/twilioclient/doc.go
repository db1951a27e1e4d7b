// Package twilioclient provides the primary entry point for constructing a
// Twilio REST API client.
//
// It layers configuration and the HTTP transport on top of the lazily loaded
// resource graph defined in the twilio package. Most applications build a
// client here, then walk the graph from Account():
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
//
//	  cli, err := twilioclient.New(ctx, &twilio.Config{
//	    AccountSID: "AC...",
//	    AuthToken:  "...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  account := cli.Account()
//
//	  // Attribute reads fetch the account once.
//	  name, err := account.String(ctx, "friendly_name")
//	  if err != nil { log.Fatal(err) }
//	  log.Println(name)
//
//	  // Walk the call log 50 calls at a time.
//	  err = account.Calls().Paginator(0, 50, twilio.Filters{"Status": "completed"}).
//	    ForEach(ctx, func(call *twilio.Instance) error {
//	      log.Println(call.SID())
//	      return nil
//	    })
//	  if err != nil { log.Fatal(err) }
//	}
//
// # Versions
//
// Config.APIVersion selects "2008-08-01" or "2010-04-01". Any other value
// resolves to the latest, see ResolveVersion.
//
// # Testing
//
// Point Config.BaseURL at a local server. A host without a scheme is taken as
// https.
package twilioclient
