// Package capability signs Twilio Client capability tokens.
//
// A capability token is an HS256 JWT, signed with the account's auth token,
// that grants a browser or mobile client a set of scopes:
//
//	grant := capability.New(accountSID, authToken)
//	if err := grant.AllowClientIncoming("alice"); err != nil {
//		return err
//	}
//	grant.AllowClientOutgoing(applicationSID, nil)
//
//	token, err := grant.GenerateToken(time.Hour)
//
// Each scope renders as "scope:<service>:<privilege>?<params>".
package capability
