package twilio

import (
	"fmt"
	"strings"
)

// Kind describes one API noun: how its URI segment is spelled, whether it is
// a collection, and which actions its instances expose.
type Kind struct {
	// Name is the canonical singular name, e.g. "SmsMessage".
	Name string
	// Collection marks a listing endpoint. Its URI segment is Name + "s".
	Collection bool
	// ItemsKey is the page envelope property holding a listing's members.
	ItemsKey string
	// ReadOnly listings reject Create without sending a request.
	ReadOnly bool
	// Member names the instance kind a listing produces. Empty means Name.
	Member string
	// Actions are the sub-resource names an instance exposes.
	Actions []string
	// Init runs once the resource URI is set: at construction for listings,
	// on first access for instances.
	Init func(r *Resource)
}

// Segment returns the URI path segment for the kind.
func (k *Kind) Segment() string {
	if k.Collection {
		return k.Name + "s"
	}

	return k.Name
}

func (k *Kind) memberKind() *Kind {
	name := k.Member
	if name == "" {
		name = k.Name
	}

	return instanceKinds[name]
}

// Kind names.
const (
	KindAccount              = "Account"
	KindApplication          = "Application"
	KindAuthorizedConnectApp = "AuthorizedConnectApp"
	KindAvailablePhoneNumber = "AvailablePhoneNumber"
	KindCall                 = "Call"
	KindConference           = "Conference"
	KindConnectApp           = "ConnectApp"
	KindIncomingPhoneNumber  = "IncomingPhoneNumber"
	KindNotification         = "Notification"
	KindOutgoingCallerID     = "OutgoingCallerId"
	KindParticipant          = "Participant"
	KindRecording            = "Recording"
	KindSandbox              = "Sandbox"
	KindShortCode            = "ShortCode"
	KindSmsMessage           = "SmsMessage"
	KindTranscription        = "Transcription"
)

// Action names, as declared by parent instances.
const (
	ActionApplications          = "applications"
	ActionAuthorizedConnectApps = "authorized_connect_apps"
	ActionAvailablePhoneNumbers = "available_phone_numbers"
	ActionCalls                 = "calls"
	ActionConferences           = "conferences"
	ActionConnectApps           = "connect_apps"
	ActionIncomingPhoneNumbers  = "incoming_phone_numbers"
	ActionNotifications         = "notifications"
	ActionOutgoingCallerIDs     = "outgoing_caller_ids"
	ActionParticipants          = "participants"
	ActionRecordings            = "recordings"
	ActionSandbox               = "sandbox"
	ActionShortCodes            = "short_codes"
	ActionSmsMessages           = "sms_messages"
	ActionTranscriptions        = "transcriptions"
)

// rewriteSegment returns an init hook replacing a generated path segment
// with the one the API actually serves.
func rewriteSegment(from, to string) func(*Resource) {
	return func(r *Resource) {
		r.uri = strings.Replace(r.uri, from, to, 1)
	}
}

var listingKinds = map[string]*Kind{
	KindAccount:              {Name: KindAccount, Collection: true, ItemsKey: "accounts"},
	KindApplication:          {Name: KindApplication, Collection: true, ItemsKey: "applications"},
	KindAuthorizedConnectApp: {Name: KindAuthorizedConnectApp, Collection: true, ItemsKey: "authorized_connect_apps", ReadOnly: true},
	KindAvailablePhoneNumber: {Name: KindAvailablePhoneNumber, Collection: true, ItemsKey: "available_phone_numbers", ReadOnly: true},
	KindCall:                 {Name: KindCall, Collection: true, ItemsKey: "calls"},
	KindConference:           {Name: KindConference, Collection: true, ItemsKey: "conferences"},
	KindConnectApp:           {Name: KindConnectApp, Collection: true, ItemsKey: "connect_apps", ReadOnly: true},
	KindIncomingPhoneNumber:  {Name: KindIncomingPhoneNumber, Collection: true, ItemsKey: "incoming_phone_numbers"},
	KindNotification:         {Name: KindNotification, Collection: true, ItemsKey: "notifications"},
	KindOutgoingCallerID:     {Name: KindOutgoingCallerID, Collection: true, ItemsKey: "outgoing_caller_ids"},
	KindParticipant:          {Name: KindParticipant, Collection: true, ItemsKey: "participants"},
	KindRecording:            {Name: KindRecording, Collection: true, ItemsKey: "recordings"},
	KindShortCode: {
		Name: KindShortCode, Collection: true, ItemsKey: "short_codes",
		Init: rewriteSegment("ShortCodes", "SMS/ShortCodes"),
	},
	KindSmsMessage: {
		Name: KindSmsMessage, Collection: true, ItemsKey: "sms_messages",
		Init: rewriteSegment("SmsMessages", "SMS/Messages"),
	},
	KindTranscription: {Name: KindTranscription, Collection: true, ItemsKey: "transcriptions"},
}

var instanceKinds = map[string]*Kind{
	KindAccount: {
		Name: KindAccount,
		Actions: []string{
			ActionApplications,
			ActionAvailablePhoneNumbers,
			ActionOutgoingCallerIDs,
			ActionCalls,
			ActionConferences,
			ActionIncomingPhoneNumbers,
			ActionNotifications,
			ActionRecordings,
			ActionSmsMessages,
			ActionShortCodes,
			ActionTranscriptions,
			ActionConnectApps,
			ActionAuthorizedConnectApps,
			ActionSandbox,
		},
	},
	KindApplication:          {Name: KindApplication},
	KindAuthorizedConnectApp: {Name: KindAuthorizedConnectApp},
	KindAvailablePhoneNumber: {Name: KindAvailablePhoneNumber},
	KindCall:                 {Name: KindCall, Actions: []string{ActionNotifications, ActionRecordings}},
	KindConference:           {Name: KindConference, Actions: []string{ActionParticipants}},
	KindConnectApp:           {Name: KindConnectApp},
	KindIncomingPhoneNumber:  {Name: KindIncomingPhoneNumber},
	KindNotification:         {Name: KindNotification},
	KindOutgoingCallerID:     {Name: KindOutgoingCallerID},
	KindParticipant:          {Name: KindParticipant},
	KindRecording:            {Name: KindRecording, Actions: []string{ActionTranscriptions}},
	KindSandbox:              {Name: KindSandbox},
	KindShortCode:            {Name: KindShortCode},
	KindSmsMessage:           {Name: KindSmsMessage},
	KindTranscription:        {Name: KindTranscription},
}

// actionKind resolves an action name. A registered collection wins over an
// instance kind of the same canonical name.
func actionKind(action string) (*Kind, bool) {
	name := canonicalName(action)
	if kind, ok := listingKinds[name]; ok {
		return kind, true
	}

	kind, ok := instanceKinds[name]

	return kind, ok
}

// ListingKind returns the registered collection kind with the given name.
func ListingKind(name string) (*Kind, bool) {
	kind, ok := listingKinds[name]

	return kind, ok
}

// InstanceKind returns the registered instance kind with the given name.
func InstanceKind(name string) (*Kind, bool) {
	kind, ok := instanceKinds[name]

	return kind, ok
}

// validateRegistry checks every declared action and member resolves, so a
// bad declaration fails when the package loads rather than on first use.
func validateRegistry() error {
	for name, kind := range listingKinds {
		if kind.Name != name || !kind.Collection || kind.ItemsKey == "" {
			return fmt.Errorf("%w: malformed listing %q", ErrUnknownKind, name)
		}

		if kind.memberKind() == nil {
			return fmt.Errorf("%w: listing %q has no member kind", ErrUnknownKind, name)
		}
	}

	for name, kind := range instanceKinds {
		if kind.Name != name || kind.Collection {
			return fmt.Errorf("%w: malformed instance %q", ErrUnknownKind, name)
		}

		for _, action := range kind.Actions {
			if _, ok := actionKind(action); !ok {
				return fmt.Errorf("%w: %q declared by %q", ErrUnknownAction, action, name)
			}
		}
	}

	return nil
}

func init() {
	err := validateRegistry()
	if err != nil {
		panic(err)
	}
}
