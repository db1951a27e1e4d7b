// Package twiliotest runs an in-memory Twilio REST API for tests.
//
// The server stores every collection generically, keyed by its path below
// the API version (e.g. "Accounts/AC.../Calls"), so any resource the client
// can address is served: listings page with Page/PageSize, members are read
// and updated by SID, and creates mint SIDs with the usual two-letter prefix.
package twiliotest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Default credentials the server accepts.
const (
	AccountSID = "AC00000000000000000000000000000001"
	AuthToken  = "test-auth-token"
)

// Error codes returned by the server.
const (
	CodeAuthenticate     = 20003
	CodeMethodNotAllowed = 20004
	CodePageOutOfRange   = 20006
	CodeNotFound         = 20404
	CodeMissingURL       = 21205
	CodeMissingBody      = 21602
	CodeMissingFrom      = 21603
	CodeMissingTo        = 21604
)

const (
	defaultPageSize = 50
	sidLength       = 34
	jsonSuffix      = ".json"
	contentTypeJSON = "application/json; charset=utf-8"
)

var supportedVersions = map[string]bool{
	"2008-08-01": true,
	"2010-04-01": true,
}

// readOnlyCollections reject POST on the collection itself.
var readOnlyCollections = []string{"AvailablePhoneNumbers", "ConnectApps", "AuthorizedConnectApps"}

var sidPrefixes = map[string]string{
	"Accounts":             "AC",
	"Applications":         "AP",
	"Calls":                "CA",
	"Conferences":          "CF",
	"IncomingPhoneNumbers": "PN",
	"Messages":             "SM",
	"Notifications":        "NO",
	"OutgoingCallerIds":    "PN",
	"Participants":         "CA",
	"Recordings":           "RE",
	"ShortCodes":           "SC",
	"Transcriptions":       "TR",
}

// Record is one stored resource representation.
type Record = map[string]any

// Server is a fake Twilio API backed by httptest.Server.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	version     string
	collections map[string][]Record
	singletons  map[string]Record
	requests    []string
	sequence    int
	now         func() time.Time
}

// NewServer starts a server seeded with the AccountSID account and its
// sandbox. It is closed when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		version:     "2010-04-01",
		collections: make(map[string][]Record),
		singletons:  make(map[string]Record),
		now:         func() time.Time { return time.Date(2011, time.July, 5, 12, 0, 0, 0, time.UTC) },
	}

	s.collections["Accounts"] = []Record{s.newRecord("Accounts", AccountSID, Record{
		"friendly_name": "Test Account",
		"status":        "active",
		"type":          "Full",
	})}
	s.singletons[accountPath(AccountSID, "Sandbox")] = Record{
		"pin":          "12345678",
		"account_sid":  AccountSID,
		"phone_number": "+14155992671",
		"voice_url":    "http://demo.twilio.com/welcome",
		"voice_method": "POST",
	}

	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)

	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.recordRequest)

	r.Route("/{Version}", func(r chi.Router) {
		r.Use(s.versionMiddleware)
		r.Use(s.basicAuthMiddleware)

		r.Get("/*", s.handleGet)
		r.Post("/*", s.handlePost)
		r.Delete("/*", s.handleDelete)
	})

	return r
}

// Seed appends records to a collection of the default account, e.g.
// Seed("Calls", ...) or Seed("Conferences/CF.../Participants", ...).
// Records without a "sid" get a generated one. It returns the stored SIDs.
func (s *Server) Seed(collection string, records ...Record) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := accountPath(AccountSID, collection)
	sids := make([]string, 0, len(records))

	for _, fields := range records {
		sid, _ := fields["sid"].(string)
		if sid == "" {
			sid = s.nextSID(path)
		}

		s.collections[path] = append(s.collections[path], s.newRecord(path, sid, fields))
		sids = append(sids, sid)
	}

	return sids
}

// Records returns a copy of a collection of the default account.
func (s *Server) Records(collection string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.collections[accountPath(AccountSID, collection)]
	records := make([]Record, 0, len(stored))

	for _, record := range stored {
		records = append(records, cloneRecord(record))
	}

	return records
}

// Requests returns every request received, as "METHOD path?query".
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests...)
}

func (s *Server) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}

		s.mu.Lock()
		s.requests = append(s.requests, entry)
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !supportedVersions[chi.URLParam(r, "Version")] {
			writeError(w, http.StatusNotFound, CodeNotFound, "The requested resource "+r.URL.Path+" was not found")

			return
		}

		next.ServeHTTP(w, r)
	})
}

// basicAuthMiddleware accepts any stored account SID with AuthToken.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || pass != AuthToken || !s.hasAccount(user) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Twilio API"`)
			writeError(w, http.StatusUnauthorized, CodeAuthenticate, "Authenticate")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) hasAccount(sid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.find("Accounts", sid)

	return found >= 0
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	path, ok := resourcePath(r)
	if !ok {
		writeNotFound(w, r)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if singleton, found := s.singletons[path]; found {
		writeJSON(w, http.StatusOK, singleton)

		return
	}

	collection, sid := splitPath(path)
	if looksLikeSID(sid) {
		record, index := s.find(collection, sid)
		if index < 0 {
			writeNotFound(w, r)

			return
		}

		writeJSON(w, http.StatusOK, record)

		return
	}

	s.writePage(w, r, path)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	path, ok := resourcePath(r)
	if !ok {
		writeNotFound(w, r)

		return
	}

	err := r.ParseForm()
	if err != nil {
		writeError(w, http.StatusBadRequest, 0, "Unable to parse form data: "+err.Error())

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if singleton, found := s.singletons[path]; found {
		mergeForm(singleton, r.PostForm)
		writeJSON(w, http.StatusOK, singleton)

		return
	}

	collection, sid := splitPath(path)
	if looksLikeSID(sid) {
		record, index := s.find(collection, sid)
		if index < 0 {
			writeNotFound(w, r)

			return
		}

		mergeForm(record, r.PostForm)
		record["date_updated"] = s.timestamp()
		writeJSON(w, http.StatusOK, record)

		return
	}

	s.create(w, path, r.PostForm)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	path, ok := resourcePath(r)
	if !ok {
		writeNotFound(w, r)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, sid := splitPath(path)

	_, index := s.find(collection, sid)
	if index < 0 {
		writeNotFound(w, r)

		return
	}

	records := s.collections[collection]
	s.collections[collection] = append(records[:index:index], records[index+1:]...)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) create(w http.ResponseWriter, path string, form url.Values) {
	name := lastSegment(path)

	for _, readOnly := range readOnlyCollections {
		if strings.Contains(path, readOnly) {
			writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")

			return
		}
	}

	status, code, message := validateCreate(name, form)
	if code != 0 {
		writeError(w, status, code, message)

		return
	}

	fields := Record{}
	mergeForm(fields, form)

	switch name {
	case "Calls":
		fields["status"] = "queued"
		fields["direction"] = "outbound-api"
	case "Messages":
		fields["status"] = "queued"
		fields["direction"] = "outbound-api"
	case "Accounts":
		fields["status"] = "active"
		fields["type"] = "Full"
	}

	record := s.newRecord(path, s.nextSID(path), fields)
	s.collections[path] = append(s.collections[path], record)

	writeJSON(w, http.StatusCreated, record)
}

func validateCreate(name string, form url.Values) (int, int, string) {
	switch name {
	case "Calls":
		switch {
		case form.Get("To") == "":
			return http.StatusBadRequest, CodeMissingTo, "A 'To' phone number is required."
		case form.Get("From") == "":
			return http.StatusBadRequest, CodeMissingFrom, "A 'From' phone number is required."
		case form.Get("Url") == "" && form.Get("ApplicationSid") == "":
			return http.StatusBadRequest, CodeMissingURL, "A 'Url' or 'ApplicationSid' is required."
		}
	case "Messages":
		switch {
		case form.Get("To") == "":
			return http.StatusBadRequest, CodeMissingTo, "A 'To' phone number is required."
		case form.Get("From") == "":
			return http.StatusBadRequest, CodeMissingFrom, "A 'From' phone number is required."
		case form.Get("Body") == "":
			return http.StatusBadRequest, CodeMissingBody, "Message body is required."
		}
	}

	return 0, 0, ""
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, path string) {
	query := r.URL.Query()

	page, err := intParam(query, "Page", 0)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, 0, "Page must be a non-negative integer")

		return
	}

	size, err := intParam(query, "PageSize", defaultPageSize)
	if err != nil || size <= 0 {
		writeError(w, http.StatusBadRequest, 0, "PageSize must be a positive integer")

		return
	}

	filters := url.Values{}

	for key, values := range query {
		if key == "Page" || key == "PageSize" || strings.ContainsAny(key, "<>") {
			continue
		}

		filters[key] = values
	}

	version := chi.URLParam(r, "Version")
	matched := make([]Record, 0)

	for _, record := range s.collections[path] {
		if matches(record, filters) {
			matched = append(matched, record)
		}
	}

	start := page * size
	if page > 0 && start >= len(matched) {
		writeError(w, http.StatusBadRequest, CodePageOutOfRange, "Page out of range")

		return
	}

	end := min(start+size, len(matched))
	items := matched[start:end]

	envelope := Record{
		itemsKey(path):      items,
		"page":              page,
		"page_size":         size,
		"start":             start,
		"end":               max(end-1, start),
		"total":             len(matched),
		"uri":               pageURI(version, path, page, size, filters),
		"first_page_uri":    pageURI(version, path, 0, size, filters),
		"next_page_uri":     nil,
		"previous_page_uri": nil,
	}

	if end < len(matched) {
		envelope["next_page_uri"] = pageURI(version, path, page+1, size, filters)
	}

	if page > 0 {
		envelope["previous_page_uri"] = pageURI(version, path, page-1, size, filters)
	}

	writeJSON(w, http.StatusOK, envelope)
}

func pageURI(version, path string, page, size int, filters url.Values) string {
	query := url.Values{}
	for key, values := range filters {
		query[key] = values
	}

	query.Set("Page", strconv.Itoa(page))
	query.Set("PageSize", strconv.Itoa(size))

	return "/" + version + "/" + path + jsonSuffix + "?" + query.Encode()
}

func (s *Server) find(collection, sid string) (Record, int) {
	for i, record := range s.collections[collection] {
		if record["sid"] == sid {
			return record, i
		}
	}

	return nil, -1
}

func (s *Server) newRecord(collection, sid string, fields Record) Record {
	record := cloneRecord(fields)
	record["sid"] = sid
	record["uri"] = "/" + s.version + "/" + collection + "/" + sid + jsonSuffix

	if _, ok := record["date_created"]; !ok {
		record["date_created"] = s.timestamp()
	}

	if _, ok := record["date_updated"]; !ok {
		record["date_updated"] = record["date_created"]
	}

	if _, ok := record["account_sid"]; !ok {
		if collection == "Accounts" {
			record["account_sid"] = sid
		} else {
			record["account_sid"] = accountOf(collection)
		}
	}

	return record
}

func (s *Server) nextSID(collection string) string {
	s.sequence++

	prefix, ok := sidPrefixes[lastSegment(collection)]
	if !ok {
		prefix = "ZZ"
	}

	return fmt.Sprintf("%s%032x", prefix, s.sequence)
}

func (s *Server) timestamp() string {
	return s.now().Format(time.RFC1123Z)
}

// resourcePath returns the request path below the version without the
// ".json" suffix.
func resourcePath(r *http.Request) (string, bool) {
	path := chi.URLParam(r, "*")
	if !strings.HasSuffix(path, jsonSuffix) {
		return "", false
	}

	return strings.TrimSuffix(path, jsonSuffix), true
}

func splitPath(path string) (string, string) {
	index := strings.LastIndex(path, "/")
	if index < 0 {
		return "", path
	}

	return path[:index], path[index+1:]
}

func lastSegment(path string) string {
	_, last := splitPath(path)

	return last
}

func accountPath(accountSID, rel string) string {
	return "Accounts/" + accountSID + "/" + rel
}

func accountOf(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 1 && parts[0] == "Accounts" {
		return parts[1]
	}

	return ""
}

func looksLikeSID(value string) bool {
	if len(value) != sidLength {
		return false
	}

	return unicode.IsUpper(rune(value[0])) && unicode.IsUpper(rune(value[1]))
}

func itemsKey(path string) string {
	switch {
	case strings.Contains(path, "AvailablePhoneNumbers/"):
		return "available_phone_numbers"
	case strings.HasSuffix(path, "SMS/Messages"):
		return "sms_messages"
	default:
		return snakeCase(lastSegment(path))
	}
}

// snakeCase maps Twilio's CamelCase parameter names to response field
// names, e.g. "FriendlyName" to "friendly_name".
func snakeCase(name string) string {
	var b strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

func matches(record Record, filters url.Values) bool {
	for key := range filters {
		if fmt.Sprint(record[snakeCase(key)]) != filters.Get(key) {
			return false
		}
	}

	return true
}

func mergeForm(record Record, form url.Values) {
	for key := range form {
		record[snakeCase(key)] = form.Get(key)
	}
}

func cloneRecord(record Record) Record {
	clone := make(Record, len(record))
	for key, value := range record {
		clone[key] = value
	}

	return clone
}

func intParam(query url.Values, name string, fallback int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	body := Record{
		"status":  status,
		"message": message,
	}

	if code != 0 {
		body["code"] = code
		body["more_info"] = fmt.Sprintf("https://www.twilio.com/docs/errors/%d", code)
	}

	writeJSON(w, status, body)
}

func writeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, CodeNotFound, "The requested resource "+r.URL.Path+" was not found")
}
