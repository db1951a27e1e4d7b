package twiliotest_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/fivetwenty-io/twilio-client/internal/twiliotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, server *twiliotest.Server, method, path string, form url.Values) (int, map[string]any) {
	t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	require.NoError(t, err)

	req.SetBasicAuth(twiliotest.AccountSID, twiliotest.AuthToken)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	return resp.StatusCode, payload
}

const callsPath = "/2010-04-01/Accounts/" + twiliotest.AccountSID + "/Calls"

//nolint:funlen
func TestServer(t *testing.T) {
	t.Parallel()

	t.Run("rejects bad credentials", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)

		req, err := http.NewRequest(http.MethodGet, server.URL+callsPath+".json", nil)
		require.NoError(t, err)
		req.SetBasicAuth(twiliotest.AccountSID, "wrong")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		defer func() { _ = resp.Body.Close() }()

		var payload map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.InDelta(t, twiliotest.CodeAuthenticate, payload["code"], 0)
	})

	t.Run("serves the seeded account", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)

		status, payload := do(t, server, http.MethodGet, "/2010-04-01/Accounts/"+twiliotest.AccountSID+".json", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Test Account", payload["friendly_name"])
	})

	t.Run("pages through a collection", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)
		server.Seed("Calls", twiliotest.Record{"status": "completed"}, twiliotest.Record{"status": "completed"},
			twiliotest.Record{"status": "busy"})

		status, payload := do(t, server, http.MethodGet, callsPath+".json?Page=0&PageSize=2", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, payload["calls"], 2)
		assert.Equal(t, "/2010-04-01/Accounts/"+twiliotest.AccountSID+"/Calls.json?Page=1&PageSize=2", payload["next_page_uri"])

		status, payload = do(t, server, http.MethodGet, callsPath+".json?Page=1&PageSize=2", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, payload["calls"], 1)
		assert.Nil(t, payload["next_page_uri"])

		status, payload = do(t, server, http.MethodGet, callsPath+".json?Page=2&PageSize=2", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.InDelta(t, twiliotest.CodePageOutOfRange, payload["code"], 0)
	})

	t.Run("filters by field", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)
		server.Seed("Calls", twiliotest.Record{"status": "completed"}, twiliotest.Record{"status": "busy"})

		_, payload := do(t, server, http.MethodGet, callsPath+".json?Status=busy", nil)
		calls, ok := payload["calls"].([]any)
		require.True(t, ok)
		require.Len(t, calls, 1)
		assert.Equal(t, "busy", calls[0].(map[string]any)["status"])
	})

	t.Run("creates updates and deletes", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)

		status, created := do(t, server, http.MethodPost, callsPath+".json", url.Values{
			"From": {"+14155551212"},
			"To":   {"+14155550000"},
			"Url":  {"http://example.com/twiml"},
		})
		require.Equal(t, http.StatusCreated, status)

		sid, _ := created["sid"].(string)
		assert.True(t, strings.HasPrefix(sid, "CA"))
		assert.Len(t, sid, 34)
		assert.Equal(t, "queued", created["status"])
		assert.Equal(t, "+14155551212", created["from"])

		status, updated := do(t, server, http.MethodPost, callsPath+"/"+sid+".json", url.Values{"Status": {"completed"}})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "completed", updated["status"])

		status, _ = do(t, server, http.MethodDelete, callsPath+"/"+sid+".json", nil)
		assert.Equal(t, http.StatusNoContent, status)
		assert.Empty(t, server.Records("Calls"))

		status, missing := do(t, server, http.MethodGet, callsPath+"/"+sid+".json", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.InDelta(t, twiliotest.CodeNotFound, missing["code"], 0)
	})

	t.Run("validates creates", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)

		status, payload := do(t, server, http.MethodPost, "/2010-04-01/Accounts/"+twiliotest.AccountSID+"/SMS/Messages.json",
			url.Values{"From": {"+14155551212"}, "To": {"+14155550000"}})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.InDelta(t, twiliotest.CodeMissingBody, payload["code"], 0)
	})

	t.Run("rejects creates on read only collections", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)

		status, _ := do(t, server, http.MethodPost, "/2010-04-01/Accounts/"+twiliotest.AccountSID+"/ConnectApps.json", url.Values{})
		assert.Equal(t, http.StatusMethodNotAllowed, status)
	})

	t.Run("unknown version is not found", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)

		status, _ := do(t, server, http.MethodGet, "/2099-01-01/Accounts.json", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("records requests", func(t *testing.T) {
		t.Parallel()

		server := twiliotest.NewServer(t)
		do(t, server, http.MethodGet, callsPath+".json?Page=0", nil)

		assert.Equal(t, []string{"GET " + callsPath + ".json?Page=0"}, server.Requests())
	})
}
