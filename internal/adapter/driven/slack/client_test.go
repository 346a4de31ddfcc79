package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// newTestClient creates a Client whose API calls hit the given handler.
func newTestClient(t *testing.T, botID string, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := slackapi.New("test-token", slackapi.OptionAPIURL(server.URL+"/"))
	return NewClientWithAPI(api, botID)
}

func TestPostMessage_ReturnsTimestamp(t *testing.T) {
	var gotChannel string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		gotChannel = r.Form.Get("channel")
		assert.NotEmpty(t, r.Form.Get("blocks"))

		json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"channel": "C123",
			"ts":      "1726000000.000100",
		})
	})

	client := newTestClient(t, "B1", handler)

	ts, err := client.PostMessage(context.Background(), "C123", model.Summary{
		Sections: []model.RepoSection{{Organization: "acme", Repository: "widgets"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1726000000.000100", ts)
	assert.Equal(t, "C123", gotChannel)
}

func TestPostMessage_APIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	})

	client := newTestClient(t, "B1", handler)

	_, err := client.PostMessage(context.Background(), "C404", model.Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestListRecentMessages_MarksOwnBotMessages(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversations.history", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"messages": []map[string]any{
				{"ts": "3.0", "text": "hi", "user": "U77"},
				{"ts": "2.0", "text": "summary", "bot_id": "B1"},
				{"ts": "1.0", "text": "other bot", "bot_id": "B9"},
			},
		})
	})

	client := newTestClient(t, "B1", handler)

	messages, err := client.ListRecentMessages(context.Background(), "C123", 10)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, model.ChannelMessage{ID: "3.0", BotOwned: false}, messages[0])
	assert.Equal(t, model.ChannelMessage{ID: "2.0", BotOwned: true}, messages[1])
	assert.Equal(t, model.ChannelMessage{ID: "1.0", BotOwned: false}, messages[2], "another bot's messages are never ours")
}

func TestDeleteMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/chat.delete", r.URL.Path)
		assert.Equal(t, "2.0", r.Form.Get("ts"))
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C123", "ts": "2.0"})
	})

	client := newTestClient(t, "B1", handler)
	require.NoError(t, client.DeleteMessage(context.Background(), "C123", "2.0"))
}

func TestPinMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/pins.add", r.URL.Path)
		assert.Equal(t, "C123", r.Form.Get("channel"))
		assert.Equal(t, "2.0", r.Form.Get("timestamp"))
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	client := newTestClient(t, "B1", handler)
	require.NoError(t, client.PinMessage(context.Background(), "C123", "2.0"))
}
