package slack

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingClient(t *testing.T, cfg Config, response string) (*Client, *[]url.Values, *[]string) {
	t.Helper()
	var forms []url.Values
	var paths []string
	client := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		forms = append(forms, r.PostForm)
		paths = append(paths, r.URL.Path)
		w.Write([]byte(response))
	})
	return client, &forms, &paths
}

func TestSendMessages(t *testing.T) {
	unfurl := false
	cfg := Config{
		Token:       "t",
		Parse:       "none",
		LinkNames:   true,
		UnfurlLinks: &unfurl,
	}
	client, forms, paths := recordingClient(t, cfg, `{"ok":true}`)

	err := client.SendMessages("C1", []string{"line one", "line two"})
	require.NoError(t, err)

	require.Len(t, *paths, 1)
	assert.Equal(t, "/chat.postMessage", (*paths)[0])
	form := (*forms)[0]
	assert.Equal(t, "C1", form.Get("channel"))
	assert.Equal(t, "line one\nline two", form.Get("text"))
	assert.Equal(t, "true", form.Get("as_user"))
	assert.Equal(t, "none", form.Get("parse"))
	// Booleans cross the wire as 0/1 for link_names
	assert.Equal(t, "1", form.Get("link_names"))
	assert.Equal(t, "false", form.Get("unfurl_links"))
	assert.Empty(t, form.Get("unfurl_media"))
}

func TestSendMessages_EmptyListIsNoop(t *testing.T) {
	client, _, paths := recordingClient(t, Config{Token: "t"}, `{"ok":true}`)

	require.NoError(t, client.SendMessages("C1", nil))
	assert.Empty(t, *paths)
}

func TestSendAttachments(t *testing.T) {
	client, forms, _ := recordingClient(t, Config{Token: "t"}, `{"ok":true}`)

	err := client.SendAttachments("C1", []Attachment{
		{Text: "build passed", Color: "good"},
	})
	require.NoError(t, err)

	var decoded []Attachment
	require.NoError(t, json.Unmarshal([]byte((*forms)[0].Get("attachments")), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "build passed", decoded[0].Text)
	assert.Equal(t, "good", decoded[0].Color)
}

func TestSetTopic(t *testing.T) {
	client, forms, paths := recordingClient(t, Config{Token: "t"}, `{"ok":true}`)

	require.NoError(t, client.SetTopic("C1", "release week"))
	assert.Equal(t, "/channels.setTopic", (*paths)[0])
	assert.Equal(t, "release week", (*forms)[0].Get("topic"))
}

func TestOpenDirectChannel(t *testing.T) {
	client, forms, paths := recordingClient(t, Config{Token: "t"},
		`{"ok":true,"channel":{"id":"D77"}}`)

	id, err := client.OpenDirectChannel("U1")
	require.NoError(t, err)
	assert.Equal(t, "D77", id)
	assert.Equal(t, "/conversations.open", (*paths)[0])
	assert.Equal(t, "U1", (*forms)[0].Get("user"))
}

func TestChannelInfo(t *testing.T) {
	client, _, _ := recordingClient(t, Config{Token: "t"},
		`{"ok":true,"channel":{"id":"C1","name":"general"}}`)

	room, err := client.ChannelInfo("C1")
	require.NoError(t, err)
	assert.Equal(t, Room{ID: "C1", Name: "general"}, room)
}

func TestListUsers(t *testing.T) {
	client, _, paths := recordingClient(t, Config{Token: "t"},
		`{"ok":true,"members":[{"id":"U1","name":"alice"},{"id":"U2","name":"bob"}]}`)

	users, err := client.ListUsers()
	require.NoError(t, err)
	assert.Equal(t, "/users.list", (*paths)[0])
	assert.Equal(t, []User{{ID: "U1", Name: "alice"}, {ID: "U2", Name: "bob"}}, users)
}

func TestListRooms(t *testing.T) {
	response := `{"ok":true,"channels":[{"id":"C1","name":"general"}],"groups":[{"id":"G1","name":"private"}],"ims":[{"id":"D1"}]}`
	client, _, paths := recordingClient(t, Config{Token: "t"}, response)

	channels, err := client.ListChannels()
	require.NoError(t, err)
	assert.Equal(t, []Room{{ID: "C1", Name: "general"}}, channels)

	groups, err := client.ListGroups()
	require.NoError(t, err)
	assert.Equal(t, []Room{{ID: "G1", Name: "private"}}, groups)

	ims, err := client.ListIMs()
	require.NoError(t, err)
	assert.Equal(t, []Room{{ID: "D1"}}, ims)

	assert.Equal(t, []string{"/channels.list", "/groups.list", "/im.list"}, *paths)
}
