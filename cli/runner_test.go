package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authclient/client/auth/mock"
	"github.com/viant/authclient/client/auth/session"
	"github.com/viant/authclient/client/bookmarks"
)

type harness struct {
	remote *mock.Service
	global []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	remote, err := mock.New()
	require.NoError(t, err)
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)
	return &harness{
		remote: remote,
		global: []string{"--url", server.URL + mock.Prefix, "--store.url", filepath.Join(t.TempDir(), "session.json"), "--log-level", "error"},
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	err := run(context.Background(), append(append([]string{}, h.global...), args...), output)
	return output.String(), err
}

func TestRun_Session(t *testing.T) {
	h := newHarness(t)

	output, err := h.run(t, "register", "-e", "jo@example.com", "-p", "secret", "--username", "jo")
	require.NoError(t, err)
	assert.Contains(t, output, `"email": "jo@example.com"`)

	_, err = h.run(t, "login", "-e", "jo@example.com", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No active account found")

	output, err = h.run(t, "login", "-e", "jo", "-p", "secret")
	require.NoError(t, err)
	info := &session.Info{}
	require.NoError(t, json.Unmarshal([]byte(output), info))
	assert.True(t, info.Authenticated)
	assert.True(t, info.HasRefresh)

	output, err = h.run(t, "token")
	require.NoError(t, err)
	assert.Regexp(t, `^eyJ[\w-]+\.[\w-]+\.[\w-]+\n$`, output)

	_, err = h.run(t, "request", "-X", "post", "-d", `{"url":"https://go.dev","title":"Go"}`, "bookmarks/")
	require.NoError(t, err)

	h.remote.ExpireAccessTokens()
	output, err = h.run(t, "bookmarks", "list")
	require.NoError(t, err)
	var list []*bookmarks.Bookmark
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Go", list[0].Title)
	assert.Equal(t, 1, h.remote.RefreshCalls())

	output, err = h.run(t, "bookmarks", "search", "go.dev")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	assert.Len(t, list, 1)

	_, err = h.run(t, "refresh")
	require.NoError(t, err)
	assert.Equal(t, 2, h.remote.RefreshCalls())

	_, err = h.run(t, "logout")
	require.NoError(t, err)
	output, err = h.run(t, "status")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), info))
	assert.False(t, info.Authenticated)

	_, err = h.run(t, "refresh")
	assert.Error(t, err)
	_, err = h.run(t, "token")
	assert.Error(t, err)
}

func TestRun_PasswordReset(t *testing.T) {
	h := newHarness(t)
	h.remote.AddUser("jo@example.com", "old")

	_, err := h.run(t, "forgot", "-e", "jo@example.com")
	require.NoError(t, err)
	reset, ok := h.remote.Reset("jo@example.com")
	require.True(t, ok)

	_, err = h.run(t, "reset", "--uid", reset.ID, "--token", reset.Token, "-p", "new")
	require.NoError(t, err)
	_, err = h.run(t, "login", "-e", "jo@example.com", "-p", "new")
	require.NoError(t, err)
}

func TestRun_Arguments(t *testing.T) {
	h := newHarness(t)
	var testCases = []struct {
		description string
		args        []string
	}{
		{description: "no command"},
		{description: "unknown command", args: []string{"whoami"}},
		{description: "missing bookmarks command", args: []string{"bookmarks"}},
		{description: "missing search query", args: []string{"bookmarks", "search"}},
		{description: "invalid request data", args: []string{"request", "-d", "{", "bookmarks/"}},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := h.run(t, tc.args...)
			assert.Error(t, err)
		})
	}

	help := &bytes.Buffer{}
	assert.NoError(t, run(context.Background(), []string{"--help"}, help))
	assert.Contains(t, help.String(), "login")
}
