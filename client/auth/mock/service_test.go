package mock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, server *httptest.Server, uri, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, server.URL+uri, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func TestService_Tokens(t *testing.T) {
	service, err := New()
	require.NoError(t, err)
	server := httptest.NewServer(service)
	defer server.Close()
	service.AddUser("jo@example.com", "secret")

	status, payload := post(t, server, "/api/auth/login/", "", map[string]string{"email": "jo@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, noActiveAccount, payload["detail"])

	status, pair := post(t, server, "/api/auth/login/", "", map[string]string{"email": "JO@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, status)
	access, refresh := pair["access"].(string), pair["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	status, _ = post(t, server, "/api/bookmarks/", access, map[string]string{"url": "https://go.dev"})
	assert.Equal(t, http.StatusCreated, status)

	service.ExpireAccessTokens()
	status, payload = post(t, server, "/api/bookmarks/", access, map[string]string{"url": "https://go.dev"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, tokenNotValid, payload["code"])

	status, rotated := post(t, server, "/api/auth/token-refresh/", "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, access, rotated["access"])
	assert.NotEqual(t, refresh, rotated["refresh"])

	status, payload = post(t, server, "/api/auth/token-refresh/", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, status, "consumed refresh token")
	assert.Equal(t, "Token is invalid or expired", payload["detail"])
	assert.Equal(t, 2, service.RefreshCalls())

	status, _ = post(t, server, "/api/auth/token-refresh/", "", map[string]string{"refresh": rotated["access"].(string)})
	assert.Equal(t, http.StatusUnauthorized, status, "access token used as refresh token")
}

func TestService_Register(t *testing.T) {
	service, err := New()
	require.NoError(t, err)
	server := httptest.NewServer(service)
	defer server.Close()

	var testCases = []struct {
		description string
		input       map[string]string
		status      int
		field       string
	}{
		{
			description: "created",
			input:       map[string]string{"email": "a@example.com", "username": "a", "password": "pw", "conf_password": "pw"},
			status:      http.StatusCreated,
		},
		{
			description: "password mismatch",
			input:       map[string]string{"email": "b@example.com", "password": "pw", "conf_password": "other"},
			status:      http.StatusBadRequest,
			field:       "conf_password",
		},
		{
			description: "duplicate email",
			input:       map[string]string{"email": "a@example.com", "password": "pw", "conf_password": "pw"},
			status:      http.StatusBadRequest,
			field:       "email",
		},
		{
			description: "blank password",
			input:       map[string]string{"email": "c@example.com"},
			status:      http.StatusBadRequest,
			field:       "password",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			status, payload := post(t, server, "/api/auth/register/", "", tc.input)
			assert.Equal(t, tc.status, status)
			if tc.field != "" {
				assert.Contains(t, payload, tc.field)
			}
		})
	}
}

func TestService_ResetPassword(t *testing.T) {
	service, err := New()
	require.NoError(t, err)
	server := httptest.NewServer(service)
	defer server.Close()
	service.AddUser("jo@example.com", "old")

	status, pair := post(t, server, "/api/auth/login/", "", map[string]string{"email": "jo@example.com", "password": "old"})
	require.Equal(t, http.StatusOK, status)

	status, _ = post(t, server, "/api/auth/forgot-password/", "", map[string]string{"email": "jo@example.com"})
	require.Equal(t, http.StatusOK, status)
	reset, ok := service.Reset("jo@example.com")
	require.True(t, ok)

	status, _ = post(t, server, "/api/auth/reset-password/", "", map[string]string{"uid": reset.ID, "token": "wrong", "new_pass": "new", "conf_pass": "new"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = post(t, server, "/api/auth/reset-password/", "", map[string]string{"uid": reset.ID, "token": reset.Token, "new_pass": "new", "conf_pass": "new"})
	require.Equal(t, http.StatusOK, status)

	status, _ = post(t, server, "/api/auth/token-refresh/", "", map[string]string{"refresh": pair["refresh"].(string)})
	assert.Equal(t, http.StatusUnauthorized, status, "sessions are revoked on reset")
	status, _ = post(t, server, "/api/auth/login/", "", map[string]string{"email": "jo@example.com", "password": "new"})
	assert.Equal(t, http.StatusOK, status)
}
