package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-os/infrastructure/clients/identity"
)

func TestInviteUserByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/invite", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "https://app.example/welcome", r.URL.Query().Get("redirect_to"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@example.com", body["email"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"new@example.com","invited_at":"2026-01-02T03:04:05Z"}`))
	}))
	defer srv.Close()

	c := identity.NewClient(srv.URL+"/", "service-key", time.Second)
	user, err := c.InviteUserByEmail(context.Background(), "new@example.com", "https://app.example/welcome")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	require.NotNil(t, user.InvitedAt)
	assert.Equal(t, 2026, user.InvitedAt.Year())
}

func TestInviteUserByEmail_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("redirect_to"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"msg":"A user with this email address has already been registered"}`))
	}))
	defer srv.Close()

	c := identity.NewClient(srv.URL, "service-key", time.Second)
	_, err := c.InviteUserByEmail(context.Background(), "taken@example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been registered")
	assert.Contains(t, err.Error(), "422")
}
