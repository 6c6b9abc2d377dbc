// internal/common/auth/keycloak_test.go
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "errors"

	"talent-timeline-workers/internal/common/errors"
)

func TestKeycloakClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/realms/talent/protocol/openid-connect/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.Form.Get("grant_type"))
		assert.Equal(t, "recruiter@example.com", r.Form.Get("username"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","expires_in":300,"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	client := NewKeycloakClient(srv.URL, "talent", "workers", "secret")

	resp, err := client.Login(context.Background(), "recruiter@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "at-1", resp.AccessToken)
	assert.Equal(t, "rt-1", resp.RefreshToken)
	assert.Equal(t, 300, resp.ExpiresIn)
}

func TestKeycloakClient_Login_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	client := NewKeycloakClient(srv.URL, "talent", "workers", "secret")

	_, err := client.Login(context.Background(), "recruiter@example.com", "wrong")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, stdErr.Code)
	assert.False(t, stdErr.Retryable, "bad credentials are not retryable")
}

func TestKeycloakClient_Login_TransientFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewKeycloakClient(srv.URL, "talent", "workers", "secret")

	_, err := client.Login(context.Background(), "recruiter@example.com", "hunter2")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.True(t, stdErr.Retryable)
}

func TestKeycloakClient_Logout(t *testing.T) {
	var gotRefreshToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/realms/talent/protocol/openid-connect/logout", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotRefreshToken = r.Form.Get("refresh_token")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewKeycloakClient(srv.URL, "talent", "workers", "secret")

	require.NoError(t, client.Logout(context.Background(), "rt-1"))
	assert.Equal(t, "rt-1", gotRefreshToken)
}

func TestKeycloakClient_ValidateToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/realms/talent/protocol/openid-connect/token/introspect", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		require.NoError(t, r.ParseForm())
		if r.Form.Get("token") == "live-token" {
			w.Write([]byte(`{"active":true,"sub":"U001","exp":` + strconv.FormatInt(exp, 10) + `}`))
			return
		}
		w.Write([]byte(`{"active":false}`))
	}))
	defer srv.Close()

	client := NewKeycloakClient(srv.URL, "talent", "workers", "secret")

	info, err := client.ValidateToken(context.Background(), "live-token")
	require.NoError(t, err)
	assert.True(t, info.Active)
	assert.Equal(t, "U001", info.Sub)
	assert.Equal(t, exp, info.Exp)

	_, err = client.ValidateToken(context.Background(), "stale-token")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrorCode("TOKEN_INVALID"), stdErr.Code)
}
