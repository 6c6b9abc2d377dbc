// internal/workers/auth/auth-logout/handler_test.go
package authlogout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-timeline-workers/internal/common/auth"
	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/common/validation"
)

type fakeStore struct {
	deleted    [][2]string
	deletedAll []string
	revoked    []string
	revokeTTLs []time.Duration
	allCount   int
	deleteErr  error
	revokeErr  error
}

func (f *fakeStore) Delete(ctx context.Context, userID, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, [2]string{userID, sessionID})
	return nil
}

func (f *fakeStore) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedAll = append(f.deletedAll, userID)
	return f.allCount, nil
}

func (f *fakeStore) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, token)
	f.revokeTTLs = append(f.revokeTTLs, ttl)
	return nil
}

type fakeRevoker struct {
	tokens       []string
	introspected []string
	err          error
	validateInfo *auth.TokenInfo
	validateErr  error
}

func (f *fakeRevoker) Logout(ctx context.Context, refreshToken string) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, refreshToken)
	return nil
}

func (f *fakeRevoker) ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error) {
	f.introspected = append(f.introspected, token)
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if f.validateInfo != nil {
		return f.validateInfo, nil
	}
	return &auth.TokenInfo{Active: true}, nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout:            5 * time.Second,
		TokenRevocationTTL: 24 * time.Hour,
	}
}

func TestHandler_Execute_SingleSession(t *testing.T) {
	store := &fakeStore{}
	handler := NewHandler(createTestConfig(), store, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		SessionID: "S001",
		Token:     "tok-abc",
	})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.SessionsInvalidated)
	assert.True(t, output.TokenRevoked)
	assert.Equal(t, [][2]string{{"U001", "S001"}}, store.deleted)
	assert.Equal(t, []string{"tok-abc"}, store.revoked)
}

func TestHandler_Execute_LogoutAll(t *testing.T) {
	store := &fakeStore{allCount: 3}
	handler := NewHandler(createTestConfig(), store, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		LogoutAll: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, output.SessionsInvalidated)
	assert.False(t, output.TokenRevoked, "no token supplied")
	assert.Equal(t, []string{"U001"}, store.deletedAll)
}

func TestHandler_Execute_RefreshTokenForwardedToKeycloak(t *testing.T) {
	store := &fakeStore{}
	revoker := &fakeRevoker{}
	handler := NewHandler(createTestConfig(), store, revoker, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		UserID:       "U001",
		SessionID:    "S001",
		RefreshToken: "refresh-xyz",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"refresh-xyz"}, revoker.tokens)
}

func TestHandler_Execute_KeycloakFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{}
	revoker := &fakeRevoker{err: errors.New("keycloak unreachable")}
	handler := NewHandler(createTestConfig(), store, revoker, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:       "U001",
		SessionID:    "S001",
		RefreshToken: "refresh-xyz",
	})

	require.NoError(t, err, "upstream revocation is best effort")
	assert.True(t, output.Success)
}

func TestHandler_Execute_RevocationFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{revokeErr: errors.New("redis write failed")}
	handler := NewHandler(createTestConfig(), store, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		SessionID: "S001",
		Token:     "tok-abc",
	})

	require.NoError(t, err)
	assert.False(t, output.TokenRevoked)
}

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{"missing user", Input{SessionID: "S001"}},
		{"no session and not logoutAll", Input{UserID: "U001"}},
	}

	handler := NewHandler(createTestConfig(), &fakeStore{}, nil, logger.NewNoOpLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Nil(t, output)
		})
	}
}

func TestHandler_Execute_DenylistTTLFromIntrospection(t *testing.T) {
	store := &fakeStore{}
	revoker := &fakeRevoker{
		validateInfo: &auth.TokenInfo{
			Active: true,
			Exp:    time.Now().Add(30 * time.Minute).Unix(),
		},
	}
	handler := NewHandler(createTestConfig(), store, revoker, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		SessionID: "S001",
		Token:     "tok-abc",
	})

	require.NoError(t, err)
	assert.True(t, output.TokenRevoked)
	assert.Equal(t, []string{"tok-abc"}, revoker.introspected)
	require.Len(t, store.revokeTTLs, 1)
	// Denylist entry should live about as long as the token, not the full 24h.
	assert.InDelta(t, (30 * time.Minute).Seconds(), store.revokeTTLs[0].Seconds(), 5)
}

func TestHandler_Execute_IntrospectionFailureFallsBackToConfiguredTTL(t *testing.T) {
	store := &fakeStore{}
	revoker := &fakeRevoker{validateErr: errors.New("introspection endpoint unreachable")}
	handler := NewHandler(createTestConfig(), store, revoker, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		SessionID: "S001",
		Token:     "tok-abc",
	})

	require.NoError(t, err, "introspection is best effort")
	assert.True(t, output.TokenRevoked)
	require.Len(t, store.revokeTTLs, 1)
	assert.Equal(t, 24*time.Hour, store.revokeTTLs[0])
}

func TestInputSchema_AcceptsValidLogoutRequest(t *testing.T) {
	result := validation.ValidateInput(map[string]interface{}{
		"userId":    "U001",
		"sessionId": "S001",
		"token":     "tok-abc",
		"logoutAll": false,
	}, GetInputSchema())

	assert.True(t, result.Valid, "errors: %v", result.GetErrorMessages())
}

func TestInputSchema_Violations(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]interface{}
		wantCode string
	}{
		{"missing userId", map[string]interface{}{"sessionId": "S001"}, "REQUIRED_FIELD_MISSING"},
		{"empty userId", map[string]interface{}{"userId": ""}, "MIN_LENGTH_VIOLATION"},
		{"unknown field", map[string]interface{}{"userId": "U001", "admin": true}, "EXTRA_FIELD"},
		{"logoutAll not boolean", map[string]interface{}{"userId": "U001", "logoutAll": "yes"}, "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validation.ValidateInput(tt.input, GetInputSchema())
			require.False(t, result.Valid)
			codes := make([]string, 0, len(result.Errors))
			for _, e := range result.Errors {
				codes = append(codes, e.Code)
			}
			assert.Contains(t, codes, tt.wantCode)
		})
	}
}

func TestOutputSchema_MatchesHandlerOutput(t *testing.T) {
	store := &fakeStore{}
	handler := NewHandler(createTestConfig(), store, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		SessionID: "S001",
	})
	require.NoError(t, err)

	result := validation.ValidateInput(map[string]interface{}{
		"success":             output.Success,
		"sessionsInvalidated": output.SessionsInvalidated,
		"tokenRevoked":        output.TokenRevoked,
		"logoutAt":            output.LogoutAt,
	}, GetOutputSchema())

	assert.True(t, result.Valid, "errors: %v", result.GetErrorMessages())
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("redis down")}
	handler := NewHandler(createTestConfig(), store, nil, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		UserID:    "U001",
		SessionID: "S001",
	})

	assert.ErrorIs(t, err, ErrSessionStoreFailed)
	assert.Nil(t, output)
}
