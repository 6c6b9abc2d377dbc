// internal/workers/candidate/validate-profile-data/handler_test.go
package validateprofiledata

import (
	"context"
	"testing"

	"talent-timeline-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	handler, err := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return handler
}

func TestHandler_Execute_ValidProfile(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Profile: map[string]interface{}{
			"name":         "Asha Rao",
			"email":        "asha@example.com",
			"location":     "Bengaluru, India",
			"availability": "immediate",
			"profileText":  "Backend engineer.",
		},
	})

	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Empty(t, output.Errors)
}

func TestHandler_Execute_InvalidProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile map[string]interface{}
	}{
		{
			"missing name",
			map[string]interface{}{"email": "a@b.com"},
		},
		{
			"missing email",
			map[string]interface{}{"name": "Asha"},
		},
		{
			"bad email format",
			map[string]interface{}{"name": "Asha", "email": "nope"},
		},
		{
			"unknown availability bucket",
			map[string]interface{}{
				"name":         "Asha",
				"email":        "asha@example.com",
				"availability": "someday",
			},
		},
		{
			"empty name",
			map[string]interface{}{"name": "", "email": "asha@example.com"},
		},
	}

	handler := newTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Profile: tt.profile})
			require.NoError(t, err, "invalid profiles are reported, not errored")
			assert.False(t, output.Valid)
			assert.NotEmpty(t, output.Errors)
		})
	}
}

func TestHandler_Execute_NilProfile(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, []string{"profile: payload is required"}, output.Errors)
}
