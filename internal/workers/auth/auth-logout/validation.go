// internal/workers/auth/auth-logout/validation.go
package authlogout

import "talent-timeline-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"userId"},
		Properties: map[string]validation.Property{
			"userId": {
				Type:        "string",
				Description: "User identifier",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
			},
			"sessionId": {
				Type:        "string",
				Description: "Session identifier to invalidate",
				MaxLength:   intPtr(255),
			},
			"token": {
				Type:        "string",
				Description: "Access token to put on the revocation denylist",
				MaxLength:   intPtr(4000),
			},
			"refreshToken": {
				Type:        "string",
				Description: "Refresh token to invalidate upstream",
				MaxLength:   intPtr(4000),
			},
			"logoutAll": {
				Type:        "boolean",
				Description: "Whether to close every session the user holds",
			},
			"reason": {
				Type:        "string",
				Description: "Reason for logout",
				MaxLength:   intPtr(500),
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "Whether logout was successful",
			},
			"sessionsInvalidated": {
				Type:        "integer",
				Description: "Number of sessions invalidated",
			},
			"tokenRevoked": {
				Type:        "boolean",
				Description: "Whether the access token was denylisted",
			},
			"logoutAt": {
				Type:        "string",
				Description: "Timestamp of logout",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
