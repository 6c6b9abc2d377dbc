// internal/workers/auth/auth-logout/models.go
package authlogout

type Input struct {
	UserID       string `json:"userId"`
	SessionID    string `json:"sessionId,omitempty"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	LogoutAll    bool   `json:"logoutAll,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

type Output struct {
	Success             bool   `json:"success"`
	SessionsInvalidated int    `json:"sessionsInvalidated"`
	TokenRevoked        bool   `json:"tokenRevoked"`
	LogoutAt            string `json:"logoutAt"`
}
