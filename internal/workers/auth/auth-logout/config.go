// internal/workers/auth/auth-logout/config.go
package authlogout

import "time"

type Config struct {
	Timeout time.Duration
	// TokenRevocationTTL is how long a revoked token stays on the denylist.
	// It should cover the longest access token lifetime Keycloak issues.
	TokenRevocationTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            10 * time.Second,
		TokenRevocationTTL: 24 * time.Hour,
	}
}
