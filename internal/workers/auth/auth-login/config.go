// internal/workers/auth/auth-login/config.go
package authlogin

import "time"

type Config struct {
	Timeout    time.Duration
	SessionTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		SessionTTL: 8 * time.Hour,
	}
}
