// internal/workers/candidate/validate-profile-data/config.go
package validateprofiledata

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
