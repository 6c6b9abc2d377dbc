// internal/workers/communication/send-outreach-email/config.go
package sendoutreachemail

import "time"

type Config struct {
	Timeout   time.Duration
	FromEmail string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		FromEmail: "talent@example.com",
	}
}
