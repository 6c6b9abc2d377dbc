// internal/workers/candidate/add-timeline-event/config.go
package addtimelineevent

import "time"

type Config struct {
	Timeout     time.Duration
	SnapshotKey string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     15 * time.Second,
		SnapshotKey: "candidates:snapshot",
	}
}
