// internal/workers/candidate/create-candidate-record/config.go
package createcandidaterecord

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
