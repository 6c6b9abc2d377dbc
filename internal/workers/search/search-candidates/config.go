// internal/workers/search/search-candidates/config.go
package searchcandidates

import "time"

type Config struct {
	Timeout     time.Duration
	SnapshotKey string
	CacheTTL    time.Duration
	MaxResults  int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     20 * time.Second,
		SnapshotKey: "candidates:snapshot",
		CacheTTL:    60 * time.Second,
	}
}
