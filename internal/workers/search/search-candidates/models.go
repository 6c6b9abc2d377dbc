// internal/workers/search/search-candidates/models.go
package searchcandidates

import "talent-timeline-workers/internal/models"

type Input struct {
	Query models.SearchQuery `json:"query"`
}

type Output struct {
	Results    []models.SearchResult `json:"results"`
	TotalFound int                   `json:"totalFound"`
	FromCache  bool                  `json:"fromCache"`
}
