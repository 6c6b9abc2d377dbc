// internal/workers/search/parse-search-filters/models.go
package parsesearchfilters

import "talent-timeline-workers/internal/models"

type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
}

type Output struct {
	Query models.SearchQuery `json:"query"`
}
