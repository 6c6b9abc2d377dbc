// internal/workers/search/export-search-results/models.go
package exportsearchresults

import "talent-timeline-workers/internal/models"

type Input struct {
	Results []models.SearchResult `json:"results"`
}

type Output struct {
	CSV      string `json:"csv"`
	RowCount int    `json:"rowCount"`
	Filename string `json:"filename"`
}
