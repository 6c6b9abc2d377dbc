// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "talent-timeline-workers/internal/models"

type Input struct {
	QueryType   string                 `json:"queryType"`
	CandidateID string                 `json:"candidateId,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeAllCandidates     = models.QueryTypeAllCandidates
	QueryTypeCandidateByID     = models.QueryTypeCandidateByID
	QueryTypeCandidateTimeline = models.QueryTypeCandidateTimeline
	QueryTypeCountCandidates   = models.QueryTypeCountCandidates
)
