// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeAllCandidates     QueryType = "get_all_candidates"
	QueryTypeCandidateByID     QueryType = "get_candidate_by_id"
	QueryTypeCandidateTimeline QueryType = "get_candidate_timeline"
	QueryTypeCountCandidates   QueryType = "count_candidates"
)
