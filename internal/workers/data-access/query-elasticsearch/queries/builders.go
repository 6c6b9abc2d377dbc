// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index        string
	QueryType    string
	Filters      map[string]interface{}
	CandidateID  string
	Availability string
	Pagination   struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "candidate_index":
		queryBody = buildCandidateSearchQuery(eq)
	case "similar_candidates":
		queryBody = buildSimilarCandidatesQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{eq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &eq.Pagination.From,
		Size:   &eq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildCandidateSearchQuery builds the full-text candidate search dynamically
func buildCandidateSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search across profile text and timeline content
	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "profile_text^2", "responsibilities", "description"},
				"type":   "best_fields",
			},
		})
	}

	// Availability filter
	if availability, ok := eq.Filters["availability"].(string); ok && availability != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"availability": availability},
		})
	} else if eq.Availability != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"availability": eq.Availability},
		})
	}

	// Location filter: free-text match against the location field
	if location, ok := eq.Filters["location"].(string); ok && location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"match": map[string]interface{}{"location": location},
		})
	}

	// Tag filter: candidate must carry every requested tag
	if tags, ok := eq.Filters["tags"].([]interface{}); ok && len(tags) > 0 {
		for _, tag := range tags {
			if s, ok := tag.(string); ok && s != "" {
				filterClauses = append(filterClauses, map[string]interface{}{
					"term": map[string]interface{}{"tags": strings.ToLower(strings.TrimSpace(s))},
				})
			}
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := eq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "created_at":
			query["sort"] = []map[string]interface{}{{"created_at": "desc"}}
		case "name":
			query["sort"] = []map[string]interface{}{{"name": "asc"}}
		}
	}

	return query
}

// buildSimilarCandidatesQuery builds a "similar candidates" query
func buildSimilarCandidatesQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.CandidateID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"profile_text", "responsibilities", "tags"},
				"like": []map[string]interface{}{
					{"_index": eq.Index, "_id": eq.CandidateID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}
