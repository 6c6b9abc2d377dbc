// internal/models/search.go
package models

// SearchQuery is a transient recruiter query. It is never persisted.
//
// All fields are optional: empty tags skip tag matching, an empty or "any"
// availability skips the availability filter, zero RecencyMonths disables the
// recency window, and empty Location/Keyword skip their substring filters.
//
// MinYears is accepted on the wire but is not applied as a filter today; see
// DESIGN.md.
type SearchQuery struct {
	Tags          []string `json:"tags,omitempty"`
	MinYears      float64  `json:"minYears,omitempty"`
	RecencyMonths int      `json:"recencyMonths,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Location      string   `json:"location,omitempty"`
	Keyword       string   `json:"keyword,omitempty"`
}

// HasTags reports whether the query carries at least one required tag.
func (q SearchQuery) HasTags() bool {
	return len(q.Tags) > 0
}

// SearchResult is one matched candidate with its computed metrics.
//
// YearsExperience sums day spans across all timeline entries divided by 365;
// overlapping entries are summed without de-duplication. MatchScore is always
// in [0, 1]: the fraction of required tags found, or a tenure heuristic capped
// at five years when the query carries no tags.
type SearchResult struct {
	CandidateID     string   `json:"candidateId"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Location        string   `json:"location"`
	Availability    string   `json:"availability"`
	YearsExperience float64  `json:"yearsExperience"`
	MatchScore      float64  `json:"matchScore"`
	MatchedTags     []string `json:"matchedTags"`
	ProfileText     string   `json:"profileText,omitempty"`
}
