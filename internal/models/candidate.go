// internal/models/candidate.go
package models

import "strings"

// Availability buckets a candidate can declare. Matching against these is
// prefix-based and case-insensitive, so "1 Month" and "1 month" are equivalent.
const (
	AvailabilityImmediate  = "immediate"
	AvailabilityOneMonth   = "1 month"
	AvailabilityThreeMonth = "3 months"
	AvailabilityNotOpen    = "not open"
)

// Candidate is a talent profile row. Candidates are created on registration,
// mutated only by their owner, and never hard-deleted.
type Candidate struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Location     string `json:"location" db:"location"`
	Availability string `json:"availability" db:"availability"`
	ProfileText  string `json:"profileText" db:"profile_text"`
	CreatedAt    string `json:"createdAt" db:"created_at"`
}

// ExperienceEntry is one dated item on a candidate's timeline (role, project or
// education). Entries are immutable once created; there is no edit or delete.
//
// Start/end dates are kept as the raw strings the candidate entered. End may be
// empty, meaning the entry is ongoing. Interpretation of the dates (including
// the fallback for unparseable input) happens at search time, not here.
type ExperienceEntry struct {
	ID               int64    `json:"id" db:"id"`
	CandidateID      string   `json:"candidateId" db:"candidate_id"`
	Title            string   `json:"title" db:"title"`
	Organization     string   `json:"organization" db:"organization"`
	StartDate        string   `json:"startDate" db:"start_date"`
	EndDate          string   `json:"endDate,omitempty" db:"end_date"`
	Tags             []string `json:"tags" db:"-"`
	Responsibilities string   `json:"responsibilities,omitempty" db:"responsibilities"`
	Description      string   `json:"description,omitempty" db:"description"`
}

// CandidateProfile is a candidate together with their full timeline, the unit
// the matcher operates on.
type CandidateProfile struct {
	Candidate Candidate         `json:"candidate"`
	Entries   []ExperienceEntry `json:"entries"`
}

// NormalizeTags lowercases and trims each tag and drops empty ones. Duplicates
// are kept; the tag set carries whatever the user typed.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags parses the comma-joined storage form of a tag set. The joined
// string is purely a persistence detail; everything above the storage layer
// works with the slice form.
func SplitTags(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(joined, ","))
}

// JoinTags renders a tag set back into its comma-joined storage form.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}
