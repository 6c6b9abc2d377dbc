// internal/matching/matcher.go

// Package matching implements the candidate matcher: a pure, linear-scan
// search over a snapshot of candidate profiles. It filters on availability,
// location, required tags, recency and free-text keyword, computes accumulated
// tenure per candidate, and ranks the survivors by match score.
//
// The matcher holds no state between calls and never mutates its inputs, so
// concurrent searches only need independently-fetched snapshots.
package matching

import (
	"math"
	"sort"
	"strings"
	"time"

	"talent-timeline-workers/internal/models"
)

// Tenure above this many years maxes out the fallback score used when the
// query carries no required tags.
const fallbackScoreCapYears = 5.0

// Search runs the matcher against a snapshot at the current time.
func Search(candidates []models.CandidateProfile, query models.SearchQuery) []models.SearchResult {
	return SearchAt(time.Now().UTC(), candidates, query)
}

// SearchAt runs the matcher with an explicit evaluation time. "now" is the
// substitute for every absent or unparseable entry date, so pinning it makes
// tenure math deterministic.
//
// It always returns a (possibly empty) result slice, sorted by match score
// descending. Ties are left in whatever order the sort produces.
func SearchAt(now time.Time, candidates []models.CandidateProfile, query models.SearchQuery) []models.SearchResult {
	required := models.NormalizeTags(query.Tags)

	results := []models.SearchResult{}
	for _, profile := range candidates {
		cand := profile.Candidate

		if !availabilityMatches(cand.Availability, query.Availability) {
			continue
		}
		if !locationMatches(cand.Location, query.Location) {
			continue
		}

		years := tenureYears(now, profile.Entries)

		matched := matchedTags(profile.Entries, required)
		if len(matched) < len(required) {
			continue
		}

		// The recency window only constrains tag matches, so it is a no-op
		// for untagged queries.
		if query.RecencyMonths > 0 && len(required) > 0 &&
			!hasRecentTagMatch(now, profile.Entries, required, query.RecencyMonths) {
			continue
		}

		if !keywordMatches(profile.Entries, query.Keyword) {
			continue
		}

		results = append(results, models.SearchResult{
			CandidateID:     cand.ID,
			Name:            cand.Name,
			Email:           cand.Email,
			Location:        cand.Location,
			Availability:    cand.Availability,
			YearsExperience: math.Round(years*100) / 100,
			MatchScore:      matchScore(len(matched), len(required), years),
			MatchedTags:     matched,
			ProfileText:     cand.ProfileText,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return results
}

// availabilityMatches applies the availability filter. An empty or "any"
// query bucket passes everything; otherwise the candidate's bucket must start
// with the query bucket, case-insensitively. Prefix matching keeps "1 month"
// and "1 month notice" style buckets loosely compatible.
func availabilityMatches(bucket, queryBucket string) bool {
	queryBucket = strings.TrimSpace(queryBucket)
	if queryBucket == "" || strings.EqualFold(queryBucket, "any") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(bucket), strings.ToLower(queryBucket))
}

// locationMatches applies the location filter: case-insensitive substring of
// the candidate's free-text location field.
func locationMatches(location, queryLocation string) bool {
	queryLocation = strings.TrimSpace(queryLocation)
	if queryLocation == "" {
		return true
	}
	return strings.Contains(strings.ToLower(location), strings.ToLower(queryLocation))
}

// tenureYears sums day spans across all entries and converts to years.
// Overlapping entries are summed as-is, without de-duplication, so concurrent
// roles accrue tenure faster than wall-clock time.
func tenureYears(now time.Time, entries []models.ExperienceEntry) float64 {
	totalDays := 0
	for _, e := range entries {
		totalDays += entryDays(e.StartDate, e.EndDate, now)
	}
	return float64(totalDays) / 365.0
}

// matchedTags returns the required tags found in the tag set of at least one
// entry. A tag matches by exact token comparison after normalization; AND
// semantics across required tags, OR across the candidate's entries.
func matchedTags(entries []models.ExperienceEntry, required []string) []string {
	matched := []string{}
	for _, tag := range required {
		for _, e := range entries {
			if entryHasTag(e, tag) {
				matched = append(matched, tag)
				break
			}
		}
	}
	return matched
}

func entryHasTag(e models.ExperienceEntry, tag string) bool {
	for _, t := range e.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == tag {
			return true
		}
	}
	return false
}

// hasRecentTagMatch reports whether at least one required tag appears on an
// entry whose effective end date falls inside the recency window.
func hasRecentTagMatch(now time.Time, entries []models.ExperienceEntry, required []string, recencyMonths int) bool {
	for _, e := range entries {
		end := effectiveEnd(e.EndDate, now)
		if monthsBetween(end, now) > recencyMonths {
			continue
		}
		for _, tag := range required {
			if entryHasTag(e, tag) {
				return true
			}
		}
	}
	return false
}

// keywordMatches applies the free-text filter: the keyword must appear as a
// case-insensitive substring of some entry's responsibility or description
// text.
func keywordMatches(entries []models.ExperienceEntry, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Responsibilities), keyword) ||
			strings.Contains(strings.ToLower(e.Description), keyword) {
			return true
		}
	}
	return false
}

// matchScore computes the [0,1] ranking score: fraction of required tags
// found, with one point per tag regardless of how many entries carry it. With
// no required tags it falls back to a tenure heuristic capped at five years.
func matchScore(matchedCount, requiredCount int, years float64) float64 {
	if requiredCount > 0 {
		return float64(matchedCount) / float64(requiredCount)
	}
	return math.Min(1.0, years/fallbackScoreCapYears)
}
