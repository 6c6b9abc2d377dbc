// internal/workers/search/search-candidates/snapshot.go
package searchcandidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"talent-timeline-workers/internal/models"
)

// loadSnapshot returns the full candidate set with timelines. The snapshot is
// cached whole in Redis; the matcher is a linear scan anyway, so there is
// nothing to gain from partial fetches. Returns fromCache=true on a hit.
func (h *Handler) loadSnapshot(ctx context.Context) ([]models.CandidateProfile, bool, error) {
	if h.redis != nil {
		if val, err := h.redis.Get(ctx, h.config.SnapshotKey).Result(); err == nil {
			var profiles []models.CandidateProfile
			if err := json.Unmarshal([]byte(val), &profiles); err == nil {
				return profiles, true, nil
			}
			// Corrupt cache entry; fall through to the database.
			h.logger.Warn("snapshot cache entry unreadable, refetching", map[string]interface{}{
				"key": h.config.SnapshotKey,
			})
		}
	}

	profiles, err := h.fetchSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	if h.redis != nil && h.config.CacheTTL > 0 {
		if data, err := json.Marshal(profiles); err == nil {
			if err := h.redis.Set(ctx, h.config.SnapshotKey, data, h.config.CacheTTL).Err(); err != nil {
				h.logger.Warn("snapshot cache write failed", map[string]interface{}{
					"key":   h.config.SnapshotKey,
					"error": err,
				})
			}
		}
	}

	return profiles, false, nil
}

func (h *Handler) fetchSnapshot(ctx context.Context) ([]models.CandidateProfile, error) {
	candidates, err := h.fetchCandidates(ctx)
	if err != nil {
		return nil, err
	}

	entriesByCandidate, err := h.fetchEntries(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.CandidateProfile, 0, len(candidates))
	for _, cand := range candidates {
		profiles = append(profiles, models.CandidateProfile{
			Candidate: cand,
			Entries:   entriesByCandidate[cand.ID],
		})
	}
	return profiles, nil
}

func (h *Handler) fetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, name, email, location, availability, profile_text, created_at
		FROM candidates
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		var location, availability, profileText sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &location, &availability, &profileText, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Location = location.String
		c.Availability = availability.String
		c.ProfileText = profileText.String
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (h *Handler) fetchEntries(ctx context.Context) (map[string][]models.ExperienceEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, candidate_id, title, organization, start_date, end_date, tags, responsibilities, description
		FROM timeline_events
		ORDER BY candidate_id, start_date`)
	if err != nil {
		return nil, fmt.Errorf("query timeline events: %w", err)
	}
	defer rows.Close()

	byCandidate := make(map[string][]models.ExperienceEntry)
	for rows.Next() {
		var e models.ExperienceEntry
		var organization, startDate, endDate, tags, responsibilities, description sql.NullString
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Title, &organization, &startDate, &endDate,
			&tags, &responsibilities, &description); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		e.Organization = organization.String
		e.StartDate = startDate.String
		e.EndDate = endDate.String
		e.Tags = models.SplitTags(tags.String)
		e.Responsibilities = responsibilities.String
		e.Description = description.String
		byCandidate[e.CandidateID] = append(byCandidate[e.CandidateID], e)
	}
	return byCandidate, rows.Err()
}
