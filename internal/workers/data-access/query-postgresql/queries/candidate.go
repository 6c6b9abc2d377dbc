// internal/workers/data-access/query-postgresql/queries/candidate.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func AllCandidates(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, email, location, availability, profile_text, created_at
		FROM candidates
		ORDER BY created_at`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, name, email, createdAt string
		var location, availability, profileText sql.NullString
		err := rows.Scan(&id, &name, &email, &location, &availability, &profileText, &createdAt)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":           id,
			"name":         name,
			"email":        email,
			"location":     location.String,
			"availability": availability.String,
			"profileText":  profileText.String,
			"createdAt":    createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func CandidateByID(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	candidateID, ok := params["candidateId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name, email, createdAt string
	var location, availability, profileText sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, name, email, location, availability, profile_text, created_at
		FROM candidates
		WHERE id = $1`, candidateID).Scan(
		&id, &name, &email, &location, &availability, &profileText, &createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":           id,
		"name":         name,
		"email":        email,
		"location":     location.String,
		"availability": availability.String,
		"profileText":  profileText.String,
		"createdAt":    createdAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func CandidateTimeline(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	candidateID, ok := params["candidateId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, candidate_id, title, organization, start_date, end_date, tags, responsibilities, description
		FROM timeline_events
		WHERE candidate_id = $1
		ORDER BY start_date`, candidateID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id int64
		var candID, title string
		var organization, startDate, endDate, tags, responsibilities, description sql.NullString
		err := rows.Scan(&id, &candID, &title, &organization, &startDate, &endDate,
			&tags, &responsibilities, &description)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":               id,
			"candidateId":      candID,
			"title":            title,
			"organization":     organization.String,
			"startDate":        startDate.String,
			"endDate":          endDate.String,
			"tags":             tags.String,
			"responsibilities": responsibilities.String,
			"description":      description.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func CountCandidates(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"count": count,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
