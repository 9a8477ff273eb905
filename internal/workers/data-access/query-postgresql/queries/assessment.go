// internal/workers/data-access/query-postgresql/queries/assessment.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func AssessmentByID(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	assessmentID, ok := params["assessmentId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, resumeID, jobID, state, createdAt string
	var matchScore float64
	var qualifies bool
	var presentationRaw []byte

	err := db.QueryRowContext(ctx, `
		SELECT id, resume_id, job_id, match_score, qualifies, state, presentation, created_at
		FROM assessments
		WHERE id = $1`, assessmentID).Scan(
		&id, &resumeID, &jobID,
		&matchScore, &qualifies,
		&state, &presentationRaw,
		&createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	var presentation interface{}
	if len(presentationRaw) > 0 {
		if err := json.Unmarshal(presentationRaw, &presentation); err != nil {
			return nil, 0, 0, err
		}
	}

	result := map[string]interface{}{
		"id":           id,
		"resumeId":     resumeID,
		"jobId":        jobID,
		"matchScore":   matchScore,
		"qualifies":    qualifies,
		"state":        state,
		"presentation": presentation,
		"createdAt":    createdAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func CandidateAssessments(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	resumeID, ok := params["resumeId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, job_id, match_score, qualifies, state, created_at
		FROM assessments
		WHERE resume_id = $1
		ORDER BY created_at DESC`, resumeID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, jobID, state, createdAt string
		var matchScore float64
		var qualifies bool
		if err := rows.Scan(&id, &jobID, &matchScore, &qualifies, &state, &createdAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":         id,
			"jobId":      jobID,
			"matchScore": matchScore,
			"qualifies":  qualifies,
			"state":      state,
			"createdAt":  createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
