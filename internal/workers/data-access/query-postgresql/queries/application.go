// internal/workers/data-access/query-postgresql/queries/application.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

// Roles allowed to list applications for a job. The caller passes the
// requester role explicitly; nothing here consults ambient identity.
var privilegedRoles = map[string]bool{
	"recruiter": true,
	"admin":     true,
}

func ApplicationsByJob(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	jobID, ok := params["jobId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	role, _ := params["requesterRole"].(string)
	if !privilegedRoles[role] {
		return nil, 0, 0, ErrAccessDenied
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, job_id, resume_id, candidate_id, status, applied_at
		FROM applications
		WHERE job_id = $1
		ORDER BY applied_at DESC`, jobID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, appJobID, resumeID, candidateID, status, appliedAt string
		if err := rows.Scan(&id, &appJobID, &resumeID, &candidateID, &status, &appliedAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":          id,
			"jobId":       appJobID,
			"resumeId":    resumeID,
			"candidateId": candidateID,
			"status":      status,
			"appliedAt":   appliedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
