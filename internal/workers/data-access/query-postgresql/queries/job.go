// internal/workers/data-access/query-postgresql/queries/job.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func JobFullDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	jobID, ok := params["jobId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, title, description, companyID, companyName, location, seniority string
	var salaryMin, salaryMax int
	var remote bool
	var skills string
	var postedAt, updatedAt string

	err := db.QueryRowContext(ctx, `
		SELECT j.id, j.title, j.description, j.company_id, c.name,
		       j.location, j.seniority, j.salary_min, j.salary_max,
		       j.remote, j.skills, j.posted_at, j.updated_at
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE j.id = $1`, jobID).Scan(
		&id, &title, &description,
		&companyID, &companyName,
		&location, &seniority,
		&salaryMin, &salaryMax,
		&remote, &skills,
		&postedAt, &updatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":          id,
		"title":       title,
		"description": description,
		"companyId":   companyID,
		"companyName": companyName,
		"location":    location,
		"seniority":   seniority,
		"salaryMin":   salaryMin,
		"salaryMax":   salaryMax,
		"remote":      remote,
		"skills":      skills,
		"postedAt":    postedAt,
		"updatedAt":   updatedAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
