// internal/workers/data-access/query-postgresql/queries/company.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func CompanyProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	companyID, ok := params["companyId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name, description, industry, headquarters, accountType string
	var employeeCount int
	var isVerified bool

	err := db.QueryRowContext(ctx, `
		SELECT id, name, description, industry, headquarters,
		       employee_count, account_type, is_verified
		FROM companies
		WHERE id = $1`, companyID).Scan(
		&id, &name, &description,
		&industry, &headquarters,
		&employeeCount, &accountType,
		&isVerified,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	// Vendor list keeps its display order so downstream presentation
	// does not have to re-sort.
	rows, err := db.QueryContext(ctx, `
		SELECT vendor_name
		FROM company_vendors
		WHERE company_id = $1
		ORDER BY position ASC`, companyID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	vendors := []string{}
	for rows.Next() {
		var vendorName string
		if err := rows.Scan(&vendorName); err != nil {
			return nil, 0, 0, err
		}
		vendors = append(vendors, vendorName)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":            id,
		"name":          name,
		"description":   description,
		"industry":      industry,
		"headquarters":  headquarters,
		"employeeCount": employeeCount,
		"accountType":   accountType,
		"isVerified":    isVerified,
		"vendors":       vendors,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
