// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "jobboard-workers/internal/models"

type Input struct {
	QueryType     string                 `json:"queryType"`
	JobID         string                 `json:"jobId,omitempty"`
	CompanyID     string                 `json:"companyId,omitempty"`
	AssessmentID  string                 `json:"assessmentId,omitempty"`
	ResumeID      string                 `json:"resumeId,omitempty"`
	RequesterRole string                 `json:"requesterRole,omitempty"`
	Filters       map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeJobFullDetails       = models.QueryTypeJobFullDetails
	QueryTypeCompanyProfile       = models.QueryTypeCompanyProfile
	QueryTypeAssessmentByID       = models.QueryTypeAssessmentByID
	QueryTypeCandidateAssessments = models.QueryTypeCandidateAssessments
	QueryTypeApplicationsByJob    = models.QueryTypeApplicationsByJob
)
