// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeJobFullDetails       QueryType = "job_full_details"
	QueryTypeCompanyProfile       QueryType = "company_profile"
	QueryTypeAssessmentByID       QueryType = "assessment_by_id"
	QueryTypeCandidateAssessments QueryType = "candidate_assessments"
	QueryTypeApplicationsByJob    QueryType = "applications_by_job"
)
