// internal/workers/assessment/store-assessment-record/models.go
package storeassessmentrecord

type Input struct {
	ResumeID     string                 `json:"resumeId"`
	JobID        string                 `json:"jobId"`
	MatchScore   float64                `json:"matchScore"`
	Qualifies    bool                   `json:"qualifies"`
	State        string                 `json:"state"`
	Presentation map[string]interface{} `json:"presentation"`
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	RecordStatus string `json:"recordStatus"`
	CreatedAt    string `json:"createdAt"` // ISO 8601
}
