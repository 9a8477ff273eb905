// internal/workers/assessment/send-assessment-notification/models.go
package sendassessmentnotification

type Input struct {
	CandidateID     string                 `json:"candidateId"`
	ResumeID        string                 `json:"resumeId"`
	JobID           string                 `json:"jobId"`
	JobTitle        string                 `json:"jobTitle,omitempty"`
	CompanyName     string                 `json:"companyName,omitempty"`
	State           string                 `json:"state"`
	Qualifies       bool                   `json:"qualifies"`
	MatchScore      float64                `json:"matchScore"`
	Band            string                 `json:"band,omitempty"`
	ProcessingError string                 `json:"processingError,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	EmailStatus    string `json:"emailStatus"` // "sent", "failed", "disabled"
	SMSStatus      string `json:"smsStatus"`   // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"`      // ISO 8601
}

// Template keys, selected by assessment state and qualification outcome
const (
	TemplateScoredQualified      = "scored-qualified"
	TemplateScoredBelowThreshold = "scored-below-threshold"
	TemplateAnalysisFailed       = "analysis-failed"
)

// Channel statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
