package notifyrecruiter

import (
	"jobboard-workers/internal/common/logger"
	"time"
)

type Input struct {
	RecruiterEmail   string                 `json:"recruiterEmail"`
	From             string                 `json:"from,omitempty"`
	CC               string                 `json:"cc,omitempty"`
	ReplyTo          string                 `json:"replyTo,omitempty"`
	CandidateName    string                 `json:"candidateName"`
	ResumeID         string                 `json:"resumeId,omitempty"`
	JobID            string                 `json:"jobId,omitempty"`
	JobTitle         string                 `json:"jobTitle"`
	CompanyName      string                 `json:"companyName,omitempty"`
	MatchScore       float64                `json:"matchScore"`
	Band             string                 `json:"band,omitempty"`
	Qualifies        bool                   `json:"qualifies"`
	MatchedCompanies []string               `json:"matchedCompanies,omitempty"`
	Recommendations  []string               `json:"recommendations,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageID string    `json:"messageId,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	SentAt    time.Time `json:"sentAt,omitempty"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
