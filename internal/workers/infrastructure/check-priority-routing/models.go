// internal/workers/infrastructure/check-priority-routing/models.go
package checkpriorityrouting

type Input struct {
	CompanyID string `json:"companyId"`
	// Band of the candidate's overall match, set when routing a scored
	// assessment. Premium employers fast-track Excellent candidates.
	AssessmentBand string `json:"assessmentBand,omitempty"`
}

type Output struct {
	IsPremiumEmployer bool   `json:"isPremiumEmployer"`
	RoutingPriority   string `json:"routingPriority"`
	FastTrack         bool   `json:"fastTrack"`
}

// Employer account types
const (
	AccountTypePremium  = "premium"
	AccountTypeVerified = "verified"
	AccountTypeStandard = "standard"
)

// Priority levels
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)
