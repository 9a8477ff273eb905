// internal/workers/infrastructure/validate-subscription/models.go
package validatesubscription

type Input struct {
	EmployerID string `json:"employerId"`
}

// Output represents the output data after subscription validation
type Output struct {
	IsValid   bool   `json:"isValid"`
	Tier      string `json:"tier"`
	TierLevel int    `json:"tierLevel"`
	// Premium pipeline features (bulk assessment, full recommendation
	// detail) unlock at growth and above.
	PremiumFeatures bool `json:"premiumFeatures"`
}

// Subscription represents an employer subscription record
type Subscription struct {
	EmployerID string `json:"employerId"`
	Tier       string `json:"tier"`
	ExpiresAt  string `json:"expiresAt"`
	IsActive   bool   `json:"isActive"`
}

// Subscription tiers and their levels
const (
	TierStarter    = "starter"
	TierGrowth     = "growth"
	TierEnterprise = "enterprise"
)

var tierLevels = map[string]int{
	TierStarter:    1,
	TierGrowth:     2,
	TierEnterprise: 3,
}
