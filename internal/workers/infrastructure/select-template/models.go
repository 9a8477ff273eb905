// internal/workers/infrastructure/select-template/models.go
package selecttemplate

type Input struct {
	State            string `json:"state"`
	Band             string `json:"band,omitempty"`
	Qualified        bool   `json:"qualified,omitempty"`
	SubscriptionTier string `json:"subscriptionTier,omitempty"`
}

type Output struct {
	SelectedTemplateId string `json:"selectedTemplateId"`
}

// Template IDs for each assessment outcome. Premium subscription tiers
// get the "-detailed" variants of the scored templates.
const (
	TemplateBase               = "assessment-base"
	TemplatePending            = "assessment-pending"
	TemplateFailed             = "assessment-failed"
	TemplateQualified          = "assessment-qualified"
	TemplateQualifiedExcellent = "assessment-qualified-excellent"
	TemplateNotQualified       = "assessment-not-qualified"

	DetailedSuffix = "-detailed"
)
