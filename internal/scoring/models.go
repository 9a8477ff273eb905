// internal/scoring/models.go
package scoring

// Scale maxima for each sub-score and the aggregate match score, as produced
// by the resume analysis pipeline.
const (
	SkillsScale     = 6.0
	ExperienceScale = 2.0
	EducationScale  = 2.0
	CompanyScale    = 2.0
	OverallScale    = 12.0
)

// QualificationThreshold is the pass/fail cutoff on the 12-point scale.
// The boundary is inclusive: a match score of exactly 5.0 qualifies.
const QualificationThreshold = 5.0

// Assessment is the read-only snapshot of a resume-to-job match produced by
// the upstream analysis pipeline. It is never mutated here; every derived
// value (bands, qualification, recommendations) is a pure function of it.
//
// MatchScore is the sum of the four sub-scores. ProcessingError is empty
// unless the analysis failed, in which case no scores are populated. The
// wire name for MatchedCompanies is parsedCompanies, matching the analysis
// payload.
type Assessment struct {
	SkillsScore      float64  `json:"skillsScore"`
	ExperienceScore  float64  `json:"experienceScore"`
	EducationScore   float64  `json:"educationScore"`
	CompanyScore     float64  `json:"companyScore"`
	MatchScore       float64  `json:"matchScore"`
	IsProcessed      bool     `json:"isProcessed"`
	ProcessingError  string   `json:"processingError,omitempty"`
	MatchedCompanies []string `json:"parsedCompanies,omitempty"`
}

// Total returns the sum of the four sub-scores. A well-formed assessment
// has MatchScore equal to Total.
func (a Assessment) Total() float64 {
	return a.SkillsScore + a.ExperienceScore + a.EducationScore + a.CompanyScore
}

// State is the display state of an assessment. Transitions happen upstream;
// consumers only dispatch on the state they are handed.
type State string

const (
	StatePending State = "pending"
	StateFailed  State = "failed"
	StateScored  State = "scored"
)

// State derives the display state. Only StateScored assessments are
// eligible for Classify, Qualifies and Recommend.
func (a Assessment) State() State {
	if !a.IsProcessed {
		return StatePending
	}
	if a.ProcessingError != "" {
		return StateFailed
	}
	return StateScored
}

// Band is the qualitative rating derived from a normalized score.
type Band string

const (
	BandExcellent        Band = "Excellent"
	BandGood             Band = "Good"
	BandFair             Band = "Fair"
	BandNeedsImprovement Band = "Needs Improvement"
)

// Color returns the display color token for the band.
func (b Band) Color() string {
	switch b {
	case BandExcellent:
		return "green"
	case BandGood:
		return "blue"
	case BandFair:
		return "amber"
	default:
		return "red"
	}
}

// ScoreBand pairs a raw score with its band and color token for display.
// Score stays on its native scale; banding happens on the rescaled value.
type ScoreBand struct {
	Score float64 `json:"score"`
	Band  Band    `json:"band"`
	Color string  `json:"color"`
}

// Recommendation severities.
const (
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityPositive = "positive"
)

// Recommendation is one actionable suggestion derived from an assessment.
// The slice order returned by Recommend is part of the contract.
type Recommendation struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Scorecard is the scored-state portion of a presentation: the overall and
// per-dimension bands, the qualification verdict and the ordered
// recommendation list.
type Scorecard struct {
	Qualifies        bool             `json:"qualifies"`
	Overall          ScoreBand        `json:"overall"`
	Skills           ScoreBand        `json:"skills"`
	Experience       ScoreBand        `json:"experience"`
	Education        ScoreBand        `json:"education"`
	Company          ScoreBand        `json:"company"`
	Recommendations  []Recommendation `json:"recommendations"`
	MatchedCompanies []string         `json:"matchedCompanies,omitempty"`
}

// Presentation is the display-facing view of an assessment. Scorecard is
// nil unless the state is scored; ProcessingError carries the upstream
// failure message verbatim when the state is failed.
type Presentation struct {
	State           State      `json:"state"`
	ProcessingError string     `json:"processingError,omitempty"`
	Scorecard       *Scorecard `json:"scorecard,omitempty"`
}
