// internal/workers/assessment/validate-assessment-payload/models.go
package validateassessmentpayload

type Input struct {
	ResumeID       string                 `json:"resumeId"`
	JobID          string                 `json:"jobId"`
	AssessmentData map[string]interface{} `json:"assessmentData"`
}

type Output struct {
	IsValid             bool                   `json:"isValid"`
	ValidatedAssessment map[string]interface{} `json:"validatedAssessment"`
	ValidationErrors    []ValidationError      `json:"validationErrors"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Scale maxima for each score field. Match score is the sum of the four
// sub-scores, so its ceiling is the sum of theirs.
var scoreScales = []struct {
	Field string
	Max   float64
}{
	{"skillsScore", 6},
	{"experienceScore", 2},
	{"educationScore", 2},
	{"companyScore", 2},
}

const matchScoreMax = 12.0

// sumTolerance absorbs float accumulation noise from the upstream pipeline;
// anything larger is a real contract violation.
const sumTolerance = 0.01
