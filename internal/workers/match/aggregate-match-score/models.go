// internal/workers/match/aggregate-match-score/models.go
package aggregatematchscore

import "jobboard-workers/internal/scoring"

type Input struct {
	ResumeID        string   `json:"resumeId"`
	JobID           string   `json:"jobId"`
	SkillsScore     float64  `json:"skillsScore"`
	ExperienceScore float64  `json:"experienceScore"`
	EducationScore  float64  `json:"educationScore"`
	CompanyScore    float64  `json:"companyScore"`
	MatchScore      float64  `json:"matchScore"`
	IsProcessed     bool     `json:"isProcessed"`
	ProcessingError string   `json:"processingError,omitempty"`
	ParsedCompanies []string `json:"parsedCompanies,omitempty"`
	// TargetCompanies overrides the job-context lookup when set.
	TargetCompanies []string `json:"targetCompanies,omitempty"`
}

// JobContext is the hiring-side context a job carries: the posting company
// and the organizations it works with. Cached under "job:profile:"+jobId.
type JobContext struct {
	JobID           string   `json:"jobId"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"companyName"`
	TargetCompanies []string `json:"targetCompanies"`
}

type Output struct {
	State scoring.State `json:"state"`
	// MatchScore is only populated for scored assessments; pending and
	// failed completions carry no score variables.
	MatchScore       float64                  `json:"matchScore,omitempty"`
	Qualifies        bool                     `json:"qualifies"`
	Overall          *scoring.ScoreBand       `json:"overall,omitempty"`
	Breakdown        *ScoreBreakdown          `json:"breakdown,omitempty"`
	Recommendations  []scoring.Recommendation `json:"recommendations,omitempty"`
	MatchedCompanies []string                 `json:"matchedCompanies,omitempty"`
	ProcessingError  string                   `json:"processingError,omitempty"`
}

type ScoreBreakdown struct {
	Skills     scoring.ScoreBand `json:"skills"`
	Experience scoring.ScoreBand `json:"experience"`
	Education  scoring.ScoreBand `json:"education"`
	Company    scoring.ScoreBand `json:"company"`
}

func (in *Input) toAssessment() scoring.Assessment {
	return scoring.Assessment{
		SkillsScore:      in.SkillsScore,
		ExperienceScore:  in.ExperienceScore,
		EducationScore:   in.EducationScore,
		CompanyScore:     in.CompanyScore,
		MatchScore:       in.MatchScore,
		IsProcessed:      in.IsProcessed,
		ProcessingError:  in.ProcessingError,
		MatchedCompanies: in.ParsedCompanies,
	}
}
