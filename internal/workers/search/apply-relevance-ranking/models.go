// internal/workers/search/apply-relevance-ranking/models.go
package applyrelevanceranking

import "jobboard-workers/internal/scoring"

type Input struct {
	SearchResults []SearchResult `json:"searchResults"`
	JobDetails    []JobDetail    `json:"jobDetails"`
	Assessments   []JobMatch     `json:"assessments"`
}

type SearchResult struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"` // Elasticsearch _score
	Source map[string]interface{} `json:"_source"`
}

type JobDetail struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	CompanyName      string `json:"companyName"`
	PostedAt         string `json:"postedAt"` // ISO 8601
	ViewCount        int    `json:"viewCount"`
	ApplicationCount int    `json:"applicationCount"`
}

// JobMatch carries the candidate's 12-point match score for one job, as
// produced by the assessment pipeline. Jobs without an entry rank with a
// neutral match component.
type JobMatch struct {
	JobID      string  `json:"jobId"`
	MatchScore float64 `json:"matchScore"`
}

type Output struct {
	RankedJobs []RankedJob `json:"rankedJobs"`
}

type RankedJob struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	CompanyName     string       `json:"companyName"`
	FinalScore      float64      `json:"finalScore"`
	ESScore         float64      `json:"esScore"`
	MatchScore      float64      `json:"matchScore"`
	PopularityScore float64      `json:"popularityScore"`
	FreshnessScore  float64      `json:"freshnessScore"`
	MatchBand       scoring.Band `json:"matchBand"`
	MatchColor      string       `json:"matchColor"`
}
