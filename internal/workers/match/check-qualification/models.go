// internal/workers/match/check-qualification/models.go
package checkqualification

import "jobboard-workers/internal/scoring"

// Input carries the match score to gate on. MatchScore is deliberately
// untyped: upstream services deliver it as a JSON number or as a formatted
// string ("10,500" style), and the handler coerces either form.
type Input struct {
	ResumeID   string      `json:"resumeId"`
	JobID      string      `json:"jobId"`
	MatchScore interface{} `json:"matchScore"`
}

type Output struct {
	Qualified  bool         `json:"qualified"`
	Threshold  float64      `json:"threshold"`
	MatchScore float64      `json:"matchScore"`
	Band       scoring.Band `json:"band"`
	Color      string       `json:"color"`
}
