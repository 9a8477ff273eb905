// internal/scoring/scoring.go
//
// Pure presentation logic for resume-to-job match assessments: banding,
// the qualification gate and recommendation derivation. Everything here is
// a total, side-effect-free function over an already-resolved assessment
// snapshot, safe for concurrent use without coordination.
package scoring

// Band cut points, expressed against the 12-point overall scale. Sub-scores
// are rescaled to their 12-point equivalent before comparison so the same
// cut points apply to every sub-score and the total alike.
const (
	bandExcellentMin = 8.0
	bandGoodMin      = 6.0
	bandFairMin      = 4.0
)

// Recommendation cut points. The 1.5 experience/education values are fixed
// cutoffs from the scoring rubric, not derived percentages.
const (
	skillsGapMax     = 4.0
	experienceGapMax = 1.5
	educationGapMax  = 1.5
	strongMatchMin   = 7.0
)

// Classify maps a score on the given scale to its qualitative band.
// Total function: every input maps to exactly one band, out-of-range
// scores are clamped and a non-positive scale lands in the lowest band
// instead of dividing.
func Classify(score, scale float64) Band {
	rescaled := Rescale(score, scale)
	switch {
	case rescaled >= bandExcellentMin:
		return BandExcellent
	case rescaled >= bandGoodMin:
		return BandGood
	case rescaled >= bandFairMin:
		return BandFair
	default:
		return BandNeedsImprovement
	}
}

// Rescale converts a score on the given scale to its 12-point equivalent,
// clamped to [0, 12]. A non-positive scale yields 0 rather than dividing.
func Rescale(score, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return clamp(score*OverallScale/scale, 0, OverallScale)
}

// Qualifies reports whether a 12-point match score passes the baseline
// eligibility gate. The threshold is inclusive: 5.0 qualifies, 4.999 does
// not.
func Qualifies(matchScore float64) bool {
	return matchScore >= QualificationThreshold
}

// Recommend derives the ordered improvement list for a scored assessment.
// Rules are evaluated in a fixed priority order and each appends at most
// one recommendation; the output order equals the rule order and is part
// of the contract. targetCompanies is the hiring company's peer/vendor
// list, passed explicitly by the caller.
//
// Callers must not invoke Recommend for pending or failed assessments;
// Present handles that dispatch.
func Recommend(a Assessment, targetCompanies []string) []Recommendation {
	recs := make([]Recommendation, 0, 4)

	if a.SkillsScore < skillsGapMax {
		recs = append(recs, Recommendation{
			Code:     "IMPROVE_SKILLS_MATCH",
			Severity: SeverityHigh,
			Message:  "Improve your technical skills match for this role",
		})
	}

	if a.ExperienceScore < experienceGapMax {
		recs = append(recs, Recommendation{
			Code:     "EMPHASIZE_EXPERIENCE",
			Severity: SeverityMedium,
			Message:  "Emphasize relevant work experience on your resume",
		})
	}

	if a.EducationScore < educationGapMax {
		recs = append(recs, Recommendation{
			Code:     "ADD_EDUCATION",
			Severity: SeverityMedium,
			Message:  "Include relevant certifications and education",
		})
	}

	// The next two rules are complementary branches on companyScore and
	// never fire together.
	if a.CompanyScore == 0 && len(targetCompanies) > 0 {
		recs = append(recs, Recommendation{
			Code:     "HIGHLIGHT_SIMILAR_COMPANIES",
			Severity: SeverityMedium,
			Message:  "Highlight experience with companies similar to this employer",
		})
	}

	if a.CompanyScore > 0 {
		recs = append(recs, Recommendation{
			Code:     "COMPANY_MATCH_ADVANTAGE",
			Severity: SeverityPositive,
			Message:  "Your experience with matched companies is an advantage for this role",
		})
	}

	if a.MatchScore >= strongMatchMin {
		recs = append(recs, Recommendation{
			Code:     "STRONG_OVERALL_MATCH",
			Severity: SeverityPositive,
			Message:  "Your profile is a strong overall match for this position",
		})
	}

	if a.MatchScore < QualificationThreshold {
		recs = append(recs, Recommendation{
			Code:     "TAILOR_RESUME",
			Severity: SeverityHigh,
			Message:  "Tailor your resume to the job requirements",
		})
	}

	return recs
}

// Present derives the full display view of an assessment, dispatching on
// its state. Pending and failed assessments carry no scorecard; a failed
// assessment's processing error passes through verbatim, never transformed
// or retried here.
func Present(a Assessment, targetCompanies []string) Presentation {
	switch a.State() {
	case StatePending:
		return Presentation{State: StatePending}
	case StateFailed:
		return Presentation{State: StateFailed, ProcessingError: a.ProcessingError}
	}

	return Presentation{
		State: StateScored,
		Scorecard: &Scorecard{
			Qualifies:        Qualifies(a.MatchScore),
			Overall:          bandFor(a.MatchScore, OverallScale),
			Skills:           bandFor(a.SkillsScore, SkillsScale),
			Experience:       bandFor(a.ExperienceScore, ExperienceScale),
			Education:        bandFor(a.EducationScore, EducationScale),
			Company:          bandFor(a.CompanyScore, CompanyScale),
			Recommendations:  Recommend(a, targetCompanies),
			MatchedCompanies: a.MatchedCompanies,
		},
	}
}

func bandFor(score, scale float64) ScoreBand {
	band := Classify(score, scale)
	return ScoreBand{Score: score, Band: band, Color: band.Color()}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
