// internal/scoring/scoring_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func scoredAssessment(skills, experience, education, company float64, companies ...string) Assessment {
	return Assessment{
		SkillsScore:      skills,
		ExperienceScore:  experience,
		EducationScore:   education,
		CompanyScore:     company,
		MatchScore:       skills + experience + education + company,
		IsProcessed:      true,
		MatchedCompanies: companies,
	}
}

func codes(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Code
	}
	return out
}

// ==========================
// Band Classification Tests
// ==========================

func TestClassify_CutPoints(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		scale    float64
		expected Band
	}{
		// Cut points on the 12-point scale itself.
		{"overall exactly 8 is excellent", 8, OverallScale, BandExcellent},
		{"overall just below 8 is good", 7.999, OverallScale, BandGood},
		{"overall exactly 6 is good", 6, OverallScale, BandGood},
		{"overall just below 6 is fair", 5.999, OverallScale, BandFair},
		{"overall exactly 4 is fair", 4, OverallScale, BandFair},
		{"overall just below 4 needs improvement", 3.999, OverallScale, BandNeedsImprovement},
		{"overall zero needs improvement", 0, OverallScale, BandNeedsImprovement},
		{"overall max is excellent", 12, OverallScale, BandExcellent},

		// The same cut points after rescaling a 6-point sub-score:
		// 4/6 rescales to 8/12, 3/6 to 6/12, 2/6 to 4/12.
		{"skills 4 of 6 is excellent", 4, SkillsScale, BandExcellent},
		{"skills just below 4 of 6 is good", 3.999, SkillsScale, BandGood},
		{"skills 3 of 6 is good", 3, SkillsScale, BandGood},
		{"skills 2 of 6 is fair", 2, SkillsScale, BandFair},
		{"skills just below 2 of 6 needs improvement", 1.999, SkillsScale, BandNeedsImprovement},

		// And a 2-point sub-score: 4/3/2 on the 12-point scale map back to
		// 0.666../0.5/0.333.. of 2.
		{"experience 2 of 2 is excellent", 2, ExperienceScale, BandExcellent},
		{"experience 1.5 of 2 is excellent", 1.5, ExperienceScale, BandExcellent},
		{"experience 1 of 2 is good", 1, ExperienceScale, BandGood},
		{"experience 0.75 of 2 is fair", 0.75, ExperienceScale, BandFair},
		{"experience 0.5 of 2 needs improvement", 0.5, ExperienceScale, BandNeedsImprovement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.score, tt.scale))
		})
	}
}

func TestClassify_DefensiveClamping(t *testing.T) {
	// Out-of-range upstream scores are a producer contract violation; the
	// classifier clamps instead of validating.
	assert.Equal(t, BandNeedsImprovement, Classify(-3, OverallScale))
	assert.Equal(t, BandExcellent, Classify(99, OverallScale))

	// A non-positive scale never divides.
	assert.Equal(t, BandNeedsImprovement, Classify(5, 0))
	assert.Equal(t, BandNeedsImprovement, Classify(5, -1))
}

func TestRescale_Clamping(t *testing.T) {
	assert.Equal(t, 0.0, Rescale(-1, OverallScale))
	assert.Equal(t, 12.0, Rescale(15, OverallScale))
	assert.Equal(t, 0.0, Rescale(5, 0))
	assert.Equal(t, 10.0, Rescale(5, 6))
	assert.Equal(t, 9.0, Rescale(1.5, 2))
}

func TestBandColors(t *testing.T) {
	assert.Equal(t, "green", BandExcellent.Color())
	assert.Equal(t, "blue", BandGood.Color())
	assert.Equal(t, "amber", BandFair.Color())
	assert.Equal(t, "red", BandNeedsImprovement.Color())
}

// ==========================
// Qualification Gate Tests
// ==========================

func TestQualifies_InclusiveBoundary(t *testing.T) {
	assert.False(t, Qualifies(4.999))
	assert.True(t, Qualifies(5.0))
	assert.True(t, Qualifies(5.001))
	assert.False(t, Qualifies(0))
	assert.True(t, Qualifies(12))
}

func TestQualifies_MatchesThresholdAcrossRange(t *testing.T) {
	for score := 0.0; score <= 12.0; score += 0.25 {
		assert.Equal(t, score >= 5, Qualifies(score), "score %.2f", score)
	}
}

// ==========================
// Recommendation Rule Tests
// ==========================

func TestRecommend_RuleOrderIsDeclarationOrder(t *testing.T) {
	tests := []struct {
		name            string
		assessment      Assessment
		targetCompanies []string
		expectedCodes   []string
	}{
		{
			// skills 2 < 4 fires; experience/education at max do not;
			// company 0 without target context fires nothing; match 6 is
			// neither strong (>=7) nor below threshold (<5).
			name:          "mid skills gap only",
			assessment:    scoredAssessment(2, 2, 2, 0),
			expectedCodes: []string{"IMPROVE_SKILLS_MATCH"},
		},
		{
			// company 2 > 0 and match 10.6 >= 7: the two positive messages,
			// company advantage first.
			name:            "strong match with company bonus",
			assessment:      scoredAssessment(5, 1.8, 1.8, 2, "Acme Corp"),
			targetCompanies: []string{"Acme Corp", "Globex"},
			expectedCodes:   []string{"COMPANY_MATCH_ADVANTAGE", "STRONG_OVERALL_MATCH"},
		},
		{
			// Everything low: skills, experience, education, missing company
			// context with targets present, and the below-threshold tailor
			// rule, in declared order.
			name:            "weak match fires the full gap list",
			assessment:      scoredAssessment(1, 0.5, 1, 0),
			targetCompanies: []string{"Initech"},
			expectedCodes: []string{
				"IMPROVE_SKILLS_MATCH",
				"EMPHASIZE_EXPERIENCE",
				"ADD_EDUCATION",
				"HIGHLIGHT_SIMILAR_COMPANIES",
				"TAILOR_RESUME",
			},
		},
		{
			// company 0 and no target context: the similar-companies rule
			// stays silent.
			name:          "no company context suppresses the similar-companies rule",
			assessment:    scoredAssessment(1, 0.5, 1, 0),
			expectedCodes: []string{"IMPROVE_SKILLS_MATCH", "EMPHASIZE_EXPERIENCE", "ADD_EDUCATION", "TAILOR_RESUME"},
		},
		{
			// Boundary behavior: 4 is not < 4 and 1.5 is not < 1.5, so no
			// gap rules fire; match 9 >= 7 fires the strong-match message.
			name:          "gap rule boundaries are exclusive",
			assessment:    scoredAssessment(4, 1.5, 1.5, 2),
			expectedCodes: []string{"COMPANY_MATCH_ADVANTAGE", "STRONG_OVERALL_MATCH"},
		},
		{
			// Perfect score: only the positive messages.
			name:          "perfect score",
			assessment:    scoredAssessment(6, 2, 2, 2),
			expectedCodes: []string{"COMPANY_MATCH_ADVANTAGE", "STRONG_OVERALL_MATCH"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(tt.assessment, tt.targetCompanies)
			assert.Equal(t, tt.expectedCodes, codes(recs))
		})
	}
}

func TestRecommend_CompanyRulesNeverCoFire(t *testing.T) {
	targets := []string{"Acme Corp"}
	for _, companyScore := range []float64{0, 0.5, 1, 2} {
		recs := Recommend(scoredAssessment(6, 2, 2, companyScore), targets)
		got := codes(recs)

		hasGap := false
		hasAdvantage := false
		for _, c := range got {
			if c == "HIGHLIGHT_SIMILAR_COMPANIES" {
				hasGap = true
			}
			if c == "COMPANY_MATCH_ADVANTAGE" {
				hasAdvantage = true
			}
		}
		assert.False(t, hasGap && hasAdvantage, "companyScore %.1f fired both branches", companyScore)
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	a := scoredAssessment(1, 0.5, 1, 0)
	targets := []string{"Initech"}

	first := Recommend(a, targets)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Recommend(a, targets))
	}
}

func TestRecommend_SeverityFlags(t *testing.T) {
	recs := Recommend(scoredAssessment(1, 0.5, 1, 0), nil)

	assert.Equal(t, SeverityHigh, recs[0].Severity, "skills gap is the highest-impact rule")
	last := recs[len(recs)-1]
	assert.Equal(t, "TAILOR_RESUME", last.Code)
	assert.Equal(t, SeverityHigh, last.Severity)
}

// ==========================
// State Machine Tests
// ==========================

func TestAssessmentState(t *testing.T) {
	tests := []struct {
		name       string
		assessment Assessment
		expected   State
	}{
		{"unprocessed is pending", Assessment{IsProcessed: false}, StatePending},
		{"unprocessed stays pending even with an error set", Assessment{IsProcessed: false, ProcessingError: "early"}, StatePending},
		{"processed with error is failed", Assessment{IsProcessed: true, ProcessingError: "OCR failed"}, StateFailed},
		{"processed without error is scored", Assessment{IsProcessed: true, MatchScore: 6}, StateScored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.assessment.State())
		})
	}
}

func TestTotal_MatchesSubScoreSum(t *testing.T) {
	a := scoredAssessment(5, 1.8, 1.8, 2)
	assert.InDelta(t, 10.6, a.Total(), 0.0001)
	assert.InDelta(t, a.MatchScore, a.Total(), 0.0001)
}

// ==========================
// Presentation Tests
// ==========================

func TestPresent_PendingCarriesNoScorecard(t *testing.T) {
	p := Present(Assessment{IsProcessed: false}, nil)

	assert.Equal(t, StatePending, p.State)
	assert.Nil(t, p.Scorecard)
	assert.Empty(t, p.ProcessingError)
}

func TestPresent_FailedSurfacesErrorVerbatim(t *testing.T) {
	p := Present(Assessment{IsProcessed: true, ProcessingError: "OCR failed"}, nil)

	assert.Equal(t, StateFailed, p.State)
	assert.Equal(t, "OCR failed", p.ProcessingError)
	assert.Nil(t, p.Scorecard)
}

func TestPresent_ScoredBuildsFullScorecard(t *testing.T) {
	a := scoredAssessment(2, 2, 2, 0)
	p := Present(a, nil)

	assert.Equal(t, StateScored, p.State)
	if !assert.NotNil(t, p.Scorecard) {
		return
	}

	sc := p.Scorecard
	assert.True(t, sc.Qualifies) // 6 >= 5

	// 6/12 lands on the good cut point.
	assert.Equal(t, BandGood, sc.Overall.Band)
	assert.Equal(t, "blue", sc.Overall.Color)
	assert.Equal(t, 6.0, sc.Overall.Score)

	// 2/6 rescales to 4/12: fair. 2/2 rescales to 12: excellent.
	assert.Equal(t, BandFair, sc.Skills.Band)
	assert.Equal(t, BandExcellent, sc.Experience.Band)
	assert.Equal(t, BandExcellent, sc.Education.Band)
	// 0/2 is the lowest band.
	assert.Equal(t, BandNeedsImprovement, sc.Company.Band)

	assert.Equal(t, []string{"IMPROVE_SKILLS_MATCH"}, codes(sc.Recommendations))
}

func TestPresent_StrongScenario(t *testing.T) {
	a := scoredAssessment(5, 1.8, 1.8, 2, "Acme Corp")
	p := Present(a, []string{"Acme Corp", "Globex"})

	assert.Equal(t, StateScored, p.State)
	sc := p.Scorecard
	assert.True(t, sc.Qualifies)
	assert.Equal(t, BandExcellent, sc.Overall.Band) // 10.6 >= 8
	assert.Equal(t, []string{"COMPANY_MATCH_ADVANTAGE", "STRONG_OVERALL_MATCH"}, codes(sc.Recommendations))
	assert.Equal(t, []string{"Acme Corp"}, sc.MatchedCompanies)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkPresent(b *testing.B) {
	a := scoredAssessment(5, 1.8, 1.8, 2, "Acme Corp")
	targets := []string{"Acme Corp", "Globex", "Initech"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Present(a, targets)
	}
}

func BenchmarkClassify(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Classify(7.3, OverallScale)
	}
}
