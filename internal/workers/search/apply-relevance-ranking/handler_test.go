// internal/workers/search/apply-relevance-ranking/handler_test.go
package applyrelevanceranking

import (
	"context"
	"testing"
	"time"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		MaxItems: 100,
		Timeout:  30 * time.Second,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func recentTimestamp(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RanksDescending(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := &Input{
		SearchResults: []SearchResult{
			{ID: "job-1", Score: 2.0},
			{ID: "job-2", Score: 9.5},
			{ID: "job-3", Score: 5.0},
		},
		JobDetails: []JobDetail{
			{ID: "job-1", Title: "Backend Engineer", CompanyName: "Acme", PostedAt: recentTimestamp(3), ViewCount: 100, ApplicationCount: 20},
			{ID: "job-2", Title: "Platform Engineer", CompanyName: "Globex", PostedAt: recentTimestamp(3), ViewCount: 400, ApplicationCount: 50},
			{ID: "job-3", Title: "SRE", CompanyName: "Initech", PostedAt: recentTimestamp(3), ViewCount: 200, ApplicationCount: 10},
		},
		Assessments: []JobMatch{
			{JobID: "job-1", MatchScore: 6.0},
			{JobID: "job-2", MatchScore: 10.0},
			{JobID: "job-3", MatchScore: 4.0},
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Len(t, output.RankedJobs, 3)
	assert.Equal(t, "job-2", output.RankedJobs[0].ID)
	for i := 1; i < len(output.RankedJobs); i++ {
		assert.GreaterOrEqual(t, output.RankedJobs[i-1].FinalScore, output.RankedJobs[i].FinalScore)
	}
}

func TestHandler_Execute_DeduplicatesAndSkipsMissingDetails(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := &Input{
		SearchResults: []SearchResult{
			{ID: "job-1", Score: 5.0},
			{ID: "job-1", Score: 5.0},
			{ID: "job-missing", Score: 8.0},
		},
		JobDetails: []JobDetail{
			{ID: "job-1", Title: "Backend Engineer", PostedAt: recentTimestamp(1)},
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Len(t, output.RankedJobs, 1)
	assert.Equal(t, "job-1", output.RankedJobs[0].ID)
}

func TestHandler_Execute_NeutralMatchWithoutAssessment(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := &Input{
		SearchResults: []SearchResult{{ID: "job-1", Score: 5.0}},
		JobDetails:    []JobDetail{{ID: "job-1", Title: "Backend Engineer", PostedAt: recentTimestamp(1)}},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Len(t, output.RankedJobs, 1)
	assert.Equal(t, neutralMatchScore, output.RankedJobs[0].MatchScore)
	// Neutral 50/100 corresponds to 6 of 12, the Good band.
	assert.Equal(t, scoring.BandGood, output.RankedJobs[0].MatchBand)
	assert.Equal(t, "blue", output.RankedJobs[0].MatchColor)
}

func TestHandler_Execute_MatchBandAnnotation(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name          string
		matchScore    float64
		expectedBand  scoring.Band
		expectedMatch float64
	}{
		{"excellent", 10.0, scoring.BandExcellent, 10.0 / 12.0 * 100.0},
		{"fair", 4.5, scoring.BandFair, 4.5 / 12.0 * 100.0},
		{"needs improvement", 2.0, scoring.BandNeedsImprovement, 2.0 / 12.0 * 100.0},
		{"out-of-range clamps", 20.0, scoring.BandExcellent, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &Input{
				SearchResults: []SearchResult{{ID: "job-1", Score: 5.0}},
				JobDetails:    []JobDetail{{ID: "job-1", Title: "Backend Engineer", PostedAt: recentTimestamp(1)}},
				Assessments:   []JobMatch{{JobID: "job-1", MatchScore: tt.matchScore}},
			}

			output, err := handler.Execute(context.Background(), input)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBand, output.RankedJobs[0].MatchBand)
			assert.InDelta(t, tt.expectedMatch, output.RankedJobs[0].MatchScore, 0.0001)
		})
	}
}

func TestHandler_Execute_TruncatesToMaxItems(t *testing.T) {
	cfg := createTestConfig()
	cfg.MaxItems = 2
	handler := NewHandler(cfg, newTestLogger(t))

	input := &Input{
		SearchResults: []SearchResult{
			{ID: "job-1", Score: 3.0},
			{ID: "job-2", Score: 6.0},
			{ID: "job-3", Score: 9.0},
		},
		JobDetails: []JobDetail{
			{ID: "job-1", PostedAt: recentTimestamp(1)},
			{ID: "job-2", PostedAt: recentTimestamp(1)},
			{ID: "job-3", PostedAt: recentTimestamp(1)},
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Len(t, output.RankedJobs, 2)
	assert.Equal(t, "job-3", output.RankedJobs[0].ID)
	assert.Equal(t, "job-2", output.RankedJobs[1].ID)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNilInput)
	assert.Nil(t, output)
}

// ==========================
// Unit Tests
// ==========================

func TestHandler_CalculateFreshnessScore(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name     string
		postedAt string
		expected float64
	}{
		{"posted today", recentTimestamp(0), 100.0},
		{"posted this week", recentTimestamp(6), 100.0},
		{"two weeks old", recentTimestamp(14), 80.0},
		{"six weeks old", recentTimestamp(45), 60.0},
		{"ten weeks old", recentTimestamp(75), 40.0},
		{"four months old", recentTimestamp(120), 20.0},
		{"missing timestamp", "", 50.0},
		{"invalid timestamp", "yesterday", 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handler.calculateFreshnessScore(tt.postedAt))
		})
	}
}

func TestHandler_Execute_ComponentWeights(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := &Input{
		SearchResults: []SearchResult{{ID: "job-1", Score: 10.0}},
		JobDetails: []JobDetail{
			{ID: "job-1", PostedAt: recentTimestamp(1), ViewCount: 900, ApplicationCount: 100},
		},
		Assessments: []JobMatch{{JobID: "job-1", MatchScore: 12.0}},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	rj := output.RankedJobs[0]
	assert.Equal(t, 100.0, rj.ESScore)
	assert.Equal(t, 100.0, rj.MatchScore)
	assert.Equal(t, 100.0, rj.PopularityScore)
	assert.Equal(t, 100.0, rj.FreshnessScore)
	assert.InDelta(t, 100.0, rj.FinalScore, 0.0001)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	handler := NewHandler(createTestConfig(), newTestLogger(&testing.T{}))

	results := make([]SearchResult, 100)
	details := make([]JobDetail, 100)
	for i := 0; i < 100; i++ {
		id := string(rune('a'+i%26)) + "-job"
		results[i] = SearchResult{ID: id, Score: float64(i % 10)}
		details[i] = JobDetail{ID: id, PostedAt: recentTimestamp(i % 200), ViewCount: i * 3}
	}
	input := &Input{SearchResults: results, JobDetails: details}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
