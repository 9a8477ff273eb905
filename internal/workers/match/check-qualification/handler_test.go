// internal/workers/match/check-qualification/handler_test.go
package checkqualification

import (
	"context"
	"testing"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{}
}

func createTestInput(matchScore interface{}) *Input {
	return &Input{
		ResumeID:   "resume-123",
		JobID:      "job-123",
		MatchScore: matchScore,
	}
}

// Create a test logger that implements your logger.Logger interface
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
	return tl // Simple implementation for testing
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (t *testLogger) With(fields map[string]interface{}) logger.Logger {
	return t
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_QualificationGate(t *testing.T) {
	tests := []struct {
		name          string
		matchScore    interface{}
		expectedScore float64
		expectedPass  bool
		expectedBand  scoring.Band
	}{
		{"well above threshold", 10.6, 10.6, true, scoring.BandExcellent},
		{"exactly the threshold", 5.0, 5.0, true, scoring.BandFair},
		{"just below the threshold", 4.999, 4.999, false, scoring.BandFair},
		{"good band qualifies", 6.0, 6.0, true, scoring.BandGood},
		{"zero score", 0.0, 0.0, false, scoring.BandNeedsImprovement},
		{"max score", 12.0, 12.0, true, scoring.BandExcellent},
		{"above the scale clamps", 15.0, 12.0, true, scoring.BandExcellent},
		{"negative clamps to zero", -3.0, 0.0, false, scoring.BandNeedsImprovement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), newTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.matchScore))

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedPass, output.Qualified)
			assert.InDelta(t, tt.expectedScore, output.MatchScore, 0.0001)
			assert.Equal(t, tt.expectedBand, output.Band)
			assert.Equal(t, tt.expectedBand.Color(), output.Color)
			assert.Equal(t, 5.0, output.Threshold)
		})
	}
}

func TestHandler_Execute_StringCoercion(t *testing.T) {
	tests := []struct {
		name          string
		matchScore    interface{}
		expectedScore float64
		expectedPass  bool
	}{
		{"plain string number", "7.5", 7.5, true},
		{"string with whitespace", "  6.0  ", 6.0, true},
		{"integer string", "4", 4.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), newTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.matchScore))

			assert.NoError(t, err)
			assert.InDelta(t, tt.expectedScore, output.MatchScore, 0.0001)
			assert.Equal(t, tt.expectedPass, output.Qualified)
		})
	}
}

func TestHandler_Execute_UnparseableInput(t *testing.T) {
	tests := []struct {
		name       string
		matchScore interface{}
	}{
		{"non-numeric string", "not-a-score"},
		{"missing value", nil},
		{"boolean", true},
		{"object", map[string]interface{}{"value": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), newTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.matchScore))

			assert.Error(t, err)
			assert.Nil(t, output)
		})
	}
}

// ==========================
// Unit Tests
// ==========================

func TestHandler_ParseScore(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name      string
		raw       interface{}
		expected  float64
		expectErr bool
	}{
		{"float64", 7.3, 7.3, false},
		{"int", 8, 8.0, false},
		{"string", "9.25", 9.25, false},
		{"string with commas", "1,234.5", 1234.5, false},
		{"empty string", "", 0, true},
		{"nil", nil, 0, true},
		{"slice", []interface{}{5}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := handler.parseScore(tt.raw)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}
}

func TestHandler_Execute_ThresholdMatchesScoringPackage(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	for score := 0.0; score <= 12.0; score += 0.5 {
		output, err := handler.Execute(context.Background(), createTestInput(score))
		assert.NoError(t, err)
		assert.Equal(t, scoring.Qualifies(score), output.Qualified, "score %.1f", score)
	}
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	handler := NewHandler(createTestConfig(), newTestLogger(&testing.T{}))
	input := createTestInput(7.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
