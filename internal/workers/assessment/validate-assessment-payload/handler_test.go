// internal/workers/assessment/validate-assessment-payload/handler_test.go
package validateassessmentpayload

import (
	"context"
	"testing"

	"jobboard-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{}
}

func createScoredAssessmentData() map[string]interface{} {
	return map[string]interface{}{
		"skillsScore":     5.0,
		"experienceScore": 1.8,
		"educationScore":  1.8,
		"companyScore":    2.0,
		"matchScore":      10.6,
		"isProcessed":     true,
		"parsedCompanies": []interface{}{"Acme Corp", "Globex"},
	}
}

func createFailedAssessmentData() map[string]interface{} {
	return map[string]interface{}{
		"isProcessed":     true,
		"processingError": "resume text extraction failed",
	}
}

func createPendingAssessmentData() map[string]interface{} {
	return map[string]interface{}{
		"isProcessed": false,
	}
}

func createTestInput(data map[string]interface{}) *Input {
	return &Input{
		ResumeID:       "resume-123",
		JobID:          "job-123",
		AssessmentData: data,
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

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		inputData      map[string]interface{}
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:      "cleanly scored assessment",
			inputData: createScoredAssessmentData(),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 5.0, output.ValidatedAssessment["skillsScore"])
				assert.Equal(t, 10.6, output.ValidatedAssessment["matchScore"])
				assert.Equal(t, true, output.ValidatedAssessment["isProcessed"])
				assert.Equal(t, []string{"Acme Corp", "Globex"}, output.ValidatedAssessment["parsedCompanies"])
			},
		},
		{
			name:      "failed assessment with error only",
			inputData: createFailedAssessmentData(),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "resume text extraction failed", output.ValidatedAssessment["processingError"])
				assert.NotContains(t, output.ValidatedAssessment, "skillsScore")
			},
		},
		{
			name:      "pending assessment without scores",
			inputData: createPendingAssessmentData(),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, false, output.ValidatedAssessment["isProcessed"])
			},
		},
		{
			name: "failed assessment with zeroed scores",
			inputData: map[string]interface{}{
				"isProcessed":     true,
				"processingError": "OCR failed",
				"skillsScore":     0.0,
				"matchScore":      0.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), newTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.inputData))

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.True(t, output.IsValid)
			assert.Empty(t, output.ValidationErrors)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_ValidationFailed(t *testing.T) {
	tests := []struct {
		name      string
		inputData map[string]interface{}
	}{
		{
			name: "skills score above its scale",
			inputData: func() map[string]interface{} {
				data := createScoredAssessmentData()
				data["skillsScore"] = 7.0
				return data
			}(),
		},
		{
			name: "negative experience score",
			inputData: func() map[string]interface{} {
				data := createScoredAssessmentData()
				data["experienceScore"] = -0.5
				return data
			}(),
		},
		{
			name: "match score out of range",
			inputData: func() map[string]interface{} {
				data := createScoredAssessmentData()
				data["matchScore"] = 13.0
				return data
			}(),
		},
		{
			name: "match score drifts from the sub-score sum",
			inputData: func() map[string]interface{} {
				data := createScoredAssessmentData()
				data["matchScore"] = 9.0 // sub-scores sum to 10.6
				return data
			}(),
		},
		{
			name: "processing error on an unprocessed assessment",
			inputData: map[string]interface{}{
				"isProcessed":     false,
				"processingError": "too early",
			},
		},
		{
			name: "failed assessment carrying populated scores",
			inputData: map[string]interface{}{
				"isProcessed":     true,
				"processingError": "OCR failed",
				"skillsScore":     5.0,
			},
		},
		{
			name: "score with the wrong type",
			inputData: func() map[string]interface{} {
				data := createScoredAssessmentData()
				data["skillsScore"] = "five"
				return data
			}(),
		},
		{
			name: "non-string parsed company",
			inputData: func() map[string]interface{} {
				data := createScoredAssessmentData()
				data["parsedCompanies"] = []interface{}{"Acme Corp", 42}
				return data
			}(),
		},
		{
			name:      "missing isProcessed",
			inputData: map[string]interface{}{"skillsScore": 5.0},
		},
		{
			name: "scored assessment missing sub-scores",
			inputData: map[string]interface{}{
				"isProcessed": true,
				"matchScore":  10.6,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), newTestLogger(t))

			output, err := handler.Execute(context.Background(), createTestInput(tt.inputData))

			assert.Error(t, err)
			assert.Nil(t, output)
			assert.Contains(t, err.Error(), "ASSESSMENT_VALIDATION_FAILED")
		})
	}
}

func TestHandler_Execute_NilAssessmentData(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ResumeID: "resume-123"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrAssessmentValidationFailed)
}

// ==========================
// Unit Tests
// ==========================

func TestHandler_ValidateScore(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name         string
		data         map[string]interface{}
		field        string
		max          float64
		required     bool
		expectValue  *float64
		expectedCode string
	}{
		{
			name:        "valid float",
			data:        map[string]interface{}{"skillsScore": 4.5},
			field:       "skillsScore",
			max:         6,
			expectValue: func() *float64 { v := 4.5; return &v }(),
		},
		{
			name:        "integer accepted",
			data:        map[string]interface{}{"companyScore": 2},
			field:       "companyScore",
			max:         2,
			expectValue: func() *float64 { v := 2.0; return &v }(),
		},
		{
			name:         "missing and required",
			data:         map[string]interface{}{},
			field:        "skillsScore",
			max:          6,
			required:     true,
			expectedCode: "MISSING_REQUIRED",
		},
		{
			name:  "missing and optional",
			data:  map[string]interface{}{},
			field: "skillsScore",
			max:   6,
		},
		{
			name:         "wrong type",
			data:         map[string]interface{}{"skillsScore": true},
			field:        "skillsScore",
			max:          6,
			expectedCode: "INVALID_TYPE",
		},
		{
			name:         "above the scale",
			data:         map[string]interface{}{"educationScore": 2.1},
			field:        "educationScore",
			max:          2,
			expectedCode: "OUT_OF_RANGE",
		},
		{
			name:         "negative",
			data:         map[string]interface{}{"educationScore": -1.0},
			field:        "educationScore",
			max:          2,
			expectedCode: "OUT_OF_RANGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, errs := handler.validateScore(tt.data, tt.field, tt.max, tt.required)

			if tt.expectedCode != "" {
				if assert.Len(t, errs, 1) {
					assert.Equal(t, tt.expectedCode, errs[0].Code)
					assert.Equal(t, tt.field, errs[0].Field)
				}
				assert.Nil(t, value)
				return
			}

			assert.Empty(t, errs)
			if tt.expectValue != nil {
				if assert.NotNil(t, value) {
					assert.Equal(t, *tt.expectValue, *value)
				}
			} else {
				assert.Nil(t, value)
			}
		})
	}
}

// ==========================
// Edge Cases
// ==========================

func TestHandler_EdgeCases(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	t.Run("sum drift inside the tolerance passes", func(t *testing.T) {
		data := createScoredAssessmentData()
		data["matchScore"] = 10.605

		output, err := handler.Execute(context.Background(), createTestInput(data))
		assert.NoError(t, err)
		assert.True(t, output.IsValid)
	})

	t.Run("sum drift beyond the tolerance fails", func(t *testing.T) {
		data := createScoredAssessmentData()
		data["matchScore"] = 10.62

		output, err := handler.Execute(context.Background(), createTestInput(data))
		assert.Error(t, err)
		assert.Nil(t, output)
	})

	t.Run("empty processing error string is treated as absent", func(t *testing.T) {
		data := createScoredAssessmentData()
		data["processingError"] = "  "

		output, err := handler.Execute(context.Background(), createTestInput(data))
		assert.NoError(t, err)
		assert.NotContains(t, output.ValidatedAssessment, "processingError")
	})

	t.Run("empty parsed companies list", func(t *testing.T) {
		data := createScoredAssessmentData()
		data["parsedCompanies"] = []interface{}{}

		output, err := handler.Execute(context.Background(), createTestInput(data))
		assert.NoError(t, err)
		assert.Equal(t, []string{}, output.ValidatedAssessment["parsedCompanies"])
	})

	t.Run("company names are trimmed", func(t *testing.T) {
		data := createScoredAssessmentData()
		data["parsedCompanies"] = []interface{}{"  Acme Corp  "}

		output, err := handler.Execute(context.Background(), createTestInput(data))
		assert.NoError(t, err)
		assert.Equal(t, []string{"Acme Corp"}, output.ValidatedAssessment["parsedCompanies"])
	})

	t.Run("all scores at their maxima", func(t *testing.T) {
		data := map[string]interface{}{
			"skillsScore":     6.0,
			"experienceScore": 2.0,
			"educationScore":  2.0,
			"companyScore":    2.0,
			"matchScore":      12.0,
			"isProcessed":     true,
		}

		output, err := handler.Execute(context.Background(), createTestInput(data))
		assert.NoError(t, err)
		assert.True(t, output.IsValid)
	})

	t.Run("cancelled context still validates synchronously", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		output, err := handler.Execute(ctx, createTestInput(createScoredAssessmentData()))
		assert.NoError(t, err)
		assert.NotNil(t, output)
	})
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	handler := NewHandler(createTestConfig(), newTestLogger(&testing.T{}))
	input := createTestInput(createScoredAssessmentData())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
