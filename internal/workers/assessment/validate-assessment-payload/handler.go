// internal/workers/assessment/validate-assessment-payload/handler.go
package validateassessmentpayload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"jobboard-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-assessment-payload"
)

var (
	ErrAssessmentValidationFailed = errors.New("ASSESSMENT_VALIDATION_FAILED")
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "ASSESSMENT_VALIDATION_FAILED", err.Error())
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	data := input.AssessmentData
	if data == nil {
		return nil, fmt.Errorf("%w: assessmentData is required", ErrAssessmentValidationFailed)
	}

	validated := make(map[string]interface{})
	var validationErrors []ValidationError

	// Processing state
	isProcessed := false
	if raw, ok := data["isProcessed"]; ok {
		if b, ok := raw.(bool); ok {
			isProcessed = b
			validated["isProcessed"] = b
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "isProcessed",
				Code:    "INVALID_TYPE",
				Message: "isProcessed must be a boolean",
			})
		}
	} else {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "isProcessed",
			Code:    "MISSING_REQUIRED",
			Message: "isProcessed is required",
		})
	}

	processingError := ""
	if raw, ok := data["processingError"]; ok {
		if s, ok := raw.(string); ok {
			processingError = strings.TrimSpace(s)
			if processingError != "" {
				validated["processingError"] = processingError
			}
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "processingError",
				Code:    "INVALID_TYPE",
				Message: "processingError must be a string",
			})
		}
	}

	if processingError != "" && !isProcessed {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "processingError",
			Code:    "STATE_INCONSISTENT",
			Message: "processingError is only meaningful on a processed assessment",
		})
	}

	// Scores are mandatory for a cleanly processed assessment; a failed or
	// pending one may omit them.
	scoresRequired := isProcessed && processingError == ""

	scores := make(map[string]float64)
	for _, scale := range scoreScales {
		value, errs := h.validateScore(data, scale.Field, scale.Max, scoresRequired)
		validationErrors = append(validationErrors, errs...)
		if value != nil {
			scores[scale.Field] = *value
			validated[scale.Field] = *value
		}
	}

	matchScore, matchErrs := h.validateScore(data, "matchScore", matchScoreMax, scoresRequired)
	validationErrors = append(validationErrors, matchErrs...)
	if matchScore != nil {
		validated["matchScore"] = *matchScore
	}

	// Sum invariant, checked only once every term parsed cleanly.
	if len(scores) == len(scoreScales) && matchScore != nil {
		sum := 0.0
		for _, v := range scores {
			sum += v
		}
		if math.Abs(sum-*matchScore) > sumTolerance {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "matchScore",
				Code:    "SUM_MISMATCH",
				Message: fmt.Sprintf("matchScore %.2f does not equal the sub-score sum %.2f", *matchScore, sum),
			})
		}
	}

	// A failed analysis produces no scores; both present at once means the
	// upstream pipeline is emitting contradictory state.
	if processingError != "" {
		for _, scale := range scoreScales {
			if value, ok := scores[scale.Field]; ok && value > 0 {
				validationErrors = append(validationErrors, ValidationError{
					Field:   scale.Field,
					Code:    "STATE_INCONSISTENT",
					Message: "a failed assessment must not carry populated scores",
				})
			}
		}
	}

	if raw, ok := data["parsedCompanies"]; ok {
		if arr, ok := raw.([]interface{}); ok {
			companies := make([]string, 0, len(arr))
			clean := true
			for i, el := range arr {
				s, ok := el.(string)
				if !ok {
					clean = false
					validationErrors = append(validationErrors, ValidationError{
						Field:   fmt.Sprintf("parsedCompanies[%d]", i),
						Code:    "INVALID_TYPE",
						Message: "parsedCompanies elements must be strings",
					})
					continue
				}
				companies = append(companies, strings.TrimSpace(s))
			}
			if clean {
				validated["parsedCompanies"] = companies
			}
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "parsedCompanies",
				Code:    "INVALID_TYPE",
				Message: "parsedCompanies must be an array of strings",
			})
		}
	}

	isValid := len(validationErrors) == 0
	h.logger.Info("validation completed", map[string]interface{}{
		"resumeId":   input.ResumeID,
		"jobId":      input.JobID,
		"isValid":    isValid,
		"errorCount": len(validationErrors),
	})

	if !isValid {
		return nil, fmt.Errorf("%w: %d validation errors", ErrAssessmentValidationFailed, len(validationErrors))
	}

	return &Output{
		IsValid:             true,
		ValidatedAssessment: validated,
		ValidationErrors:    []ValidationError{},
	}, nil
}

func (h *Handler) validateScore(data map[string]interface{}, field string, max float64, required bool) (*float64, []ValidationError) {
	raw, ok := data[field]
	if !ok {
		if required {
			return nil, []ValidationError{{
				Field:   field,
				Code:    "MISSING_REQUIRED",
				Message: fmt.Sprintf("%s is required for a scored assessment", field),
			}}
		}
		return nil, nil
	}

	num, ok := h.parseNumber(raw)
	if !ok {
		return nil, []ValidationError{{
			Field:   field,
			Code:    "INVALID_TYPE",
			Message: fmt.Sprintf("%s must be a number", field),
		}}
	}

	if num < 0 || num > max {
		return nil, []ValidationError{{
			Field:   field,
			Code:    "OUT_OF_RANGE",
			Message: fmt.Sprintf("%s must be between 0 and %g", field, max),
		}}
	}

	return &num, nil
}

func (h *Handler) parseNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
