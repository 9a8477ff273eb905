// internal/workers/search/parse-search-filters/handler.go
package parsesearchfilters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobboard-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-search-filters"

var (
	ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")
)

// Salary ceiling accepted from callers; anything above is treated as malformed
// input and falls back to the default.
const salaryCap = 1000000

var validSeniorities = map[string]bool{
	"intern": true, "junior": true, "mid": true, "senior": true, "lead": true,
}

var validSortOptions = map[string]bool{
	"relevance": true, "posted_at": true, "salary_min": true,
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "INVALID_FILTER_FORMAT", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.RawFilters == nil {
		input.RawFilters = make(map[string]interface{})
	}

	parsed := ParsedFilters{
		Keywords:    "",
		Locations:   []string{},
		Seniority:   []string{},
		SortBy:      "relevance",
		Pagination:  Pagination{Page: 1, Size: 20},
		SalaryRange: SalaryRange{Min: 0, Max: salaryCap},
	}

	if keywordsRaw, ok := input.RawFilters["keywords"]; ok {
		if s, ok := keywordsRaw.(string); ok {
			parsed.Keywords = strings.TrimSpace(s)
		}
	}

	if locationsRaw, ok := input.RawFilters["locations"]; ok {
		parsed.Locations = h.parseStringArray(locationsRaw)
	}

	if seniorityRaw, ok := input.RawFilters["seniority"]; ok {
		parsed.Seniority = h.parseStringArray(seniorityRaw)
		for _, s := range parsed.Seniority {
			if !validSeniorities[s] {
				return nil, fmt.Errorf("%w: invalid seniority '%s'", ErrInvalidFilterFormat, s)
			}
		}
	}

	if remoteRaw, ok := input.RawFilters["remote"]; ok {
		switch v := remoteRaw.(type) {
		case bool:
			parsed.Remote = v
		case string:
			parsed.Remote = strings.EqualFold(strings.TrimSpace(v), "true")
		}
	}

	if salaryRaw, ok := input.RawFilters["salaryRange"]; ok {
		if salMap, ok := salaryRaw.(map[string]interface{}); ok {
			if minRaw, exists := salMap["min"]; exists {
				if min, err := h.parseInt(minRaw); err == nil {
					if min >= 0 {
						parsed.SalaryRange.Min = min
					}
				}
			}

			if maxRaw, exists := salMap["max"]; exists {
				if max, err := h.parseInt(maxRaw); err == nil {
					// Out-of-range values fall back to the default cap.
					if max > 0 && max <= salaryCap {
						parsed.SalaryRange.Max = max
					}
				}
			}

			if parsed.SalaryRange.Min > parsed.SalaryRange.Max {
				return nil, fmt.Errorf("%w: salary min (%d) > max (%d)",
					ErrInvalidFilterFormat, parsed.SalaryRange.Min, parsed.SalaryRange.Max)
			}
		}
	}

	if sortByRaw, ok := input.RawFilters["sortBy"]; ok {
		if s, ok := sortByRaw.(string); ok {
			s = strings.TrimSpace(s)
			if validSortOptions[s] {
				parsed.SortBy = s
			} else {
				return nil, fmt.Errorf("%w: invalid sortBy '%s'", ErrInvalidFilterFormat, s)
			}
		}
	}

	if paginationRaw, ok := input.RawFilters["pagination"]; ok {
		if pgMap, ok := paginationRaw.(map[string]interface{}); ok {
			if pageRaw, exists := pgMap["page"]; exists {
				if page, err := h.parseInt(pageRaw); err == nil {
					if page >= 1 {
						parsed.Pagination.Page = page
					}
				}
			}

			if sizeRaw, exists := pgMap["size"]; exists {
				if size, err := h.parseInt(sizeRaw); err == nil {
					// Size is capped at 100 rather than rejected.
					if size >= 1 {
						if size <= 100 {
							parsed.Pagination.Size = size
						} else {
							parsed.Pagination.Size = 100
						}
					}
				}
			}
		}
	}

	h.logger.Info("filters parsed successfully", map[string]interface{}{
		"keywords":    parsed.Keywords,
		"locations":   parsed.Locations,
		"salaryRange": parsed.SalaryRange,
		"remote":      parsed.Remote,
		"seniority":   parsed.Seniority,
		"sortBy":      parsed.SortBy,
		"pagination":  parsed.Pagination,
	})

	return &Output{ParsedFilters: parsed}, nil
}

func (h *Handler) parseStringArray(raw interface{}) []string {
	// Always return non-nil slice
	result := []string{}

	if raw == nil {
		return result
	}

	seen := make(map[string]bool) // For deduplication

	switch v := raw.(type) {
	case string:
		if v != "" {
			parts := strings.Split(v, ",")
			for _, s := range parts {
				trimmed := strings.TrimSpace(s)
				if trimmed != "" && !seen[trimmed] {
					result = append(result, trimmed)
					seen[trimmed] = true
				}
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				trimmed := strings.TrimSpace(s)
				if trimmed != "" && !seen[trimmed] {
					result = append(result, trimmed)
					seen[trimmed] = true
				}
			}
		}
	case []string:
		for _, s := range v {
			trimmed := strings.TrimSpace(s)
			if trimmed != "" && !seen[trimmed] {
				result = append(result, trimmed)
				seen[trimmed] = true
			}
		}
	}

	return result
}

func (h *Handler) parseInt(raw interface{}) (int, error) {
	if raw == nil {
		return 0, errors.New("cannot parse nil as integer")
	}

	switch v := raw.(type) {
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, errors.New("not a valid positive integer")
		}
		return int(v), nil

	case int:
		if v < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return v, nil

	case int64:
		if v < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return int(v), nil

	case string:
		// "USD 85,000.00" should become "85000" not "8500000": strip the
		// currency noise first, then truncate at the decimal point.
		cleaned := strings.ReplaceAll(v, " ", "")
		cleaned = strings.ReplaceAll(cleaned, "$", "")
		cleaned = strings.ReplaceAll(cleaned, "USD", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")

		if strings.Contains(cleaned, ".") {
			parts := strings.Split(cleaned, ".")
			cleaned = parts[0]
		}

		re := regexp.MustCompile(`[^\d]+`)
		cleaned = re.ReplaceAllString(cleaned, "")

		if cleaned == "" {
			return 0, errors.New("not a number")
		}

		num, err := strconv.Atoi(cleaned)
		if err != nil {
			return 0, fmt.Errorf("strconv.Atoi failed: %w", err)
		}
		if num < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return num, nil

	default:
		return 0, errors.New("not a number")
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
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
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
