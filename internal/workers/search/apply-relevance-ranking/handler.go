// internal/workers/search/apply-relevance-ranking/handler.go
package applyrelevanceranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "apply-relevance-ranking"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// Neutral match component for candidates with no assessment for a job.
const neutralMatchScore = 50.0

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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "RANKING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()

	// Detail and assessment maps for O(1) lookup
	detailsMap := make(map[string]JobDetail)
	for _, d := range input.JobDetails {
		detailsMap[d.ID] = d
	}
	matchMap := make(map[string]float64)
	for _, a := range input.Assessments {
		matchMap[a.JobID] = a.MatchScore
	}

	processedIDs := make(map[string]bool)
	var ranked []RankedJob

	for _, sr := range input.SearchResults {
		// Deduplicate by job ID
		if processedIDs[sr.ID] {
			continue
		}

		detail, exists := detailsMap[sr.ID]
		if !exists {
			// Skip hits without matching detail data
			continue
		}

		processedIDs[sr.ID] = true

		// ES relevance normalized to 0-100
		esScore := math.Min(math.Max(sr.Score*10.0, 0.0), 100.0)

		// Resume-match component: the 12-point assessment score rescaled to
		// 0-100, or a neutral 50 when the candidate has no assessment.
		matchScore := neutralMatchScore
		twelvePoint := neutralMatchScore * scoring.OverallScale / 100.0
		if raw, ok := matchMap[sr.ID]; ok {
			twelvePoint = scoring.Rescale(raw, scoring.OverallScale)
			matchScore = twelvePoint * 100.0 / scoring.OverallScale
		}

		// Popularity from views + applications, clamped to 0-100
		totalPopularity := math.Max(float64(detail.ViewCount+detail.ApplicationCount), 0.0)
		popularityScore := math.Min(totalPopularity/10.0, 100.0)

		// Posting freshness by day bucket
		freshnessScore := h.calculateFreshnessScore(detail.PostedAt)

		finalScore := (esScore*0.4 +
			matchScore*0.3 +
			popularityScore*0.2 +
			freshnessScore*0.1)

		band := scoring.Classify(twelvePoint, scoring.OverallScale)

		ranked = append(ranked, RankedJob{
			ID:              detail.ID,
			Title:           detail.Title,
			CompanyName:     detail.CompanyName,
			FinalScore:      finalScore,
			ESScore:         esScore,
			MatchScore:      matchScore,
			PopularityScore: popularityScore,
			FreshnessScore:  freshnessScore,
			MatchBand:       band,
			MatchColor:      band.Color(),
		})
	}

	// Descending by final score
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	if len(ranked) > h.config.MaxItems {
		ranked = ranked[:h.config.MaxItems]
	}

	duration := time.Since(start).Milliseconds()
	h.logger.Info("ranking completed", map[string]interface{}{
		"inputCount":  len(input.SearchResults),
		"outputCount": len(ranked),
		"durationMs":  duration,
	})

	if duration > 500 {
		h.logger.Warn("ranking exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{RankedJobs: ranked}, nil
}

// calculateFreshnessScore buckets the posting age into a 0-100 freshness
// component. Missing or unparseable timestamps score a neutral 50.
func (h *Handler) calculateFreshnessScore(postedAt string) float64 {
	if postedAt == "" {
		return 50.0
	}

	t, err := time.Parse(time.RFC3339, postedAt)
	if err != nil {
		return 50.0
	}

	// Round to nearest day to handle floating point precision issues
	daysOld := math.Round(time.Since(t).Hours() / 24.0)

	switch {
	case daysOld <= 7:
		return 100.0 // Posted this week
	case daysOld <= 30:
		return 80.0 // Within the month
	case daysOld <= 60:
		return 60.0 // One to two months
	case daysOld <= 90:
		return 40.0 // Getting stale
	default:
		return 20.0 // Likely filled or abandoned
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
