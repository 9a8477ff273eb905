// internal/workers/match/aggregate-match-score/handler.go
package aggregatematchscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/common/metrics"
	"jobboard-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "aggregate-match-score"
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "DATABASE_QUERY_FAILED").Inc()
		h.failJob(client, job, "DATABASE_QUERY_FAILED", err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	if output.State == scoring.StateScored {
		metrics.MatchScores.Observe(output.MatchScore)
	}
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	assessment := input.toAssessment()
	// The match score is always the sub-score sum; upstream drift is discarded.
	assessment.MatchScore = assessment.Total()

	targets := input.TargetCompanies
	if targets == nil && input.JobID != "" {
		jobCtx, err := h.getJobContext(ctx, input.JobID)
		if err != nil {
			// A missing job context only suppresses the similar-companies
			// recommendation; the assessment itself still goes out.
			h.logger.Warn("failed to fetch job context", map[string]interface{}{
				"jobId": input.JobID,
				"error": err,
			})
			targets = []string{}
		} else {
			targets = jobCtx.TargetCompanies
		}
	}

	presentation := scoring.Present(assessment, targets)
	output := buildOutput(assessment, presentation)

	h.cachePresentation(ctx, input.ResumeID, input.JobID, presentation)

	h.logger.Info("assessment presented", map[string]interface{}{
		"resumeId":   input.ResumeID,
		"jobId":      input.JobID,
		"state":      output.State,
		"matchScore": output.MatchScore,
		"qualifies":  output.Qualifies,
	})

	return output, nil
}

func buildOutput(a scoring.Assessment, p scoring.Presentation) *Output {
	out := &Output{
		State:           p.State,
		ProcessingError: p.ProcessingError,
	}

	if p.Scorecard != nil {
		sc := p.Scorecard
		out.MatchScore = a.MatchScore
		out.Qualifies = sc.Qualifies
		out.Overall = &sc.Overall
		out.Breakdown = &ScoreBreakdown{
			Skills:     sc.Skills,
			Experience: sc.Experience,
			Education:  sc.Education,
			Company:    sc.Company,
		}
		out.Recommendations = sc.Recommendations
		out.MatchedCompanies = sc.MatchedCompanies
	}

	return out
}

func (h *Handler) getJobContext(ctx context.Context, jobID string) (*JobContext, error) {
	cacheKey := "job:profile:" + jobID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var jobCtx JobContext
		if err := json.Unmarshal([]byte(val), &jobCtx); err == nil {
			return &jobCtx, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT j.title, c.name,
		       COALESCE(json_agg(v.vendor_name) FILTER (WHERE v.vendor_name IS NOT NULL), '[]')
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		LEFT JOIN company_vendors v ON v.company_id = c.id
		WHERE j.id = $1
		GROUP BY j.title, c.name`, jobID)

	var jobCtx JobContext
	var targets []byte
	if err := row.Scan(&jobCtx.Title, &jobCtx.CompanyName, &targets); err != nil {
		return nil, err
	}
	jobCtx.JobID = jobID

	if err := json.Unmarshal(targets, &jobCtx.TargetCompanies); err != nil {
		jobCtx.TargetCompanies = []string{}
	}
	// The hiring company itself counts as a target alongside its vendors.
	if jobCtx.CompanyName != "" {
		jobCtx.TargetCompanies = append([]string{jobCtx.CompanyName}, jobCtx.TargetCompanies...)
	}

	data, _ := json.Marshal(jobCtx)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &jobCtx, nil
}

func (h *Handler) cachePresentation(ctx context.Context, resumeID, jobID string, p scoring.Presentation) {
	if resumeID == "" || jobID == "" {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	h.redis.Set(ctx, "assessment:view:"+resumeID+":"+jobID, data, h.config.CacheTTL)
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
