// internal/workers/infrastructure/select-template/handler.go
package selecttemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/scoring"
)

const (
	TaskType = "select-template"
)

// Tiers whose recipients get the detailed scored templates.
var detailedTiers = map[string]bool{
	"growth":     true,
	"enterprise": true,
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

	output, err := h.execute(context.Background(), &input)
	if err != nil {
		h.failJob(client, job, "TEMPLATE_SELECTION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	templateID := h.selectTemplate(input)

	if override, ok := h.config.TemplateOverrides[templateID]; ok && override != "" {
		h.logger.Debug("template override applied", map[string]interface{}{
			"default":  templateID,
			"override": override,
		})
		templateID = override
	}

	h.logger.Info("template selected", map[string]interface{}{
		"state":      input.State,
		"band":       input.Band,
		"qualified":  input.Qualified,
		"tier":       input.SubscriptionTier,
		"templateId": templateID,
	})

	return &Output{SelectedTemplateId: templateID}, nil
}

// selectTemplate is a deterministic switch over the assessment outcome.
// Unknown combinations fall back to the base template.
func (h *Handler) selectTemplate(input *Input) string {
	switch scoring.State(strings.ToLower(input.State)) {
	case scoring.StatePending:
		return TemplatePending
	case scoring.StateFailed:
		return TemplateFailed
	case scoring.StateScored:
		var id string
		switch {
		case input.Qualified && input.Band == string(scoring.BandExcellent):
			id = TemplateQualifiedExcellent
		case input.Qualified:
			id = TemplateQualified
		default:
			id = TemplateNotQualified
		}
		if detailedTiers[strings.ToLower(input.SubscriptionTier)] {
			id += DetailedSuffix
		}
		return id
	default:
		return TemplateBase
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
