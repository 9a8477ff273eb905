// internal/workers/assessment/send-assessment-notification/handler.go
package sendassessmentnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	awsclients "jobboard-workers/internal/common/aws"
	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-assessment-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrTemplateNotFound       = errors.New("TEMPLATE_NOT_FOUND")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config      *Config
	db          *sql.DB
	logger      logger.Logger
	sesClient   SESService
	snsClient   SNSService
	templateMap map[string]map[string]string
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	clients, err := awsclients.NewClients(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create AWS clients: %w", err)
	}

	return &Handler{
		config:      config,
		db:          db,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient:   clients.SES,
		snsClient:   clients.SNS,
		templateMap: loadTemplates(),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "NOTIFICATION_SEND_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrTemplateNotFound) {
			errorCode = "TEMPLATE_NOT_FOUND"
		} else if errors.Is(err, ErrNotificationSendFailed) {
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	email, phone, err := h.getCandidateContact(ctx, input.CandidateID)
	if err != nil {
		h.logger.Warn("candidate contact not found", map[string]interface{}{
			"candidateId": input.CandidateID,
			"error":       err,
		})
		return &Output{
			NotificationID: notificationID,
			EmailStatus:    StatusDisabled,
			SMSStatus:      StatusDisabled,
			SentAt:         sentAt,
		}, nil
	}

	templateKey, err := h.templateKey(input.State, input.Qualifies)
	if err != nil {
		return nil, err
	}
	template := h.templateMap[templateKey]

	data := map[string]interface{}{
		"resumeId":        input.ResumeID,
		"jobId":           input.JobID,
		"jobTitle":        input.JobTitle,
		"companyName":     input.CompanyName,
		"matchScore":      input.MatchScore,
		"band":            input.Band,
		"processingError": input.ProcessingError,
	}
	for k, v := range input.Metadata {
		data[k] = v
	}

	subject := renderTemplate(template["subject"], data)
	body := renderTemplate(template["body"], data)

	emailStatus := StatusDisabled
	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			return nil, fmt.Errorf("%w: email to candidate %s: %v", ErrNotificationSendFailed, input.CandidateID, err)
		}
		emailStatus = StatusSent
	}

	// SMS goes out only for qualified assessments; a failure there costs the
	// bonus channel, not the job.
	smsStatus := StatusDisabled
	if h.config.SMSEnabled && phone != "" && input.Qualifies {
		if !validation.ValidatePhone(phone) {
			h.logger.Warn("candidate phone not usable for SMS", map[string]interface{}{
				"candidateId": input.CandidateID,
			})
		} else if err := h.sendSMS(ctx, phone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":       err,
				"candidateId": input.CandidateID,
			})
			smsStatus = StatusFailed
		} else {
			smsStatus = StatusSent
		}
	}

	h.logger.Info("assessment notification dispatched", map[string]interface{}{
		"notificationId": notificationID,
		"candidateId":    input.CandidateID,
		"template":       templateKey,
		"emailStatus":    emailStatus,
		"smsStatus":      smsStatus,
	})

	return &Output{
		NotificationID: notificationID,
		EmailStatus:    emailStatus,
		SMSStatus:      smsStatus,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) templateKey(state string, qualifies bool) (string, error) {
	switch state {
	case "failed":
		return TemplateAnalysisFailed, nil
	case "scored":
		if qualifies {
			return TemplateScoredQualified, nil
		}
		return TemplateScoredBelowThreshold, nil
	default:
		return "", fmt.Errorf("%w: no template for state %q", ErrTemplateNotFound, state)
	}
}

func (h *Handler) getCandidateContact(ctx context.Context, candidateID string) (string, string, error) {
	var email, phone string
	err := h.db.QueryRowContext(ctx,
		`SELECT email, phone FROM candidates WHERE id = $1`, candidateID).Scan(&email, &phone)
	return email, phone, err
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
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

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func loadTemplates() map[string]map[string]string {
	return map[string]map[string]string{
		TemplateScoredQualified: {
			"subject": "Your match results for {{jobTitle}}",
			"body":    "Good news! Your profile scored {{matchScore}} of 12 ({{band}}) for {{jobTitle}} at {{companyName}}. You meet the qualification bar and your application moves forward.",
		},
		TemplateScoredBelowThreshold: {
			"subject": "Your match results for {{jobTitle}}",
			"body":    "Your profile scored {{matchScore}} of 12 ({{band}}) for {{jobTitle}} at {{companyName}}. The match fell below the qualification bar for this role.",
		},
		TemplateAnalysisFailed: {
			"subject": "We could not analyze your resume",
			"body":    "Resume analysis for {{jobTitle}} did not complete: {{processingError}}. Please re-upload your resume and try again.",
		},
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
