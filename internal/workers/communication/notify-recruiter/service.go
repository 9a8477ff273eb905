package notifyrecruiter

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"jobboard-workers/internal/common/errors"
	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/common/validation"
)

// Recommendations beyond this count are summarized, not listed.
const maxListedRecommendations = 3

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.From == "" {
		input.From = s.config.DefaultFrom
	}

	s.logger.Info("Sending recruiter notification", map[string]interface{}{
		"recruiterEmail": input.RecruiterEmail,
		"jobId":          input.JobID,
		"resumeId":       input.ResumeID,
		"qualifies":      input.Qualifies,
	})

	if err := s.validateAddresses(input); err != nil {
		return nil, &errors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   "Recruiter notification validation failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	message := s.buildMessage(input)

	if err := s.sendSMTP(ctx, input, message); err != nil {
		return nil, &errors.StandardError{
			Code:      "SMTP_ERROR",
			Message:   "Failed to send recruiter notification via SMTP",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now(),
		}
	}

	messageID := s.generateMessageID(input)

	s.logger.Info("Recruiter notification sent", map[string]interface{}{
		"recruiterEmail": input.RecruiterEmail,
		"messageId":      messageID,
	})

	return &Output{
		Success:   true,
		Message:   "Recruiter notification sent",
		MessageID: messageID,
		Provider:  "SMTP",
		SentAt:    time.Now(),
	}, nil
}

func (s *Service) validateAddresses(input *Input) error {
	if !s.isValidEmail(input.RecruiterEmail) {
		return fmt.Errorf("invalid 'recruiterEmail' address: %s", input.RecruiterEmail)
	}

	if !s.isValidEmail(input.From) {
		return fmt.Errorf("invalid 'from' email address: %s", input.From)
	}

	if input.CC != "" {
		for _, addr := range strings.Split(input.CC, ",") {
			if !s.isValidEmail(strings.TrimSpace(addr)) {
				return fmt.Errorf("invalid 'cc' email address: %s", addr)
			}
		}
	}

	if input.ReplyTo != "" && !s.isValidEmail(input.ReplyTo) {
		return fmt.Errorf("invalid 'replyTo' email address: %s", input.ReplyTo)
	}

	return nil
}

func (s *Service) isValidEmail(email string) bool {
	return validation.ValidateEmail(strings.TrimSpace(email))
}

func (s *Service) buildSubject(input *Input) string {
	if input.Qualifies {
		if input.Band != "" {
			return fmt.Sprintf("Qualified candidate: %s for %s (%s match)", input.CandidateName, input.JobTitle, input.Band)
		}
		return fmt.Sprintf("Qualified candidate: %s for %s", input.CandidateName, input.JobTitle)
	}
	return fmt.Sprintf("Candidate update: %s for %s", input.CandidateName, input.JobTitle)
}

func (s *Service) buildBody(input *Input) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("A resume assessment has finished for %s", input.JobTitle))
	if input.CompanyName != "" {
		b.WriteString(fmt.Sprintf(" at %s", input.CompanyName))
	}
	b.WriteString(".\r\n\r\n")

	b.WriteString(fmt.Sprintf("Candidate: %s\r\n", input.CandidateName))
	if input.ResumeID != "" {
		b.WriteString(fmt.Sprintf("Resume: %s\r\n", input.ResumeID))
	}
	if input.Band != "" {
		b.WriteString(fmt.Sprintf("Match score: %.1f (%s)\r\n", input.MatchScore, input.Band))
	} else {
		b.WriteString(fmt.Sprintf("Match score: %.1f\r\n", input.MatchScore))
	}
	if input.Qualifies {
		b.WriteString("Qualification: qualified\r\n")
	} else {
		b.WriteString("Qualification: not qualified\r\n")
	}

	if len(input.MatchedCompanies) > 0 {
		b.WriteString("\r\nMatched companies:\r\n")
		for _, company := range input.MatchedCompanies {
			b.WriteString(fmt.Sprintf("  - %s\r\n", company))
		}
	}

	if len(input.Recommendations) > 0 {
		b.WriteString("\r\nTop recommendations:\r\n")
		listed := input.Recommendations
		if len(listed) > maxListedRecommendations {
			listed = listed[:maxListedRecommendations]
		}
		for _, rec := range listed {
			b.WriteString(fmt.Sprintf("  - %s\r\n", rec))
		}
		if remaining := len(input.Recommendations) - len(listed); remaining > 0 {
			b.WriteString(fmt.Sprintf("  ...and %d more in the full assessment.\r\n", remaining))
		}
	}

	b.WriteString("\r\nThis alert was generated by the assessment pipeline.\r\n")

	return b.String()
}

func (s *Service) buildMessage(input *Input) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", input.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", input.RecruiterEmail))

	if input.CC != "" {
		builder.WriteString(fmt.Sprintf("Cc: %s\r\n", input.CC))
	}

	if input.ReplyTo != "" {
		builder.WriteString(fmt.Sprintf("Reply-To: %s\r\n", input.ReplyTo))
	}

	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", s.buildSubject(input)))

	// Qualified candidates land at the top of the recruiter's inbox.
	if input.Qualifies {
		builder.WriteString("X-Priority: 1\r\n")
		builder.WriteString("Importance: high\r\n")
	} else {
		builder.WriteString("X-Priority: 3\r\n")
	}

	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(s.buildBody(input))

	return builder.String()
}

func (s *Service) sendSMTP(ctx context.Context, input *Input, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending notification: %w", err)
	}

	recipients := []string{input.RecruiterEmail}
	if input.CC != "" {
		for _, addr := range strings.Split(input.CC, ",") {
			recipients = append(recipients, strings.TrimSpace(addr))
		}
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if s.config.UseTLS {
		return s.sendWithTLS(addr, auth, input.From, recipients, []byte(message))
	}

	return smtp.SendMail(addr, auth, input.From, recipients, []byte(message))
}

func (s *Service) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName:         s.config.SMTPHost,
		InsecureSkipVerify: false,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	_, err = w.Write(msg)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (s *Service) generateMessageID(input *Input) string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("<%d.%s@%s>", timestamp, sanitizeEmail(input.RecruiterEmail), s.config.SMTPHost)
}

func sanitizeEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 {
		local := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, parts[0])

		if len(local) > 10 {
			local = local[:10]
		}
		return local
	}
	return "user"
}

func (s *Service) TestConnection(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         s.config.SMTPHost,
			InsecureSkipVerify: false,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return client.Quit()
}
