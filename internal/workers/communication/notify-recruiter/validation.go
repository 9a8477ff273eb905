package notifyrecruiter

import "jobboard-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"recruiterEmail", "candidateName", "jobTitle"},
		Properties: map[string]validation.Property{
			"recruiterEmail": {
				Type:        "string",
				Description: "Recruiter email address to notify",
				MinLength:   intPtr(5),
				MaxLength:   intPtr(255),
			},
			"from": {
				Type:        "string",
				Description: "Sender email address (optional, uses default if not provided)",
				MaxLength:   intPtr(255),
			},
			"cc": {
				Type:        "string",
				Description: "CC recipients (comma-separated)",
				MaxLength:   intPtr(1000),
			},
			"replyTo": {
				Type:        "string",
				Description: "Reply-to email address",
				MaxLength:   intPtr(255),
			},
			"candidateName": {
				Type:        "string",
				Description: "Display name of the assessed candidate",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
			},
			"resumeId": {
				Type:        "string",
				Description: "Resume identifier the assessment was scored against",
			},
			"jobId": {
				Type:        "string",
				Description: "Job posting identifier",
			},
			"jobTitle": {
				Type:        "string",
				Description: "Title of the job posting",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(500),
			},
			"companyName": {
				Type:        "string",
				Description: "Company the job posting belongs to",
			},
			"matchScore": {
				Type:        "number",
				Description: "Overall match score on the 0-10 scale",
			},
			"band": {
				Type:        "string",
				Description: "Score band label (Excellent, Good, Fair, Needs Improvement)",
			},
			"qualifies": {
				Type:        "boolean",
				Description: "Whether the candidate cleared the qualification threshold",
			},
			"matchedCompanies": {
				Type:        "array",
				Description: "Companies whose requirements the resume matched",
			},
			"recommendations": {
				Type:        "array",
				Description: "Improvement recommendations from the assessment",
			},
			"metadata": {
				Type:        "object",
				Description: "Additional metadata for the notification",
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "Whether the notification was sent successfully",
			},
			"message": {
				Type:        "string",
				Description: "Result message",
			},
			"messageId": {
				Type:        "string",
				Description: "Unique message identifier",
			},
			"provider": {
				Type:        "string",
				Description: "Mail provider used",
			},
			"sentAt": {
				Type:        "string",
				Description: "Timestamp when the notification was sent",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
