package syncvendordirectory

import "jobboard-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"companyId"},
		Properties: map[string]validation.Property{
			"companyId": {
				Type:        "string",
				Description: "Company whose vendor directory should be synced",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
			},
			"dryRun": {
				Type:        "boolean",
				Description: "Report the diff without writing anything",
			},
			"metadata": {
				Type:        "object",
				Description: "Additional metadata for the sync request",
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
				Description: "Whether the sync completed",
			},
			"message": {
				Type:        "string",
				Description: "Result message",
			},
			"vendorCount": {
				Type:        "number",
				Description: "Number of vendors in the directory after the sync",
			},
			"added": {
				Type:        "array",
				Description: "Vendors added by the sync",
			},
			"removed": {
				Type:        "array",
				Description: "Vendors removed by the sync",
			},
			"syncedAt": {
				Type:        "string",
				Description: "Timestamp when the sync finished",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
