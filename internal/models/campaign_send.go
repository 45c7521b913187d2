package models

// SendCampaignRequest is the body of POST /v1/emails/send
type SendCampaignRequest struct {
	TemplateID   string            `json:"templateId" example:"550e8400-e29b-41d4-a716-446655440000"`
	RecipientIDs []string          `json:"recipientIds"`
	Variables    map[string]string `json:"variables,omitempty"`
}

// CampaignResult summarizes one dispatch. Results holds one entry per address, in send order.
type CampaignResult struct {
	Success bool              `json:"success"`
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Total   int               `json:"total"`
	Results []RecipientStatus `json:"results"`
	LogID   string            `json:"logId,omitempty"`
}

// CampaignEvent is published to the broker after a campaign completes
type CampaignEvent struct {
	Event        string `json:"event"`
	LogID        string `json:"logId,omitempty"`
	TemplateID   string `json:"templateId"`
	TemplateName string `json:"templateName"`
	Sent         int    `json:"sent"`
	Failed       int    `json:"failed"`
	Total        int    `json:"total"`
	DurationMs   int64  `json:"durationMs"`
}
