package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// CampaignSender is implemented by services.CampaignService
type CampaignSender interface {
	SendCampaign(ctx context.Context, req *models.SendCampaignRequest) (*models.CampaignResult, error)
}

type CampaignHandler struct {
	campaignService CampaignSender
}

func NewCampaignHandler(campaignService CampaignSender) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// SendCampaign godoc
// @Summary Send an email campaign
// @Description Render a template for each recipient and send it. Per-address failures are reported in results and do not fail the request.
// @Tags emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendCampaignRequest true "Campaign request"
// @Success 200 {object} models.CampaignResult
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /v1/emails/send [post]
func (h *CampaignHandler) SendCampaign(c *gin.Context) {
	var req models.SendCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if req.TemplateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "templateId is required"})
		return
	}
	if len(req.RecipientIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipientIds array is required and cannot be empty"})
		return
	}
	seen := make(map[string]bool, len(req.RecipientIDs))
	for _, id := range req.RecipientIDs {
		if seen[id] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipientIds must not contain duplicates", "details": id})
			return
		}
		seen[id] = true
	}

	result, err := h.campaignService.SendCampaign(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logrus.Errorf("Failed to send email campaign: %v", err)
		sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email campaign"})
		return
	}

	c.JSON(http.StatusOK, result)
}
