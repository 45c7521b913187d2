package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/excel"
	"github.com/sirupsen/logrus"
)

// LogManager is implemented by services.CampaignLogService
type LogManager interface {
	CreateLog(req *models.CampaignLogRequest) (*models.CampaignLog, error)
	GetLog(id string) (*models.CampaignLog, error)
	ListLogs(limit int) ([]*models.CampaignLog, error)
}

// LogExporter is implemented by excel.Service
type LogExporter interface {
	ExportCampaignLog(log *models.CampaignLog) (*bytes.Buffer, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CampaignLogHandler struct {
	logService LogManager
	exporter   LogExporter
	sseHub     *services.SSEHub
}

func NewCampaignLogHandler(logService LogManager, exporter LogExporter, sseHub *services.SSEHub) *CampaignLogHandler {
	return &CampaignLogHandler{
		logService: logService,
		exporter:   exporter,
		sseHub:     sseHub,
	}
}

// CreateLog godoc
// @Summary Record a campaign log
// @Description Manual log ingestion for alternate send paths. Missing counts, timestamps and duration are filled in.
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param request body models.CampaignLogRequest true "Campaign log"
// @Success 201 {object} models.CampaignLog
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /v1/logs [post]
func (h *CampaignLogHandler) CreateLog(c *gin.Context) {
	var req models.CampaignLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	log, err := h.logService.CreateLog(&req)
	if err != nil {
		respondServiceError(c, err, "Failed to create log")
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListLogs godoc
// @Summary List campaign logs
// @Description Newest first
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit" default(50)
// @Success 200 {array} models.CampaignLog
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /v1/logs [get]
func (h *CampaignLogHandler) ListLogs(c *gin.Context) {
	limit := services.DefaultLogListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	logs, err := h.logService.ListLogs(limit)
	if err != nil {
		respondServiceError(c, err, "Failed to get logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

// GetLog godoc
// @Summary Get a campaign log
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 200 {object} models.CampaignLog
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /v1/logs/{id} [get]
func (h *CampaignLogHandler) GetLog(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	log, err := h.logService.GetLog(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get log")
		return
	}

	c.JSON(http.StatusOK, log)
}

// ExportLog godoc
// @Summary Export a campaign log to Excel
// @Description Download the log summary and per-address outcomes as an .xlsx workbook
// @Tags logs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /v1/logs/{id}/export [get]
func (h *CampaignLogHandler) ExportLog(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	log, err := h.logService.GetLog(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get log")
		return
	}

	buf, err := h.exporter.ExportCampaignLog(log)
	if err != nil {
		respondServiceError(c, err, "Failed to export log")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", excel.ExportFilename(log)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// StreamLogs godoc
// @Summary Stream new campaign logs via Server-Sent Events (SSE)
// @Description Every newly created log is pushed as a "log" event. Filter by template with templateName.
// @Tags logs
// @Produce text/event-stream
// @Security BearerAuth
// @Param templateName query string false "Only logs of this template"
// @Success 200 "SSE stream"
// @Router /v1/logs/stream [get]
func (h *CampaignLogHandler) StreamLogs(c *gin.Context) {
	key := services.StreamAllLogs
	if templateName := c.Query("templateName"); templateName != "" {
		key = services.TemplateStreamKey(templateName)
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable buffering for nginx

	clientChan := h.sseHub.RegisterClient(key)
	defer h.sseHub.UnregisterClient(key, clientChan)

	c.SSEvent("connected", gin.H{
		"stream":  key,
		"message": "Connected to log stream",
	})
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			logrus.Infof("SSE client disconnected: %s", key)
			return
		case message, ok := <-clientChan:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(message); err != nil {
				logrus.Errorf("Failed to write SSE message: %v", err)
				return
			}
			c.Writer.Flush()
		}
	}
}
