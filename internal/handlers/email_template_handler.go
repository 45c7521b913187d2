package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
)

// TemplateManager is implemented by services.EmailTemplateService
type TemplateManager interface {
	CreateTemplate(req *models.EmailTemplateRequest) (*models.EmailTemplate, error)
	GetTemplate(id string) (*models.EmailTemplate, error)
	ListTemplates() ([]*models.EmailTemplate, error)
	UpdateTemplate(id string, req *models.EmailTemplateUpdateRequest) (*models.EmailTemplate, error)
	DeleteTemplate(id string) error
}

type EmailTemplateHandler struct {
	templateService TemplateManager
}

func NewEmailTemplateHandler(templateService TemplateManager) *EmailTemplateHandler {
	return &EmailTemplateHandler{templateService: templateService}
}

// CreateTemplate godoc
// @Summary Create an email template
// @Description Create a named HTML template. The body is sent as HTML and stored base64 encoded.
// @Tags emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.EmailTemplateRequest true "Template"
// @Success 201 {object} models.EmailTemplate
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /v1/emails [post]
func (h *EmailTemplateHandler) CreateTemplate(c *gin.Context) {
	var req models.EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	template, err := h.templateService.CreateTemplate(&req)
	if err != nil {
		respondServiceError(c, err, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// ListTemplates godoc
// @Summary List email templates
// @Description List all templates, newest first
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EmailTemplate
// @Failure 500 {object} map[string]interface{}
// @Router /v1/emails [get]
func (h *EmailTemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates()
	if err != nil {
		respondServiceError(c, err, "Failed to list templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary Get an email template
// @Tags emails
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} models.EmailTemplate
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /v1/emails/{id} [get]
func (h *EmailTemplateHandler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	template, err := h.templateService.GetTemplate(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateTemplate godoc
// @Summary Update an email template
// @Description Partial update; omitted fields are left unchanged
// @Tags emails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param request body models.EmailTemplateUpdateRequest true "Fields to change"
// @Success 200 {object} models.EmailTemplate
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /v1/emails/{id} [put]
func (h *EmailTemplateHandler) UpdateTemplate(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var req models.EmailTemplateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	template, err := h.templateService.UpdateTemplate(id, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteTemplate godoc
// @Summary Delete an email template
// @Tags emails
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /v1/emails/{id} [delete]
func (h *EmailTemplateHandler) DeleteTemplate(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := h.templateService.DeleteTemplate(id); err != nil {
		respondServiceError(c, err, "Failed to delete template")
		return
	}

	c.Status(http.StatusNoContent)
}
