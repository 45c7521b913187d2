package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
)

// RecipientManager is implemented by services.RecipientService
type RecipientManager interface {
	CreateRecipient(req *models.RecipientRequest) (*models.Recipient, error)
	GetRecipient(id string) (*models.Recipient, error)
	ListRecipients() ([]*models.Recipient, error)
	UpdateRecipient(id string, req *models.RecipientUpdateRequest) (*models.Recipient, error)
	DeleteRecipient(id string) error
}

type RecipientHandler struct {
	recipientService RecipientManager
}

func NewRecipientHandler(recipientService RecipientManager) *RecipientHandler {
	return &RecipientHandler{recipientService: recipientService}
}

// CreateRecipient godoc
// @Summary Create a recipient
// @Description Create a named recipient with one or more email addresses
// @Tags recipients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RecipientRequest true "Recipient"
// @Success 201 {object} models.Recipient
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /v1/recipients [post]
func (h *RecipientHandler) CreateRecipient(c *gin.Context) {
	var req models.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	recipient, err := h.recipientService.CreateRecipient(&req)
	if err != nil {
		respondServiceError(c, err, "Failed to create recipient")
		return
	}

	c.JSON(http.StatusCreated, recipient)
}

// ListRecipients godoc
// @Summary List recipients
// @Tags recipients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Recipient
// @Failure 500 {object} map[string]interface{}
// @Router /v1/recipients [get]
func (h *RecipientHandler) ListRecipients(c *gin.Context) {
	recipients, err := h.recipientService.ListRecipients()
	if err != nil {
		respondServiceError(c, err, "Failed to list recipients")
		return
	}

	c.JSON(http.StatusOK, recipients)
}

// GetRecipient godoc
// @Summary Get a recipient
// @Tags recipients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipient ID"
// @Success 200 {object} models.Recipient
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /v1/recipients/{id} [get]
func (h *RecipientHandler) GetRecipient(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	recipient, err := h.recipientService.GetRecipient(id)
	if err != nil {
		respondServiceError(c, err, "Failed to get recipient")
		return
	}

	c.JSON(http.StatusOK, recipient)
}

// UpdateRecipient godoc
// @Summary Update a recipient
// @Description Partial update; a supplied emails list replaces the stored one
// @Tags recipients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipient ID"
// @Param request body models.RecipientUpdateRequest true "Fields to change"
// @Success 200 {object} models.Recipient
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /v1/recipients/{id} [put]
func (h *RecipientHandler) UpdateRecipient(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var req models.RecipientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	recipient, err := h.recipientService.UpdateRecipient(id, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update recipient")
		return
	}

	c.JSON(http.StatusOK, recipient)
}

// DeleteRecipient godoc
// @Summary Delete a recipient
// @Tags recipients
// @Security BearerAuth
// @Param id path string true "Recipient ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /v1/recipients/{id} [delete]
func (h *RecipientHandler) DeleteRecipient(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := h.recipientService.DeleteRecipient(id); err != nil {
		respondServiceError(c, err, "Failed to delete recipient")
		return
	}

	c.Status(http.StatusNoContent)
}
