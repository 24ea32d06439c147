package api

import (
	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionTemplateHandler handles HTTP requests for the session library.
type SessionTemplateHandler struct {
	templateService service.SessionTemplateService
}

// NewSessionTemplateHandler creates a new SessionTemplateHandler.
func NewSessionTemplateHandler(templateService service.SessionTemplateService) *SessionTemplateHandler {
	return &SessionTemplateHandler{templateService: templateService}
}

// SessionTemplateRequest is used for both create and full update.
type SessionTemplateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description,omitempty"`
	SessionType   string          `json:"sessionType" binding:"required"`
	Duration      int             `json:"duration" binding:"required,min=30,max=210"`
	Periods       []domain.Period `json:"periods" binding:"required,min=1"`
	LearningPhase string          `json:"learningPhase" binding:"required"`
	Setting       string          `json:"setting" binding:"required"`
	ClubSpeed     string          `json:"clubSpeed" binding:"required"`
	Intensity     *int            `json:"intensity,omitempty" binding:"omitempty,min=1,max=10"`
	IsActive      *bool           `json:"isActive,omitempty"` // defaults to true
}

func (req SessionTemplateRequest) toInput() service.SessionTemplateInput {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return service.SessionTemplateInput{
		Name:          req.Name,
		Description:   req.Description,
		SessionType:   req.SessionType,
		Duration:      req.Duration,
		Periods:       req.Periods,
		LearningPhase: req.LearningPhase,
		Setting:       req.Setting,
		ClubSpeed:     req.ClubSpeed,
		Intensity:     req.Intensity,
		IsActive:      active,
	}
}

// CreateTemplate godoc
// @Summary Create a session template
// @Tags SessionTemplates
// @Accept json
// @Produce json
// @Param template body SessionTemplateRequest true "Template"
// @Success 201 {object} domain.SessionTemplate
// @Failure 400 {object} gin.H "Validation error"
// @Router /session-templates [post]
func (h *SessionTemplateHandler) CreateTemplate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req SessionTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	tpl, err := h.templateService.CreateTemplate(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Failed to create session template.")
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// ListTemplates godoc
// @Summary List the session templates of the caller's academy
// @Tags SessionTemplates
// @Produce json
// @Success 200 {array} domain.SessionTemplate
// @Router /session-templates [get]
func (h *SessionTemplateHandler) ListTemplates(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	templates, err := h.templateService.ListTemplates(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve session templates.")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary Get a session template
// @Tags SessionTemplates
// @Produce json
// @Param templateId path string true "Template ID"
// @Success 200 {object} domain.SessionTemplate
// @Failure 404 {object} gin.H "Not found"
// @Router /session-templates/{templateId} [get]
func (h *SessionTemplateHandler) GetTemplate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}
	tpl, err := h.templateService.GetTemplate(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve session template.")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// UpdateTemplate godoc
// @Summary Replace a session template
// @Tags SessionTemplates
// @Accept json
// @Produce json
// @Param templateId path string true "Template ID"
// @Param template body SessionTemplateRequest true "Template"
// @Success 200 {object} domain.SessionTemplate
// @Router /session-templates/{templateId} [put]
func (h *SessionTemplateHandler) UpdateTemplate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}
	var req SessionTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	tpl, err := h.templateService.UpdateTemplate(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Failed to update session template.")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate godoc
// @Summary Delete a session template
// @Tags SessionTemplates
// @Param templateId path string true "Template ID"
// @Success 204
// @Router /session-templates/{templateId} [delete]
func (h *SessionTemplateHandler) DeleteTemplate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}
	if err := h.templateService.DeleteTemplate(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err, "Failed to delete session template.")
		return
	}
	c.Status(http.StatusNoContent)
}
