package api

import (
	"alcyxob/golf-coach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves spreadsheet exports of annual plans.
type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportPlan godoc
// @Summary Export a plan as an xlsx workbook
// @Description Renders the plan, stores it and returns a temporary download URL.
// @Tags Exports
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 201 {object} service.ExportResult
// @Router /plans/{planId}/exports [post]
func (h *ExportHandler) ExportPlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	result, err := h.exportService.ExportPlan(c.Request.Context(), actor, planID)
	if err != nil {
		respondServiceError(c, err, "Failed to export plan.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListExports godoc
// @Summary List the exports of a plan
// @Tags Exports
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {array} domain.PlanExport
// @Router /plans/{planId}/exports [get]
func (h *ExportHandler) ListExports(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	exports, err := h.exportService.ListExports(c.Request.Context(), actor, planID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve exports.")
		return
	}
	c.JSON(http.StatusOK, exports)
}

// GetDownloadURL godoc
// @Summary Get a fresh download URL for an export
// @Tags Exports
// @Produce json
// @Param exportId path string true "Export ID"
// @Success 200 {object} service.ExportResult
// @Failure 404 {object} gin.H "Export not found"
// @Router /exports/{exportId}/download-url [get]
func (h *ExportHandler) GetDownloadURL(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	exportID, ok := pathObjectID(c, "exportId")
	if !ok {
		return
	}
	result, err := h.exportService.GetDownloadURL(c.Request.Context(), actor, exportID)
	if err != nil {
		respondServiceError(c, err, "Failed to create download URL.")
		return
	}
	c.JSON(http.StatusOK, result)
}
