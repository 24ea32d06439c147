package api

import (
	"errors"
	"log"
	"net/http"

	"alcyxob/golf-coach/internal/planner"
	"alcyxob/golf-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// serviceErrorStatus maps service sentinel errors to HTTP status codes.
var serviceErrorStatus = []struct {
	err  error
	code int
}{
	{service.ErrInvalidPlanInput, http.StatusBadRequest},
	{service.ErrInvalidWeek, http.StatusBadRequest},
	{service.ErrInvalidDateRange, http.StatusBadRequest},
	{service.ErrInvalidStatus, http.StatusBadRequest},
	{service.ErrValidationFailed, http.StatusBadRequest},
	{service.ErrInvalidBaseline, http.StatusBadRequest},
	{service.ErrMissingDescription, http.StatusBadRequest},
	{service.ErrTenantRequired, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrPlayerNotRole, http.StatusBadRequest},
	{service.ErrPlanNotFound, http.StatusNotFound},
	{service.ErrPlayerNotFound, http.StatusNotFound},
	{service.ErrAssignmentNotFound, http.StatusNotFound},
	{service.ErrTemplateNotFound, http.StatusNotFound},
	{service.ErrExportNotFound, http.StatusNotFound},
	{service.ErrPlanAccessDenied, http.StatusForbidden},
	{service.ErrPlayerNotManaged, http.StatusForbidden},
	{service.ErrPlayerOtherTenant, http.StatusForbidden},
	{service.ErrTemplateAccessDenied, http.StatusForbidden},
	{service.ErrInvalidTransition, http.StatusConflict},
	{service.ErrSwapNotAllowed, http.StatusConflict},
	{service.ErrPlayerAlreadyAssigned, http.StatusConflict},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
}

// respondServiceError aborts with the status matching err. Unknown errors are
// logged and answered with a generic 500 carrying fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	for _, m := range serviceErrorStatus {
		if errors.Is(err, m.err) {
			abortWithError(c, m.code, err.Error())
			return
		}
	}
	var cfgErr *planner.ConfigError
	if errors.As(err, &cfgErr) {
		log.Printf("ERROR: periodization config: %v", cfgErr)
	} else {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	abortWithError(c, http.StatusInternalServerError, fallback)
}
