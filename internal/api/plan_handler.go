package api

import (
	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/service"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// PlanHandler serves annual plan generation and the resulting calendar.
type PlanHandler struct {
	planService       service.PlanService
	adjustmentService service.AdjustmentService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, adjustmentService service.AdjustmentService) *PlanHandler {
	return &PlanHandler{planService: planService, adjustmentService: adjustmentService}
}

// --- DTOs ---

type TournamentRequest struct {
	Name         string `json:"name" binding:"required"`
	StartDate    string `json:"startDate" binding:"required"`
	EndDate      string `json:"endDate,omitempty"`
	Importance   string `json:"importance,omitempty" binding:"omitempty,oneof=A B C"`
	TournamentID string `json:"tournamentId,omitempty"`
}

type GeneratePlanRequest struct {
	StartDate         string              `json:"startDate" binding:"required"`
	BaselineAverage   *float64            `json:"baselineAverage,omitempty" binding:"omitempty,gt=0"`
	Handicap          *float64            `json:"handicap,omitempty"`
	DriverSpeed       *float64            `json:"driverSpeed,omitempty" binding:"omitempty,gt=0"`
	PlanName          string              `json:"planName,omitempty"`
	WeeklyHoursTarget *int                `json:"weeklyHoursTarget,omitempty" binding:"omitempty,gt=0"`
	Tournaments       []TournamentRequest `json:"tournaments,omitempty" binding:"omitempty,dive"`
	PreferredDays     []int               `json:"preferredDays,omitempty" binding:"omitempty,dive,min=0,max=6"`
	ExcludedDates     []string            `json:"excludedDates,omitempty"`
	IntakeID          string              `json:"intakeId,omitempty"`
}

type UpdateAssignmentStatusRequest struct {
	Status domain.AssignmentStatus `json:"status" binding:"required"`
	Notes  string                  `json:"notes,omitempty"`
}

type SwapSessionsRequest struct {
	First  string `json:"first" binding:"required"`
	Second string `json:"second" binding:"required"`
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

func parseOptionalObjectID(field, value string) (*primitive.ObjectID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format", field)
	}
	return &id, nil
}

// toInput converts the request into service input.
func (req GeneratePlanRequest) toInput(playerID primitive.ObjectID) (service.GeneratePlanInput, error) {
	in := service.GeneratePlanInput{
		PlayerID:          playerID,
		BaselineAverage:   req.BaselineAverage,
		Handicap:          req.Handicap,
		DriverSpeed:       req.DriverSpeed,
		PlanName:          req.PlanName,
		WeeklyHoursTarget: req.WeeklyHoursTarget,
		PreferredDays:     req.PreferredDays,
	}
	var err error
	if in.StartDate, err = parseDate("startDate", req.StartDate); err != nil {
		return in, err
	}
	if in.IntakeID, err = parseOptionalObjectID("intakeId", req.IntakeID); err != nil {
		return in, err
	}
	for _, raw := range req.ExcludedDates {
		d, err := parseDate("excludedDates", raw)
		if err != nil {
			return in, err
		}
		in.ExcludedDates = append(in.ExcludedDates, d)
	}
	for _, t := range req.Tournaments {
		ti := domain.TournamentInput{Name: t.Name, Importance: domain.Importance(t.Importance)}
		if ti.StartDate, err = parseDate("tournaments.startDate", t.StartDate); err != nil {
			return in, err
		}
		if t.EndDate != "" {
			if ti.EndDate, err = parseDate("tournaments.endDate", t.EndDate); err != nil {
				return in, err
			}
		}
		if ti.TournamentID, err = parseOptionalObjectID("tournamentId", t.TournamentID); err != nil {
			return in, err
		}
		in.Tournaments = append(in.Tournaments, ti)
	}
	return in, nil
}

// --- Handlers ---

// GeneratePlan godoc
// @Summary Generate an annual training plan
// @Description Builds the 52-week periodization, overlays the tournaments and fills 365 daily assignments. The player's previous active plan is archived.
// @Tags Plans
// @Accept json
// @Produce json
// @Param playerId path string true "Player ID"
// @Param plan body GeneratePlanRequest true "Generation input"
// @Success 201 {object} service.GenerationResult
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Player not managed by caller"
// @Failure 404 {object} gin.H "Player not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /players/{playerId}/plans [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	playerID, ok := pathObjectID(c, "playerId")
	if !ok {
		return
	}
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	in, err := req.toInput(playerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.planService.GeneratePlan(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err, "Failed to generate plan.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListPlans godoc
// @Summary List a player's plans
// @Tags Plans
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {array} domain.AnnualPlan
// @Router /players/{playerId}/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	playerID, ok := pathObjectID(c, "playerId")
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), actor, playerID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve plans.")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetActivePlan godoc
// @Summary Get a player's active plan
// @Tags Plans
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {object} service.PlanDetails
// @Failure 404 {object} gin.H "No active plan"
// @Router /players/{playerId}/plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	playerID, ok := pathObjectID(c, "playerId")
	if !ok {
		return
	}
	details, err := h.planService.GetActivePlan(c.Request.Context(), actor, playerID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve active plan.")
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetPlan godoc
// @Summary Get a plan with its weeks and tournaments
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} service.PlanDetails
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	details, err := h.planService.GetPlan(c.Request.Context(), actor, planID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve plan.")
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetCalendar godoc
// @Summary Get daily assignments of a plan
// @Description Either ?week=N (1..52) or ?from=YYYY-MM-DD&to=YYYY-MM-DD. Without parameters the whole plan is returned.
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Param week query int false "Plan week"
// @Param from query string false "First date"
// @Param to query string false "Last date"
// @Success 200 {array} domain.DailyAssignment
// @Router /plans/{planId}/calendar [get]
func (h *PlanHandler) GetCalendar(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}

	if weekStr := c.Query("week"); weekStr != "" {
		week, err := strconv.Atoi(weekStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid week query parameter.")
			return
		}
		days, err := h.planService.GetWeek(c.Request.Context(), actor, planID, week)
		if err != nil {
			respondServiceError(c, err, "Failed to retrieve calendar.")
			return
		}
		c.JSON(http.StatusOK, days)
		return
	}

	// Unbounded sides cover any plan year.
	from := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = parseDate("from", v); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = parseDate("to", v); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	days, err := h.planService.GetCalendar(c.Request.Context(), actor, planID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve calendar.")
		return
	}
	c.JSON(http.StatusOK, days)
}

// GetDay godoc
// @Summary Get the assignment of one day
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} domain.DailyAssignment
// @Failure 404 {object} gin.H "No assignment on that date"
// @Router /plans/{planId}/days/{date} [get]
func (h *PlanHandler) GetDay(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	date, err := parseDate("date", c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	day, err := h.planService.GetDay(c.Request.Context(), actor, planID, date)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve assignment.")
		return
	}
	c.JSON(http.StatusOK, day)
}

// UpdateAssignmentStatus godoc
// @Summary Update the progress of a daily assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param assignmentId path string true "Assignment ID"
// @Param status body UpdateAssignmentStatusRequest true "New status"
// @Success 200 {object} domain.DailyAssignment
// @Failure 409 {object} gin.H "Transition not allowed"
// @Router /assignments/{assignmentId}/status [patch]
func (h *PlanHandler) UpdateAssignmentStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := pathObjectID(c, "assignmentId")
	if !ok {
		return
	}
	var req UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	updated, err := h.adjustmentService.UpdateAssignmentStatus(c.Request.Context(), actor, assignmentID, req.Status, req.Notes)
	if err != nil {
		respondServiceError(c, err, "Failed to update assignment status.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SwapSessions godoc
// @Summary Swap the sessions of two planned days
// @Tags Assignments
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param swap body SwapSessionsRequest true "Dates to swap"
// @Success 200 {array} domain.DailyAssignment
// @Failure 409 {object} gin.H "One of the days is no longer planned"
// @Router /plans/{planId}/swap [post]
func (h *PlanHandler) SwapSessions(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	var req SwapSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	first, err := parseDate("first", req.First)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	second, err := parseDate("second", req.Second)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	days, err := h.adjustmentService.SwapSessions(c.Request.Context(), actor, planID, first, second)
	if err != nil {
		respondServiceError(c, err, "Failed to swap sessions.")
		return
	}
	c.JSON(http.StatusOK, days)
}
