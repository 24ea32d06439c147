package api

import (
	"alcyxob/golf-coach/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoachHandler handles the roster and player inputs managed by a coach.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- DTOs ---

type AddPlayerRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type BaselineRequest struct {
	ScoringAverage float64  `json:"scoringAverage" binding:"required,gt=0"`
	Handicap       *float64 `json:"handicap,omitempty"`
	DriverSpeed    *float64 `json:"driverSpeed,omitempty" binding:"omitempty,gt=0"`
}

type BreakingPointRequest struct {
	Description    string `json:"description" binding:"required"`
	TestDomainCode string `json:"testDomainCode,omitempty"`
}

// --- Handlers ---

// AddPlayerByEmail godoc
// @Summary Add a player to the coach's roster
// @Tags Coach
// @Accept json
// @Produce json
// @Param player body AddPlayerRequest true "Player email"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Validation error or user is not a player"
// @Failure 404 {object} gin.H "Player not found"
// @Failure 409 {object} gin.H "Player already assigned"
// @Router /coach/players [post]
func (h *CoachHandler) AddPlayerByEmail(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	player, err := h.coachService.AddPlayerByEmail(c.Request.Context(), actor, req.Email)
	if err != nil {
		respondServiceError(c, err, "Failed to add player.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(player))
}

// GetManagedPlayers godoc
// @Summary List the players of the authenticated coach
// @Tags Coach
// @Produce json
// @Success 200 {array} UserResponse
// @Router /coach/players [get]
func (h *CoachHandler) GetManagedPlayers(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	players, err := h.coachService.GetManagedPlayers(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve players.")
		return
	}

	resp := make([]UserResponse, len(players))
	for i := range players {
		resp[i] = MapUserToResponse(&players[i])
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateBaseline godoc
// @Summary Record a player's current level
// @Description Stores the scoring average and optional handicap and driver speed used by plan generation.
// @Tags Players
// @Accept json
// @Produce json
// @Param playerId path string true "Player ID"
// @Param baseline body BaselineRequest true "Baseline"
// @Success 200 {object} domain.PlayerBaseline
// @Router /players/{playerId}/baseline [put]
func (h *CoachHandler) UpdateBaseline(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	playerID, ok := pathObjectID(c, "playerId")
	if !ok {
		return
	}
	var req BaselineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	baseline, err := h.coachService.UpdateBaseline(c.Request.Context(), actor, playerID, service.BaselineInput{
		ScoringAverage: req.ScoringAverage,
		Handicap:       req.Handicap,
		DriverSpeed:    req.DriverSpeed,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update baseline.")
		return
	}
	c.JSON(http.StatusOK, baseline)
}

// AddBreakingPoint godoc
// @Summary Record a breaking point for a player
// @Tags Players
// @Accept json
// @Produce json
// @Param playerId path string true "Player ID"
// @Param breakingPoint body BreakingPointRequest true "Breaking point"
// @Success 201 {object} domain.BreakingPoint
// @Router /players/{playerId}/breaking-points [post]
func (h *CoachHandler) AddBreakingPoint(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	playerID, ok := pathObjectID(c, "playerId")
	if !ok {
		return
	}
	var req BreakingPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	bp, err := h.coachService.AddBreakingPoint(c.Request.Context(), actor, playerID, req.Description, req.TestDomainCode)
	if err != nil {
		respondServiceError(c, err, "Failed to record breaking point.")
		return
	}
	c.JSON(http.StatusCreated, bp)
}
