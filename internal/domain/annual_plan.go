// internal/domain/annual_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus tracks the lifecycle of an annual plan.
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusArchived  PlanStatus = "archived"
)

// PhaseLoad is the nominal volume/intensity pair of one training phase.
type PhaseLoad struct {
	Volume    string `bson:"volume" json:"volume"`
	Intensity string `bson:"intensity" json:"intensity"`
}

// AnnualPlan is the header of a generated 12-month plan. The periodization rows,
// scheduled tournaments and daily assignments all point back to it.
type AnnualPlan struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PlayerID             primitive.ObjectID   `bson:"playerId" json:"playerId"`
	TenantID             primitive.ObjectID   `bson:"tenantId" json:"tenantId"`
	PlanName             string               `bson:"planName" json:"planName"`
	StartDate            time.Time            `bson:"startDate" json:"startDate"`
	EndDate              time.Time            `bson:"endDate" json:"endDate"`
	Status               PlanStatus           `bson:"status" json:"status"`
	BaselineAverageScore float64              `bson:"baselineAverageScore" json:"baselineAverageScore"`
	BaselineHandicap     *float64             `bson:"baselineHandicap,omitempty" json:"baselineHandicap,omitempty"`
	BaselineDriverSpeed  *float64             `bson:"baselineDriverSpeed,omitempty" json:"baselineDriverSpeed,omitempty"`
	PlayerCategory       string               `bson:"playerCategory" json:"playerCategory"`
	ClubSpeedLevel       string               `bson:"clubSpeedLevel" json:"clubSpeedLevel"`
	BasePeriodWeeks      int                  `bson:"basePeriodWeeks" json:"basePeriodWeeks"`
	SpecializationWeeks  int                  `bson:"specializationWeeks" json:"specializationWeeks"`
	TournamentWeeks      int                  `bson:"tournamentWeeks" json:"tournamentWeeks"`
	RecoveryWeeks        int                  `bson:"recoveryWeeks" json:"recoveryWeeks"`
	WeeklyHoursTarget    int                  `bson:"weeklyHoursTarget" json:"weeklyHoursTarget"`
	IntensityProfile     map[string]PhaseLoad `bson:"intensityProfile" json:"intensityProfile"`
	SourceIntakeID       *primitive.ObjectID  `bson:"sourceIntakeId,omitempty" json:"sourceIntakeId,omitempty"`
	GeneratedAt          time.Time            `bson:"generatedAt" json:"generatedAt"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}
