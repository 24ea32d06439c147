package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Period is the training period code of a week.
type Period string

const (
	PeriodEstablishment Period = "E" // base / general establishment
	PeriodGeneral       Period = "G"
	PeriodSpecific      Period = "S"
	PeriodTournament    Period = "T"
)

// Phase names the macro phase a week belongs to.
type Phase string

const (
	PhaseBase           Phase = "base"
	PhaseSpecialization Phase = "specialization"
	PhaseTournament     Phase = "tournament"
	PhaseRecovery       Phase = "recovery"
)

// Phases lists the macro phases in plan order.
var Phases = []Phase{PhaseBase, PhaseSpecialization, PhaseTournament, PhaseRecovery}

// Intensity is the weekly volume/intensity label.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
	IntensityPeak   Intensity = "peak"
	IntensityTaper  Intensity = "taper"
)

// Level maps the label onto the 1-10 scale stored on daily assignments.
func (i Intensity) Level() int {
	switch i {
	case IntensityLow:
		return 3
	case IntensityMedium:
		return 5
	case IntensityHigh:
		return 7
	case IntensityPeak:
		return 9
	case IntensityTaper:
		return 4
	}
	return 5
}

// Periodization describes one of the 52 weeks of an annual plan.
type Periodization struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AnnualPlanID    primitive.ObjectID `bson:"annualPlanId" json:"annualPlanId"`
	PlayerID        primitive.ObjectID `bson:"playerId" json:"playerId"`
	WeekNumber      int                `bson:"weekNumber" json:"weekNumber"` // 1..52
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
	Period          Period             `bson:"period" json:"period"`
	PeriodPhase     Phase              `bson:"periodPhase" json:"periodPhase"`
	WeekInPeriod    int                `bson:"weekInPeriod" json:"weekInPeriod"`
	LearningPhases  []string           `bson:"learningPhases" json:"learningPhases"`
	FocusAreas      []string           `bson:"focusAreas,omitempty" json:"focusAreas,omitempty"`
	VolumeIntensity Intensity          `bson:"volumeIntensity" json:"volumeIntensity"`
	PlannedHours    int                `bson:"plannedHours" json:"plannedHours"`
}
