package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Importance tiers for tournaments. A is the season highlight.
type Importance string

const (
	ImportanceA Importance = "A"
	ImportanceB Importance = "B"
	ImportanceC Importance = "C"
)

// TournamentInput is a tournament the player wants the plan built around.
type TournamentInput struct {
	Name         string              `json:"name"`
	StartDate    time.Time           `json:"startDate"`
	EndDate      time.Time           `json:"endDate"`
	Importance   Importance          `json:"importance"`
	TournamentID *primitive.ObjectID `json:"tournamentId,omitempty"` // external tournament reference
}

// ScheduledTournament is a tournament placed on the plan timeline with its
// preparation (topping) and taper windows.
type ScheduledTournament struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AnnualPlanID         primitive.ObjectID  `bson:"annualPlanId" json:"annualPlanId"`
	TournamentID         *primitive.ObjectID `bson:"tournamentId,omitempty" json:"tournamentId,omitempty"`
	Name                 string              `bson:"name" json:"name"`
	StartDate            time.Time           `bson:"startDate" json:"startDate"`
	EndDate              time.Time           `bson:"endDate" json:"endDate"`
	Importance           Importance          `bson:"importance" json:"importance"`
	WeekNumber           int                 `bson:"weekNumber" json:"weekNumber"`
	Period               Period              `bson:"period" json:"period"`
	ToppingStartWeek     int                 `bson:"toppingStartWeek" json:"toppingStartWeek"`
	ToppingDurationWeeks int                 `bson:"toppingDurationWeeks" json:"toppingDurationWeeks"`
	TaperingStartDate    time.Time           `bson:"taperingStartDate" json:"taperingStartDate"`
	TaperingDurationDays int                 `bson:"taperingDurationDays" json:"taperingDurationDays"`
	FocusAreas           []string            `bson:"focusAreas" json:"focusAreas"`
}
