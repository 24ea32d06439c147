package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlayerBaseline holds the latest measured baseline of a player.
// DriverSpeed comes from the club-speed calibration (mph).
type PlayerBaseline struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlayerID       primitive.ObjectID `bson:"playerId" json:"playerId"`
	ScoringAverage float64            `bson:"scoringAverage" json:"scoringAverage"`
	Handicap       *float64           `bson:"handicap,omitempty" json:"handicap,omitempty"`
	DriverSpeed    *float64           `bson:"driverSpeed,omitempty" json:"driverSpeed,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BreakingPointStatus for the constraint lifecycle.
type BreakingPointStatus string

const (
	BreakingPointIdentified BreakingPointStatus = "identified"
	BreakingPointNotStarted BreakingPointStatus = "not_started"
	BreakingPointInProgress BreakingPointStatus = "in_progress"
	BreakingPointResolved   BreakingPointStatus = "resolved"
)

// BreakingPoint is a performance constraint identified for a player.
type BreakingPoint struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlayerID       primitive.ObjectID  `bson:"playerId" json:"playerId"`
	Description    string              `bson:"description" json:"description"`
	TestDomainCode string              `bson:"testDomainCode,omitempty" json:"testDomainCode,omitempty"`
	Status         BreakingPointStatus `bson:"status" json:"status"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}
