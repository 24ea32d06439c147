package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for daily assignment lifecycle
type AssignmentStatus string

const (
	StatusPlanned    AssignmentStatus = "planned"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusSkipped    AssignmentStatus = "skipped"
)

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// SessionTypeRest is stored for rest days and for days where no session fitted.
const SessionTypeRest = "rest"

// DailyAssignment is the training assignment of one calendar day of a plan.
type DailyAssignment struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AnnualPlanID      primitive.ObjectID  `bson:"annualPlanId" json:"annualPlanId"`
	PlayerID          primitive.ObjectID  `bson:"playerId" json:"playerId"`
	AssignedDate      time.Time           `bson:"assignedDate" json:"assignedDate"` // UTC midnight
	WeekNumber        int                 `bson:"weekNumber" json:"weekNumber"`
	DayOfWeek         int                 `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday..6=Saturday
	SessionTemplateID *primitive.ObjectID `bson:"sessionTemplateId" json:"sessionTemplateId"`
	SessionType       string              `bson:"sessionType" json:"sessionType"`
	EstimatedDuration int                 `bson:"estimatedDuration" json:"estimatedDuration"` // minutes
	Period            Period              `bson:"period" json:"period"`
	LearningPhase     string              `bson:"learningPhase,omitempty" json:"learningPhase,omitempty"`
	Setting           string              `bson:"setting,omitempty" json:"setting,omitempty"`
	ClubSpeed         string              `bson:"clubSpeed" json:"clubSpeed"`
	Intensity         int                 `bson:"intensity" json:"intensity"`
	Priority          int                 `bson:"priority,omitempty" json:"priority,omitempty"`
	IsRestDay         bool                `bson:"isRestDay" json:"isRestDay"`
	Status            AssignmentStatus    `bson:"status" json:"status"`
	Notes             string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}
