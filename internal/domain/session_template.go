// internal/domain/session_template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTemplate is a reusable training session in a tenant's library.
// Optional fields are left empty (or nil) when the coach did not tag them.
type SessionTemplate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID      primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	SessionType   string             `bson:"sessionType" json:"sessionType"` // e.g. "technical", "physical", "mental"
	Duration      int                `bson:"duration" json:"duration"`       // minutes
	Periods       []Period           `bson:"periods" json:"periods"`         // first entry is the primary period
	LearningPhase string             `bson:"learningPhase,omitempty" json:"learningPhase,omitempty"` // L1..L5
	Setting       string             `bson:"setting,omitempty" json:"setting,omitempty"`             // S1..S10
	ClubSpeed     string             `bson:"clubSpeed,omitempty" json:"clubSpeed,omitempty"`         // CS20..CS120
	Intensity     *int               `bson:"intensity,omitempty" json:"intensity,omitempty"`         // 1..10
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SessionCandidate is a template returned by a candidate query together with
// the number of daily assignments that already reference it.
type SessionCandidate struct {
	SessionTemplate `bson:",inline"`
	UsageCount      int `bson:"usageCount" json:"usageCount"`
}
