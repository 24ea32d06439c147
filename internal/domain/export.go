package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanExport stores metadata about an exported plan workbook.
// The file itself lives in S3.
type PlanExport struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AnnualPlanID primitive.ObjectID `bson:"annualPlanId" json:"annualPlanId"`
	PlayerID     primitive.ObjectID `bson:"playerId" json:"playerId"`
	RequestedBy  primitive.ObjectID `bson:"requestedBy" json:"requestedBy"`
	S3ObjectKey  string             `bson:"s3ObjectKey" json:"-"` // internal use
	FileName     string             `bson:"fileName" json:"fileName"`
	ContentType  string             `bson:"contentType" json:"contentType"`
	Size         int64              `bson:"size" json:"size"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
