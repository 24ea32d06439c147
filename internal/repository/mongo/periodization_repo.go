package mongo

import (
	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const periodizationCollectionName = "periodizations"

type mongoPeriodizationRepository struct {
	collection *mongo.Collection
}

// NewMongoPeriodizationRepository creates a repository for week descriptors.
func NewMongoPeriodizationRepository(db *mongo.Database) repository.PeriodizationRepository {
	return &mongoPeriodizationRepository{
		collection: db.Collection(periodizationCollectionName),
	}
}

// CreateMany inserts all weeks in one ordered batch and fills in their IDs.
func (r *mongoPeriodizationRepository) CreateMany(ctx context.Context, weeks []domain.Periodization) error {
	if len(weeks) == 0 {
		return nil
	}
	docs := make([]interface{}, len(weeks))
	for i := range weeks {
		weeks[i].ID = primitive.NewObjectID()
		docs[i] = weeks[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByPlanID returns the weeks of a plan in week order.
func (r *mongoPeriodizationRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Periodization, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"annualPlanId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	weeks := []domain.Periodization{}
	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

// EnsurePeriodizationIndexes creates necessary indexes.
func EnsurePeriodizationIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "annualPlanId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
