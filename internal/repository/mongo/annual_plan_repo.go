// internal/repository/mongo/annual_plan_repo.go
package mongo

import (
	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const annualPlanCollectionName = "annual_plans"

// mongoAnnualPlanRepository implements repository.AnnualPlanRepository
type mongoAnnualPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoAnnualPlanRepository creates a new AnnualPlan repository.
func NewMongoAnnualPlanRepository(db *mongo.Database) repository.AnnualPlanRepository {
	return &mongoAnnualPlanRepository{
		collection: db.Collection(annualPlanCollectionName),
	}
}

// Create inserts a new plan header. A second active plan for the same player
// violates the partial unique index and yields repository.ErrActivePlanSet.
func (r *mongoAnnualPlanRepository) Create(ctx context.Context, plan *domain.AnnualPlan) (primitive.ObjectID, error) {
	if plan.PlayerID == primitive.NilObjectID || plan.PlanName == "" {
		return primitive.NilObjectID, errors.New("plan requires playerId and planName")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrActivePlanSet
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoAnnualPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AnnualPlan, error) {
	var plan domain.AnnualPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByPlayerID retrieves all plans of a player, newest first.
func (r *mongoAnnualPlanRepository) GetByPlayerID(ctx context.Context, playerID primitive.ObjectID) ([]domain.AnnualPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"playerId": playerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.AnnualPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetActiveForPlayer returns the player's single active plan.
func (r *mongoAnnualPlanRepository) GetActiveForPlayer(ctx context.Context, playerID primitive.ObjectID) (*domain.AnnualPlan, error) {
	var plan domain.AnnualPlan
	filter := bson.M{"playerId": playerID, "status": domain.PlanStatusActive}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ArchiveActiveForPlayer archives the player's active plans so a new one can
// be activated. It returns the number of archived plans.
func (r *mongoAnnualPlanRepository) ArchiveActiveForPlayer(ctx context.Context, playerID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"playerId": playerID,
		"status":   domain.PlanStatusActive,
	}
	update := bson.M{"$set": bson.M{"status": domain.PlanStatusArchived, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// LinkIntake records the intake form a plan was generated from.
func (r *mongoAnnualPlanRepository) LinkIntake(ctx context.Context, planID, intakeID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"sourceIntakeId": intakeID, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": planID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CompleteExpired marks active plans whose end date is before now as completed.
func (r *mongoAnnualPlanRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":  domain.PlanStatusActive,
		"endDate": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": domain.PlanStatusCompleted, "updatedAt": now.UTC()}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureAnnualPlanIndexes creates necessary indexes. Call during startup.
func EnsureAnnualPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// At most one active plan per player.
			Keys: bson.D{{Key: "playerId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("one_active_plan_per_player").
				SetPartialFilterExpression(bson.M{"status": domain.PlanStatusActive}),
		},
		{
			Keys:    bson.D{{Key: "playerId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}},
			Options: options.Index(),
		},
	})
}
