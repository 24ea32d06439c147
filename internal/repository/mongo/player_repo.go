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

const (
	baselineCollectionName      = "player_baselines"
	breakingPointCollectionName = "breaking_points"
)

// mongoPlayerRepository implements repository.PlayerRepository over two collections.
type mongoPlayerRepository struct {
	baselines      *mongo.Collection
	breakingPoints *mongo.Collection
}

// NewMongoPlayerRepository creates the baseline and breaking point repository.
func NewMongoPlayerRepository(db *mongo.Database) repository.PlayerRepository {
	return &mongoPlayerRepository{
		baselines:      db.Collection(baselineCollectionName),
		breakingPoints: db.Collection(breakingPointCollectionName),
	}
}

// GetBaseline returns repository.ErrNotFound when the player was never measured.
func (r *mongoPlayerRepository) GetBaseline(ctx context.Context, playerID primitive.ObjectID) (*domain.PlayerBaseline, error) {
	var baseline domain.PlayerBaseline
	err := r.baselines.FindOne(ctx, bson.M{"playerId": playerID}).Decode(&baseline)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &baseline, nil
}

// UpsertBaseline stores the latest baseline of a player, replacing the previous one.
func (r *mongoPlayerRepository) UpsertBaseline(ctx context.Context, baseline *domain.PlayerBaseline) error {
	if baseline.PlayerID == primitive.NilObjectID {
		return errors.New("baseline requires playerId")
	}
	baseline.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"scoringAverage": baseline.ScoringAverage,
			"handicap":       baseline.Handicap,
			"driverSpeed":    baseline.DriverSpeed,
			"updatedAt":      baseline.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.baselines.UpdateOne(ctx, bson.M{"playerId": baseline.PlayerID}, update, opts)
	return err
}

// ActiveBreakingPointIDs lists the player's constraints that are not resolved yet.
func (r *mongoPlayerRepository) ActiveBreakingPointIDs(ctx context.Context, playerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"playerId": playerID,
		"status": bson.M{"$in": bson.A{
			domain.BreakingPointIdentified,
			domain.BreakingPointNotStarted,
			domain.BreakingPointInProgress,
		}},
	}
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := r.breakingPoints.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// CreateBreakingPoint records a new constraint for a player.
func (r *mongoPlayerRepository) CreateBreakingPoint(ctx context.Context, bp *domain.BreakingPoint) (primitive.ObjectID, error) {
	if bp.PlayerID == primitive.NilObjectID || bp.Description == "" {
		return primitive.NilObjectID, errors.New("breaking point requires playerId and description")
	}
	bp.ID = primitive.NewObjectID()
	bp.CreatedAt = time.Now().UTC()
	if bp.Status == "" {
		bp.Status = domain.BreakingPointIdentified
	}

	if _, err := r.breakingPoints.InsertOne(ctx, bp); err != nil {
		return primitive.NilObjectID, err
	}
	return bp.ID, nil
}

// EnsurePlayerIndexes creates indexes for baselines and breaking points.
func EnsurePlayerIndexes(ctx context.Context, db *mongo.Database) {
	createIndexes(ctx, db.Collection(baselineCollectionName), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "playerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	createIndexes(ctx, db.Collection(breakingPointCollectionName), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "playerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	})
}
