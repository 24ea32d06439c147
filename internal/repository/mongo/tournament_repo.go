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

const tournamentCollectionName = "tournament_schedules"

type mongoTournamentRepository struct {
	collection *mongo.Collection
}

// NewMongoTournamentRepository creates a repository for scheduled tournaments.
func NewMongoTournamentRepository(db *mongo.Database) repository.TournamentRepository {
	return &mongoTournamentRepository{
		collection: db.Collection(tournamentCollectionName),
	}
}

func (r *mongoTournamentRepository) CreateMany(ctx context.Context, tournaments []domain.ScheduledTournament) error {
	if len(tournaments) == 0 {
		return nil
	}
	docs := make([]interface{}, len(tournaments))
	for i := range tournaments {
		tournaments[i].ID = primitive.NewObjectID()
		docs[i] = tournaments[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoTournamentRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduledTournament, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"annualPlanId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tournaments := []domain.ScheduledTournament{}
	if err = cursor.All(ctx, &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

// EnsureTournamentIndexes creates necessary indexes.
func EnsureTournamentIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "annualPlanId", Value: 1}, {Key: "startDate", Value: 1}},
			Options: options.Index(),
		},
	})
}
