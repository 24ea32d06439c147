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

const dailyAssignmentCollectionName = "daily_assignments"

// mongoDailyAssignmentRepository implements repository.DailyAssignmentRepository
type mongoDailyAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyAssignmentRepository creates a new DailyAssignment repository backed by MongoDB.
func NewMongoDailyAssignmentRepository(db *mongo.Database) repository.DailyAssignmentRepository {
	return &mongoDailyAssignmentRepository{
		collection: db.Collection(dailyAssignmentCollectionName),
	}
}

// CreateMany inserts the calendar of a plan in a single ordered batch.
func (r *mongoDailyAssignmentRepository) CreateMany(ctx context.Context, assignments []domain.DailyAssignment) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(assignments))
	for i := range assignments {
		if assignments[i].AnnualPlanID == primitive.NilObjectID {
			return 0, errors.New("assignment requires annualPlanId")
		}
		assignments[i].ID = primitive.NewObjectID()
		if assignments[i].Status == "" {
			assignments[i].Status = domain.StatusPlanned
		}
		docs[i] = assignments[i]
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoDailyAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyAssignment, error) {
	var assignment domain.DailyAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByPlanAndDate returns the assignment of one calendar day.
func (r *mongoDailyAssignmentRepository) GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error) {
	var assignment domain.DailyAssignment
	filter := bson.M{"annualPlanId": planID, "assignedDate": date.UTC()}
	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByPlanAndRange returns the assignments dated within [from, to], in date order.
func (r *mongoDailyAssignmentRepository) GetByPlanAndRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	filter := bson.M{
		"annualPlanId": planID,
		"assignedDate": bson.M{"$gte": from.UTC(), "$lte": to.UTC()},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := []domain.DailyAssignment{}
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// RecentTemplateIDs returns the distinct session templates the player
// completed or started since the given time.
func (r *mongoDailyAssignmentRepository) RecentTemplateIDs(ctx context.Context, playerID primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"playerId":          playerID,
		"assignedDate":      bson.M{"$gte": since.UTC()},
		"status":            bson.M{"$in": bson.A{domain.StatusCompleted, domain.StatusInProgress}},
		"sessionTemplateId": bson.M{"$ne": nil},
	}
	values, err := r.collection.Distinct(ctx, "sessionTemplateId", filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// UpdateStatus records progress on an assignment.
func (r *mongoDailyAssignmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AssignmentStatus, notes string) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	if notes != "" {
		set["notes"] = notes
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Update rewrites the session fields of an assignment. Plan, player and date
// are immutable.
func (r *mongoDailyAssignmentRepository) Update(ctx context.Context, assignment *domain.DailyAssignment) error {
	if assignment.ID == primitive.NilObjectID {
		return errors.New("assignment ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"sessionTemplateId": assignment.SessionTemplateID,
		"sessionType":       assignment.SessionType,
		"estimatedDuration": assignment.EstimatedDuration,
		"learningPhase":     assignment.LearningPhase,
		"setting":           assignment.Setting,
		"priority":          assignment.Priority,
		"isRestDay":         assignment.IsRestDay,
		"status":            assignment.Status,
		"notes":             assignment.Notes,
		"updatedAt":         time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": assignment.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDailyAssignmentIndexes creates necessary indexes for the daily_assignments collection.
func EnsureDailyAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// One record per plan day
			Keys:    bson.D{{Key: "annualPlanId", Value: 1}, {Key: "assignedDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Variety lookups by player history
			Keys:    bson.D{{Key: "playerId", Value: 1}, {Key: "assignedDate", Value: -1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// Usage counts per template
			Keys:    bson.D{{Key: "sessionTemplateId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
}
