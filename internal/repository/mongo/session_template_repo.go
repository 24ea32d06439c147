// internal/repository/mongo/session_template_repo.go
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

const sessionTemplateCollectionName = "session_templates"

// mongoSessionTemplateRepository implements repository.SessionTemplateRepository
type mongoSessionTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionTemplateRepository creates a new session library repository.
func NewMongoSessionTemplateRepository(db *mongo.Database) repository.SessionTemplateRepository {
	return &mongoSessionTemplateRepository{
		collection: db.Collection(sessionTemplateCollectionName),
	}
}

// Create inserts a new session template.
func (r *mongoSessionTemplateRepository) Create(ctx context.Context, tpl *domain.SessionTemplate) (primitive.ObjectID, error) {
	if tpl.TenantID == primitive.NilObjectID || tpl.Name == "" {
		return primitive.NilObjectID, errors.New("session template requires tenantId and name")
	}
	tpl.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, tpl)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session template by its ID.
func (r *mongoSessionTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionTemplate, error) {
	var tpl domain.SessionTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// GetByTenantID lists a tenant's library ordered by name.
func (r *mongoSessionTemplateRepository) GetByTenantID(ctx context.Context, tenantID primitive.ObjectID) ([]domain.SessionTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := []domain.SessionTemplate{}
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update modifies the descriptive and matching fields of a template.
func (r *mongoSessionTemplateRepository) Update(ctx context.Context, tpl *domain.SessionTemplate) error {
	if tpl.ID == primitive.NilObjectID {
		return errors.New("session template ID is required for update")
	}

	filter := bson.M{"_id": tpl.ID, "tenantId": tpl.TenantID}
	update := bson.M{"$set": bson.M{
		"name":          tpl.Name,
		"description":   tpl.Description,
		"sessionType":   tpl.SessionType,
		"duration":      tpl.Duration,
		"periods":       tpl.Periods,
		"learningPhase": tpl.LearningPhase,
		"setting":       tpl.Setting,
		"clubSpeed":     tpl.ClubSpeed,
		"intensity":     tpl.Intensity,
		"isActive":      tpl.IsActive,
		"updatedAt":     time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a template owned by the tenant.
func (r *mongoSessionTemplateRepository) Delete(ctx context.Context, id, tenantID primitive.ObjectID) error {
	if id == primitive.NilObjectID || tenantID == primitive.NilObjectID {
		return errors.New("template ID and tenant ID are required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "tenantId": tenantID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// candidateMatch builds the $match stage of the candidate query. Tag
// dimensions are strict: a template must carry one of the requested values.
func candidateMatch(f repository.CandidateFilter) bson.M {
	match := bson.M{"isActive": true}
	if f.TenantID != primitive.NilObjectID {
		match["tenantId"] = f.TenantID
	}
	if len(f.Periods) > 0 {
		match["periods"] = bson.M{"$in": f.Periods}
	}
	if len(f.LearningPhases) > 0 {
		match["learningPhase"] = bson.M{"$in": f.LearningPhases}
	}
	if len(f.Settings) > 0 {
		match["setting"] = bson.M{"$in": f.Settings}
	}
	if f.ClubSpeed != "" {
		match["clubSpeed"] = f.ClubSpeed
	}
	duration := bson.M{}
	if f.MinDuration > 0 {
		duration["$gte"] = f.MinDuration
	}
	if f.MaxDuration > 0 {
		duration["$lte"] = f.MaxDuration
	}
	if len(duration) > 0 {
		match["duration"] = duration
	}
	if len(f.ExcludeIDs) > 0 {
		match["_id"] = bson.M{"$nin": f.ExcludeIDs}
	}
	return match
}

// FindCandidates runs the candidate query of session selection and attaches
// to each template the number of daily assignments referencing it.
func (r *mongoSessionTemplateRepository) FindCandidates(ctx context.Context, f repository.CandidateFilter) ([]domain.SessionCandidate, error) {
	match := candidateMatch(f)

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from": dailyAssignmentCollectionName,
			"let":  bson.M{"tid": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$sessionTemplateId", "$$tid"}}}},
				bson.M{"$count": "n"},
			},
			"as": "usage",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"usageCount": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$usage.n", 0}}, 0}},
		}}},
		{{Key: "$project", Value: bson.M{"usage": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	candidates := []domain.SessionCandidate{}
	if err = cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}


// EnsureSessionTemplateIndexes creates necessary indexes.
func EnsureSessionTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// Candidate query: tenant, active flag, period tags, duration range
			Keys: bson.D{
				{Key: "tenantId", Value: 1},
				{Key: "isActive", Value: 1},
				{Key: "periods", Value: 1},
				{Key: "duration", Value: 1},
			},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	})
}
