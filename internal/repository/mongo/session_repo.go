package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new WorkoutSession repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new workout session into the database.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID || session.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires user and workout IDs")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = domain.SessionInProgress
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}

	return insertedID, nil
}

// GetByID retrieves a workout session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByIDs retrieves all sessions whose ids are in the given list.
func (r *mongoSessionRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.WorkoutSession, error) {
	if len(ids) == 0 {
		return []domain.WorkoutSession{}, nil
	}

	var sessions []domain.WorkoutSession
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// GetByUserID retrieves all of a user's sessions, newest first.
func (r *mongoSessionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	var sessions []domain.WorkoutSession
	filter := bson.M{"user": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Update applies a partial update to a session. Only the fields present
// in the SessionUpdate are written; ownership is checked by the caller.
func (r *mongoSessionRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.SessionUpdate) error {
	if id == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}

	setFields := bson.M{
		"updatedAt": time.Now().UTC(),
	}
	if update.ExercisePerformances != nil {
		setFields["exercisePerformances"] = update.ExercisePerformances
	}
	if update.Notes != nil {
		setFields["notes"] = *update.Notes
	}
	if update.Status != nil {
		setFields["status"] = *update.Status
	}
	if update.Duration != nil {
		setFields["duration"] = *update.Duration
	}
	if update.CompletedAt != nil {
		setFields["completedAt"] = *update.CompletedAt
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": setFields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session, ensuring it belongs to the specified user.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	filter := bson.M{
		"_id":  id,
		"user": userID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindLastCompletedWithExercise finds the user's most recent completed
// session, other than excludeID, that contains the given exercise
// performed with at least one nonzero-weight, nonzero-rep set. The sort
// on {completedAt desc, _id desc} makes the tie-break deterministic:
// among candidates sharing a completedAt, the highest id wins.
func (r *mongoSessionRepository) FindLastCompletedWithExercise(ctx context.Context, userID, exerciseID, excludeID primitive.ObjectID) (*domain.WorkoutSession, error) {
	findOptions := options.FindOne().SetSort(lastCompletedSort())

	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, lastCompletedFilter(userID, exerciseID, excludeID), findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// lastCompletedFilter matches the user's completed sessions, other than
// excludeID, containing the exercise with at least one set where both
// weight and reps are positive. Sessions that only ever logged the
// exercise with empty sets never match.
func lastCompletedFilter(userID, exerciseID, excludeID primitive.ObjectID) bson.M {
	return bson.M{
		"user":   userID,
		"status": domain.SessionCompleted,
		"_id":    bson.M{"$ne": excludeID},
		"exercisePerformances": bson.M{
			"$elemMatch": bson.M{
				"exercise": exerciseID,
				"sets": bson.M{
					"$elemMatch": bson.M{
						"weight": bson.M{"$gt": 0},
						"reps":   bson.M{"$gt": 0},
					},
				},
			},
		},
	}
}

func lastCompletedSort() bson.D {
	return bson.D{
		{Key: "completedAt", Value: -1},
		{Key: "_id", Value: -1},
	}
}

// LatestPerProgram groups the user's sessions under the given programs
// by program and picks the most recently created session of each group.
// The grouping key is the program, not the workout: two workouts logged
// under the same program collapse to one row.
func (r *mongoSessionRepository) LatestPerProgram(ctx context.Context, userID primitive.ObjectID, programIDs []primitive.ObjectID) ([]repository.LatestSessionRow, error) {
	if len(programIDs) == 0 {
		return []repository.LatestSessionRow{}, nil
	}

	return r.aggregateLatestRows(ctx, latestPerProgramPipeline(userID, programIDs))
}

// LatestStandalonePerWorkout groups the user's program-less sessions by
// workout, keeps the newest of each group and returns at most limit
// rows, newest first.
func (r *mongoSessionRepository) LatestStandalonePerWorkout(ctx context.Context, userID primitive.ObjectID, limit int) ([]repository.LatestSessionRow, error) {
	return r.aggregateLatestRows(ctx, latestStandalonePipeline(userID, limit))
}

func latestPerProgramPipeline(userID primitive.ObjectID, programIDs []primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user":    userID,
			"program": bson.M{"$in": programIDs},
		}}},
	}
	return append(pipeline, latestGroupStages("$program")...)
}

// latestStandalonePipeline keys on the workout. The nil program filter
// matches both absent and explicit-null program fields.
func latestStandalonePipeline(userID primitive.ObjectID, limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user":    userID,
			"program": nil,
		}}},
	}
	pipeline = append(pipeline, latestGroupStages("$workout")...)
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	return pipeline
}

// latestGroupStages sorts newest-created first with id as tie-break,
// keeps the first session of each group and reorders the groups by
// their session's creation time.
func latestGroupStages(groupKey string) []bson.D {
	return []bson.D{
		{{Key: "$sort", Value: bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":       groupKey,
			"sessionId": bson.M{"$first": "$_id"},
			"createdAt": bson.M{"$first": "$createdAt"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
}

func (r *mongoSessionRepository) aggregateLatestRows(ctx context.Context, pipeline mongo.Pipeline) ([]repository.LatestSessionRow, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.LatestSessionRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}

// EnsureSessionIndexes creates necessary indexes for the workout
// sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Listing a user's sessions, newest first
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Last-performance lookups filter on user + status and sort on completedAt
			Keys: bson.D{
				{Key: "user", Value: 1},
				{Key: "status", Value: 1},
				{Key: "completedAt", Value: -1},
			},
			Options: options.Index(),
		},
		{
			// Recent-activity grouping by program
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "program", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exercisePerformances.exercise", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
