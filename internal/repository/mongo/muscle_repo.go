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

const muscleCollectionName = "muscles"

// mongoMuscleRepository implements repository.MuscleRepository
type mongoMuscleRepository struct {
	collection *mongo.Collection
}

// NewMongoMuscleRepository creates a new Muscle repository backed by MongoDB.
func NewMongoMuscleRepository(db *mongo.Database) repository.MuscleRepository {
	return &mongoMuscleRepository{
		collection: db.Collection(muscleCollectionName),
	}
}

// Create inserts a new muscle into the database.
func (r *mongoMuscleRepository) Create(ctx context.Context, muscle *domain.Muscle) (primitive.ObjectID, error) {
	if muscle.Name == "" {
		return primitive.NilObjectID, errors.New("muscle name is required")
	}

	muscle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	muscle.CreatedAt = now
	muscle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, muscle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a muscle by its ID.
func (r *mongoMuscleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Muscle, error) {
	var muscle domain.Muscle
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&muscle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &muscle, nil
}

// GetByIDs retrieves all muscles whose ids are in the given list.
func (r *mongoMuscleRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Muscle, error) {
	if len(ids) == 0 {
		return []domain.Muscle{}, nil
	}

	var muscles []domain.Muscle
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &muscles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return muscles, nil
}

// GetAll retrieves every muscle, sorted by name.
func (r *mongoMuscleRepository) GetAll(ctx context.Context) ([]domain.Muscle, error) {
	var muscles []domain.Muscle
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &muscles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return muscles, nil
}

// Update modifies an existing muscle.
func (r *mongoMuscleRepository) Update(ctx context.Context, muscle *domain.Muscle) error {
	if muscle.ID == primitive.NilObjectID {
		return errors.New("muscle ID is required for update")
	}
	if muscle.Name == "" {
		return errors.New("muscle name cannot be empty")
	}

	filter := bson.M{"_id": muscle.ID}
	update := bson.M{
		"$set": bson.M{
			"name":      muscle.Name,
			"upper":     muscle.Upper,
			"lower":     muscle.Lower,
			"pushing":   muscle.Pushing,
			"pulling":   muscle.Pulling,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a muscle.
func (r *mongoMuscleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMuscleIndexes creates necessary indexes for the muscles collection.
func EnsureMuscleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Muscle names must be unique among muscles
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
