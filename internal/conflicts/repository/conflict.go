package repository

import (
	"context"
	"fmt"
	"time"

	conflictserrors "notcluely/internal/conflicts/errors"
	"notcluely/pkg/config"
	"notcluely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "conflicts"
)

type ConflictRepository interface {
	InsertMany(ctx context.Context, conflicts []*model.Conflict) error
	FindUnresolved(ctx context.Context) ([]*model.Conflict, error)
	FindUnresolvedForUser(ctx context.Context, userID string) ([]*model.Conflict, error)
	Resolve(ctx context.Context, id string) error
	DeleteReferencing(ctx context.Context, bookingID string) (int64, error)
}

type mongoConflictRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoConflictRepository(cfg *config.Config) ConflictRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoConflictRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoConflictRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoConflictRepository) InsertMany(ctx context.Context, conflicts []*model.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, len(conflicts))
	for i, c := range conflicts {
		c.CreatedAt = now
		docs[i] = c
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert conflicts: %w", err)
	}
	return nil
}

func (r *mongoConflictRepository) FindUnresolved(ctx context.Context) ([]*model.Conflict, error) {
	return r.find(ctx, bson.M{"resolved": false})
}

func (r *mongoConflictRepository) FindUnresolvedForUser(ctx context.Context, userID string) ([]*model.Conflict, error) {
	return r.find(ctx, bson.M{
		"resolved": false,
		"$or": []bson.M{
			{"user1_id": userID},
			{"user2_id": userID},
		},
	})
}

func (r *mongoConflictRepository) find(ctx context.Context, filter bson.M) ([]*model.Conflict, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicts: %w", err)
	}
	defer cursor.Close(ctx)

	var conflicts []*model.Conflict
	if err = cursor.All(ctx, &conflicts); err != nil {
		return nil, fmt.Errorf("failed to decode conflicts: %w", err)
	}

	return conflicts, nil
}

// Resolve marks the conflict resolved. Resolving an already-resolved
// conflict matches the document and succeeds, so the operation is
// idempotent; only a missing id fails.
func (r *mongoConflictRepository) Resolve(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"resolved": true}})
	if err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}
	if result.MatchedCount == 0 {
		return conflictserrors.ErrNotFound
	}
	return nil
}

// DeleteReferencing removes every conflict that points at the booking on
// either side, resolved or not.
func (r *mongoConflictRepository) DeleteReferencing(ctx context.Context, bookingID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"booking1_id": bookingID},
			{"booking2_id": bookingID},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete conflicts: %w", err)
	}
	return result.DeletedCount, nil
}
