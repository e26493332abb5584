package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

const collectionSwaps = "swaps"

// SwapRepository implements ports.SwapRepository using MongoDB. Transitions
// and rating-slot writes are conditional UpdateOne calls whose filters encode
// the precondition, so a lost race surfaces as domain.ErrConflict instead of
// a double apply.
type SwapRepository struct {
	col *mongo.Collection
}

func NewSwapRepository(db *mongo.Database) *SwapRepository {
	return &SwapRepository{col: db.Collection(collectionSwaps)}
}

func (r *SwapRepository) Insert(ctx context.Context, swap *domain.Swap) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, swap)
	return err
}

func (r *SwapRepository) FindByID(ctx context.Context, id string) (*domain.Swap, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Swap
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByParticipant returns all swaps where the user is requester or
// recipient, newest first.
func (r *SwapRepository) FindByParticipant(ctx context.Context, userID string) ([]*domain.Swap, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"$or": bson.A{
		bson.M{"requester_id": userID},
		bson.M{"recipient_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var swaps []*domain.Swap
	if err := cursor.All(ctx, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// UpdateStatus transitions the swap only while its stored status still equals
// expected. MatchedCount 0 means another request already moved it.
func (r *SwapRepository) UpdateStatus(ctx context.Context, id string, expected, next domain.SwapStatus, completedAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"status": next, "updated_at": time.Now().UTC()}
	if completedAt != nil {
		set["completed_at"] = completedAt.UTC()
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "status": expected}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrConflict
	}
	return nil
}

// SetRating claims the role's rating slot: the filter requires status
// completed and the slot unset, making check-and-set one atomic step.
func (r *SwapRepository) SetRating(ctx context.Context, id string, role domain.SwapRole, rating *domain.SwapRating) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	field := "requester_rating"
	if role == domain.RoleRecipient {
		field = "recipient_rating"
	}

	filter := bson.M{
		"_id":    id,
		"status": domain.SwapCompleted,
		field:    bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		field:        rating,
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrConflict
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the swaps collection.
func (r *SwapRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
