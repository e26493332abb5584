package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const collectionUsers = "users"

// availability slot names the store understands; anything else is dropped
// before it can reach the query.
var knownSlots = map[string]struct{}{
	"weekdays": {},
	"weekends": {},
	"evenings": {},
	"mornings": {},
}

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindPublicCandidates returns every eligible browse candidate matching the
// pre-filter, ordered by stored rating descending. created_at and _id break
// ties so identical queries return identical orderings.
func (r *UserRepository) FindPublicCandidates(ctx context.Context, excludeID string, filter ports.CandidateFilter) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"is_public": true, "is_banned": false}
	if excludeID != "" {
		query["_id"] = bson.M{"$ne": excludeID}
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	if slots := sanitizeSlots(filter.Slots); len(slots) > 0 {
		or := make(bson.A, 0, len(slots))
		for _, slot := range slots {
			or = append(or, bson.M{"availability." + slot: true})
		}
		query["$or"] = or
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch map[string]any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range patch {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ReplaceSkills(ctx context.Context, id string, field string, skills []string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		field:        skills,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *UserRepository) SetSkillDescription(ctx context.Context, id string, skill, description string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"skill_descriptions." + skill: description,
		"updated_at":                  time.Now().UTC(),
	}})
}

func (r *UserRepository) RemoveSkillDescription(ctx context.Context, id string, skill string) error {
	return r.updateByID(ctx, id, bson.M{
		"$unset": bson.M{"skill_descriptions." + skill: ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
}

// ApplyRating folds a submitted value into the running average with a single
// aggregation-pipeline update, so concurrent ratings of the same user from
// different swaps serialize in the store.
func (r *UserRepository) ApplyRating(ctx context.Context, id string, value int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{bson.M{"$set": bson.M{
		"rating": bson.M{"$divide": bson.A{
			bson.M{"$add": bson.A{
				bson.M{"$multiply": bson.A{"$rating", "$total_ratings"}},
				value,
			}},
			bson.M{"$add": bson.A{"$total_ratings", 1}},
		}},
		"total_ratings": bson.M{"$add": bson.A{"$total_ratings", 1}},
		"updated_at":    "$$NOW",
	}}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"is_banned":  banned,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "is_banned", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func sanitizeSlots(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		name := domain.NormalizeSkill(s)
		if _, ok := knownSlots[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
