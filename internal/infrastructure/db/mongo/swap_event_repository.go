package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const collectionSwapEvents = "swap_events"

// SwapEventRepository persists lifecycle transitions to the swap_events audit
// collection.
type SwapEventRepository struct {
	db *mongo.Database
}

func NewSwapEventRepository(db *mongo.Database) ports.SwapEventRepository {
	return &SwapEventRepository{db: db}
}

func (r *SwapEventRepository) InsertEvent(ctx context.Context, event *domain.SwapEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"swap_id":      event.SwapID,
		"status":       string(event.Status),
		"actor_id":     event.ActorID,
		"role":         string(event.Role),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}

	_, err := r.db.Collection(collectionSwapEvents).InsertOne(ctx, doc)
	return err
}
