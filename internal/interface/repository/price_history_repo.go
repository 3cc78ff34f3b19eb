package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPriceHistoryRepository implements PriceHistoryRepository
type MongoPriceHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoPriceHistoryRepository creates a new price history repository
func NewMongoPriceHistoryRepository(db *mongo.Database) repository.PriceHistoryRepository {
	collection := db.Collection("price_points")

	// Index on flightId + recordedAt for per-flight history queries
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "flightId", Value: 1},
			{Key: "recordedAt", Value: -1},
		},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoPriceHistoryRepository{
		collection: collection,
	}
}

// Append inserts a new price observation. Inserts only: the ledger has no
// update or delete path.
func (r *MongoPriceHistoryRepository) Append(ctx context.Context, point *entity.PricePoint) error {
	if point.ID == "" {
		point.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, point)
	return err
}

// FindByFlight returns the most recent observations for a flight
func (r *MongoPriceHistoryRepository) FindByFlight(ctx context.Context, flightID string, limit int) ([]*entity.PricePoint, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "recordedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"flightId": flightID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var points []*entity.PricePoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}
	return points, nil
}
