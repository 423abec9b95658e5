package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
)

// MongoSearchLogRepository implements the SearchLogRepository interface
type MongoSearchLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSearchLogRepository creates a new search log repository
func NewMongoSearchLogRepository(db *mongo.Database) repository.SearchLogRepository {
	collection := db.Collection("search_logs")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"userId": 1}},
		{Keys: bson.M{"searchedAt": -1}},
	})

	return &MongoSearchLogRepository{
		collection: collection,
	}
}

// Save inserts a search log
func (r *MongoSearchLogRepository) Save(ctx context.Context, log *entity.SearchLog) error {
	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	if log.SearchedAt.IsZero() {
		log.SearchedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to save search log: %w", err)
	}
	return nil
}
