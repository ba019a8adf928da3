package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedRepository handles database operations related to feed items.
type FeedRepository struct {
	collection *mongo.Collection
}

// NewFeedRepository creates a new instance of FeedRepository.
func NewFeedRepository(db *mongo.Database) *FeedRepository {
	return &FeedRepository{
		collection: db.Collection("feed"),
	}
}

// CreateFeedItem inserts a new feed item.
func (r *FeedRepository) CreateFeedItem(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error) {
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	if item.Comments == nil {
		item.Comments = []models.Comment{}
	}

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert feed item")
		return nil, fmt.Errorf("failed to insert feed item: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	item.ID = insertedID

	logrus.WithField("feedID", item.ID.Hex()).Info("Feed item created successfully")
	return item, nil
}

// GetFeedItemByID fetches a feed item by ID.
func (r *FeedRepository) GetFeedItemByID(ctx context.Context, id primitive.ObjectID) (*models.FeedItem, error) {
	var item models.FeedItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetFeedItems fetches group-scoped feed items, newest first, with
// optional type/urgent filters and a result limit.
func (r *FeedRepository) GetFeedItems(ctx context.Context, groupID primitive.ObjectID, feedType string, urgentOnly bool, limit int64) ([]models.FeedItem, error) {
	filter := bson.M{"group": groupID}
	if feedType != "" {
		filter["type"] = feedType
	}
	if urgentOnly {
		filter["urgent"] = true
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed items: %v", err)
	}
	defer cursor.Close(ctx)

	var items []models.FeedItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode feed items: %v", err)
	}
	return items, nil
}

// UpdateFeedItem replaces the mutable fields of a feed item document.
func (r *FeedRepository) UpdateFeedItem(ctx context.Context, id primitive.ObjectID, item *models.FeedItem) (*models.FeedItem, error) {
	item.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": item})
	if err != nil {
		logrus.WithField("feedID", id.Hex()).WithError(err).Error("Failed to update feed item")
		return nil, fmt.Errorf("failed to update feed item: %v", err)
	}
	return item, nil
}

// DeleteFeedItem removes a feed item document.
func (r *FeedRepository) DeleteFeedItem(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feed item: %v", err)
	}
	logrus.WithField("feedID", id.Hex()).Info("Feed item deleted successfully")
	return nil
}
