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

// ChatRepository handles database operations related to chat threads.
type ChatRepository struct {
	collection *mongo.Collection
}

// NewChatRepository creates a new instance of ChatRepository.
func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		collection: db.Collection("chats"),
	}
}

// CreateThread inserts a new chat thread.
func (r *ChatRepository) CreateThread(ctx context.Context, thread *models.ChatThread) (*models.ChatThread, error) {
	thread.CreatedAt = time.Now()
	thread.UpdatedAt = time.Now()
	if thread.LastMessage.IsZero() {
		thread.LastMessage = time.Now()
	}
	if thread.Messages == nil {
		thread.Messages = []models.ChatMessage{}
	}

	result, err := r.collection.InsertOne(ctx, thread)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert chat thread")
		return nil, fmt.Errorf("failed to insert chat thread: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	thread.ID = insertedID

	logrus.WithField("threadID", thread.ID.Hex()).Info("Chat thread created successfully")
	return thread, nil
}

// GetThreadByID fetches a chat thread by ID.
func (r *ChatRepository) GetThreadByID(ctx context.Context, id primitive.ObjectID) (*models.ChatThread, error) {
	var thread models.ChatThread
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&thread)
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetThreadsByGroup fetches every thread of a group, most recently
// active first.
func (r *ChatRepository) GetThreadsByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.ChatThread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"group": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat threads: %v", err)
	}
	defer cursor.Close(ctx)

	var threads []models.ChatThread
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode chat threads: %v", err)
	}
	return threads, nil
}

// AppendMessage pushes a message onto a thread and refreshes its
// last-message timestamp in one update.
func (r *ChatRepository) AppendMessage(ctx context.Context, threadID primitive.ObjectID, message models.ChatMessage) error {
	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set": bson.M{
			"last_message": message.Timestamp,
			"updated_at":   time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": threadID}, update)
	if err != nil {
		logrus.WithField("threadID", threadID.Hex()).WithError(err).Error("Failed to append chat message")
		return fmt.Errorf("failed to append message: %v", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
