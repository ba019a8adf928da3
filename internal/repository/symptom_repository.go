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

// SymptomRepository handles database operations related to symptoms.
type SymptomRepository struct {
	collection *mongo.Collection
}

// NewSymptomRepository creates a new instance of SymptomRepository.
func NewSymptomRepository(db *mongo.Database) *SymptomRepository {
	return &SymptomRepository{
		collection: db.Collection("symptoms"),
	}
}

// CreateSymptom inserts a new symptom record.
func (r *SymptomRepository) CreateSymptom(ctx context.Context, symptom *models.Symptom) (*models.Symptom, error) {
	symptom.CreatedAt = time.Now()
	symptom.UpdatedAt = time.Now()
	if symptom.Timestamp.IsZero() {
		symptom.Timestamp = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, symptom)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert symptom")
		return nil, fmt.Errorf("failed to insert symptom: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	symptom.ID = insertedID

	logrus.WithField("symptomID", symptom.ID.Hex()).Info("Symptom created successfully")
	return symptom, nil
}

// GetSymptomByID fetches a symptom by ID.
func (r *SymptomRepository) GetSymptomByID(ctx context.Context, id primitive.ObjectID) (*models.Symptom, error) {
	var symptom models.Symptom
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&symptom)
	if err != nil {
		return nil, err
	}
	return &symptom, nil
}

// GetSymptoms fetches symptoms filtered by patient and timestamp range,
// most recent first.
func (r *SymptomRepository) GetSymptoms(ctx context.Context, patientID *primitive.ObjectID, start, end time.Time) ([]models.Symptom, error) {
	filter := bson.M{}
	if patientID != nil {
		filter["patient"] = *patientID
	}
	timestamp := bson.M{}
	if !start.IsZero() {
		timestamp["$gte"] = start
	}
	if !end.IsZero() {
		timestamp["$lte"] = end
	}
	if len(timestamp) > 0 {
		filter["timestamp"] = timestamp
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch symptoms: %v", err)
	}
	defer cursor.Close(ctx)

	var symptoms []models.Symptom
	if err := cursor.All(ctx, &symptoms); err != nil {
		return nil, fmt.Errorf("failed to decode symptoms: %v", err)
	}
	return symptoms, nil
}

// GetSymptomsSince fetches a patient's symptoms from a start time onward,
// time-ascending, for trend aggregation.
func (r *SymptomRepository) GetSymptomsSince(ctx context.Context, patientID primitive.ObjectID, since time.Time) ([]models.Symptom, error) {
	filter := bson.M{
		"patient":   patientID,
		"timestamp": bson.M{"$gte": since},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch symptom trends: %v", err)
	}
	defer cursor.Close(ctx)

	var symptoms []models.Symptom
	if err := cursor.All(ctx, &symptoms); err != nil {
		return nil, fmt.Errorf("failed to decode symptom trends: %v", err)
	}
	return symptoms, nil
}

// UpdateSymptom replaces the mutable fields of a symptom document.
func (r *SymptomRepository) UpdateSymptom(ctx context.Context, id primitive.ObjectID, symptom *models.Symptom) (*models.Symptom, error) {
	symptom.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": symptom})
	if err != nil {
		logrus.WithField("symptomID", id.Hex()).WithError(err).Error("Failed to update symptom")
		return nil, fmt.Errorf("failed to update symptom: %v", err)
	}
	return symptom, nil
}

// DeleteSymptom removes a symptom document.
func (r *SymptomRepository) DeleteSymptom(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete symptom: %v", err)
	}
	logrus.WithField("symptomID", id.Hex()).Info("Symptom deleted successfully")
	return nil
}

// GetAllSymptoms streams every symptom, used by the reconcile job.
func (r *SymptomRepository) GetAllSymptoms(ctx context.Context) ([]models.Symptom, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch symptoms: %v", err)
	}
	defer cursor.Close(ctx)

	var symptoms []models.Symptom
	if err := cursor.All(ctx, &symptoms); err != nil {
		return nil, fmt.Errorf("failed to decode symptoms: %v", err)
	}
	return symptoms, nil
}
