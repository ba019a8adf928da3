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

// AlertRepository handles database operations related to alerts.
type AlertRepository struct {
	collection *mongo.Collection
}

// NewAlertRepository creates a new instance of AlertRepository.
func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{
		collection: db.Collection("alerts"),
	}
}

// CreateAlert inserts a new alert.
func (r *AlertRepository) CreateAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = time.Now()
	if alert.AcknowledgedBy == nil {
		alert.AcknowledgedBy = []models.Acknowledgement{}
	}

	result, err := r.collection.InsertOne(ctx, alert)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert alert")
		return nil, fmt.Errorf("failed to insert alert: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	alert.ID = insertedID

	logrus.WithFields(logrus.Fields{
		"alertID": alert.ID.Hex(),
		"urgency": alert.Urgency,
	}).Info("Alert created successfully")
	return alert, nil
}

// GetAlertByID fetches an alert by ID.
func (r *AlertRepository) GetAlertByID(ctx context.Context, id primitive.ObjectID) (*models.Alert, error) {
	var alert models.Alert
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// GetAlerts fetches group-scoped alerts, newest first. Urgency ranking
// happens in the service layer since the enum strings sort alphabetically.
func (r *AlertRepository) GetAlerts(ctx context.Context, groupID primitive.ObjectID, urgency string, resolved *bool) ([]models.Alert, error) {
	filter := bson.M{"group": groupID}
	if urgency != "" {
		filter["urgency"] = urgency
	}
	if resolved != nil {
		filter["resolved"] = *resolved
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %v", err)
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %v", err)
	}
	return alerts, nil
}

// GetLatestAlertByTypeAndPatient returns the most recent alert of a given
// type for a patient, used by the reminder job to avoid duplicates.
func (r *AlertRepository) GetLatestAlertByTypeAndPatient(ctx context.Context, alertType string, patientID primitive.ObjectID) (*models.Alert, error) {
	filter := bson.M{
		"type":    alertType,
		"patient": patientID,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var alert models.Alert
	err := r.collection.FindOne(ctx, filter, opts).Decode(&alert)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// UpdateAlert replaces the mutable fields of an alert document.
func (r *AlertRepository) UpdateAlert(ctx context.Context, id primitive.ObjectID, alert *models.Alert) (*models.Alert, error) {
	alert.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": alert})
	if err != nil {
		logrus.WithField("alertID", id.Hex()).WithError(err).Error("Failed to update alert")
		return nil, fmt.Errorf("failed to update alert: %v", err)
	}
	return alert, nil
}
