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

// MedicationRepository handles database operations related to medications.
type MedicationRepository struct {
	collection *mongo.Collection
}

// NewMedicationRepository creates a new instance of MedicationRepository.
func NewMedicationRepository(db *mongo.Database) *MedicationRepository {
	return &MedicationRepository{
		collection: db.Collection("medications"),
	}
}

// CreateMedication inserts a new medication.
func (r *MedicationRepository) CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	if med.History == nil {
		med.History = []models.DoseEntry{}
	}

	result, err := r.collection.InsertOne(ctx, med)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert medication")
		return nil, fmt.Errorf("failed to insert medication: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	med.ID = insertedID

	logrus.WithField("medicationID", med.ID.Hex()).Info("Medication created successfully")
	return med, nil
}

// GetMedicationByID fetches a medication by ID.
func (r *MedicationRepository) GetMedicationByID(ctx context.Context, id primitive.ObjectID) (*models.Medication, error) {
	var med models.Medication
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&med)
	if err != nil {
		return nil, err
	}
	return &med, nil
}

// GetMedications fetches medications, optionally filtered by patient,
// sorted by next due ascending.
func (r *MedicationRepository) GetMedications(ctx context.Context, patientID *primitive.ObjectID) ([]models.Medication, error) {
	filter := bson.M{}
	if patientID != nil {
		filter["patient"] = *patientID
	}
	opts := options.Find().SetSort(bson.D{{Key: "next_due", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medications: %v", err)
	}
	defer cursor.Close(ctx)

	var meds []models.Medication
	if err := cursor.All(ctx, &meds); err != nil {
		return nil, fmt.Errorf("failed to decode medications: %v", err)
	}
	return meds, nil
}

// GetMedicationsDueBetween fetches medications whose next due time falls
// in [from, to), used by the reminder job.
func (r *MedicationRepository) GetMedicationsDueBetween(ctx context.Context, from, to time.Time) ([]models.Medication, error) {
	filter := bson.M{"next_due": bson.M{"$gte": from, "$lt": to}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due medications: %v", err)
	}
	defer cursor.Close(ctx)

	var meds []models.Medication
	if err := cursor.All(ctx, &meds); err != nil {
		return nil, fmt.Errorf("failed to decode due medications: %v", err)
	}
	return meds, nil
}

// UpdateMedication replaces the mutable fields of a medication document.
func (r *MedicationRepository) UpdateMedication(ctx context.Context, id primitive.ObjectID, med *models.Medication) (*models.Medication, error) {
	med.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": med})
	if err != nil {
		logrus.WithField("medicationID", id.Hex()).WithError(err).Error("Failed to update medication")
		return nil, fmt.Errorf("failed to update medication: %v", err)
	}
	return med, nil
}

// DeleteMedication removes a medication document.
func (r *MedicationRepository) DeleteMedication(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete medication: %v", err)
	}
	logrus.WithField("medicationID", id.Hex()).Info("Medication deleted successfully")
	return nil
}

// GetAllMedications streams every medication, used by the reconcile job.
func (r *MedicationRepository) GetAllMedications(ctx context.Context) ([]models.Medication, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medications: %v", err)
	}
	defer cursor.Close(ctx)

	var meds []models.Medication
	if err := cursor.All(ctx, &meds); err != nil {
		return nil, fmt.Errorf("failed to decode medications: %v", err)
	}
	return meds, nil
}
