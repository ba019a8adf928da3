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
)

// Patient reference list fields, used when pushing/pulling child record ids.
const (
	PatientRefMedications  = "medications"
	PatientRefAppointments = "appointments"
	PatientRefSymptoms     = "symptoms"
)

// PatientRepository handles database operations related to patients.
type PatientRepository struct {
	collection *mongo.Collection
}

// NewPatientRepository creates a new instance of PatientRepository.
func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{
		collection: db.Collection("patients"),
	}
}

// CreatePatient inserts a new patient.
func (r *PatientRepository) CreatePatient(ctx context.Context, patient *models.Patient) (*models.Patient, error) {
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, patient)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert patient")
		return nil, fmt.Errorf("failed to insert patient: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	patient.ID = insertedID

	logrus.WithField("patientID", patient.ID.Hex()).Info("Patient created successfully")
	return patient, nil
}

// GetPatientByID fetches a patient by ID.
func (r *PatientRepository) GetPatientByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var patient models.Patient
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// GetPatientsByGroup fetches all patients in a group.
func (r *PatientRepository) GetPatientsByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Patient, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"group": groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patients: %v", err)
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %v", err)
	}
	return patients, nil
}

// UpdatePatient replaces the mutable fields of a patient document.
func (r *PatientRepository) UpdatePatient(ctx context.Context, id primitive.ObjectID, patient *models.Patient) (*models.Patient, error) {
	patient.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patient})
	if err != nil {
		logrus.WithField("patientID", id.Hex()).WithError(err).Error("Failed to update patient")
		return nil, fmt.Errorf("failed to update patient: %v", err)
	}
	return patient, nil
}

// DeletePatient removes a patient document.
func (r *PatientRepository) DeletePatient(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete patient: %v", err)
	}
	return nil
}

// PushRef adds a child record id into one of the patient's reference lists.
// $addToSet keeps the repair job idempotent.
func (r *PatientRepository) PushRef(ctx context.Context, patientID primitive.ObjectID, field string, childID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{field: childID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": patientID}, update)
	if err != nil {
		return fmt.Errorf("failed to push %s ref: %v", field, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullRef removes a child record id from one of the patient's reference lists.
func (r *PatientRepository) PullRef(ctx context.Context, patientID primitive.ObjectID, field string, childID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{field: childID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": patientID}, update)
	if err != nil {
		return fmt.Errorf("failed to pull %s ref: %v", field, err)
	}
	return nil
}
