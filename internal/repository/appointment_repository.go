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

// AppointmentRepository handles database operations related to appointments.
type AppointmentRepository struct {
	collection *mongo.Collection
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{
		collection: db.Collection("appointments"),
	}
}

// CreateAppointment inserts a new appointment.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()
	if appt.Checklist == nil {
		appt.Checklist = []models.ChecklistItem{}
	}

	result, err := r.collection.InsertOne(ctx, appt)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert appointment")
		return nil, fmt.Errorf("failed to insert appointment: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	appt.ID = insertedID

	logrus.WithField("appointmentID", appt.ID.Hex()).Info("Appointment created successfully")
	return appt, nil
}

// GetAppointmentByID fetches an appointment by ID.
func (r *AppointmentRepository) GetAppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appt)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// GetAppointments fetches appointments filtered by patient and datetime
// range, sorted by datetime ascending.
func (r *AppointmentRepository) GetAppointments(ctx context.Context, patientID *primitive.ObjectID, start, end time.Time) ([]models.Appointment, error) {
	filter := bson.M{}
	if patientID != nil {
		filter["patient"] = *patientID
	}
	datetime := bson.M{}
	if !start.IsZero() {
		datetime["$gte"] = start
	}
	if !end.IsZero() {
		datetime["$lte"] = end
	}
	if len(datetime) > 0 {
		filter["datetime"] = datetime
	}
	opts := options.Find().SetSort(bson.D{{Key: "datetime", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %v", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %v", err)
	}
	return appts, nil
}

// UpdateAppointment replaces the mutable fields of an appointment document.
func (r *AppointmentRepository) UpdateAppointment(ctx context.Context, id primitive.ObjectID, appt *models.Appointment) (*models.Appointment, error) {
	appt.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": appt})
	if err != nil {
		logrus.WithField("appointmentID", id.Hex()).WithError(err).Error("Failed to update appointment")
		return nil, fmt.Errorf("failed to update appointment: %v", err)
	}
	return appt, nil
}

// DeleteAppointment removes an appointment document.
func (r *AppointmentRepository) DeleteAppointment(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %v", err)
	}
	logrus.WithField("appointmentID", id.Hex()).Info("Appointment deleted successfully")
	return nil
}

// GetAllAppointments streams every appointment, used by the reconcile job.
func (r *AppointmentRepository) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %v", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %v", err)
	}
	return appts, nil
}
