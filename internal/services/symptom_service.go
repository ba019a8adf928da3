package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/carepulse/carepulse/pkg/cache"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const trendsCacheTTL = 5 * time.Minute

// SymptomService encapsulates the business logic for symptom records.
type SymptomService struct {
	repo        *repository.SymptomRepository
	patientRepo *repository.PatientRepository
	cache       *cache.Cache
}

// NewSymptomService creates a new instance of SymptomService.
func NewSymptomService(repo *repository.SymptomRepository, patientRepo *repository.PatientRepository, c *cache.Cache) *SymptomService {
	return &SymptomService{
		repo:        repo,
		patientRepo: patientRepo,
		cache:       c,
	}
}

// CreateSymptom inserts a symptom record entered by the acting user and
// pushes its id onto the owning patient's list, best-effort.
func (s *SymptomService) CreateSymptom(ctx context.Context, symptom *models.Symptom) (*models.Symptom, error) {
	if symptom.Severity < 1 || symptom.Severity > 10 {
		return nil, validationError("severity must be between 1 and 10")
	}

	created, err := s.repo.CreateSymptom(ctx, symptom)
	if err != nil {
		return nil, fmt.Errorf("failed to create symptom: %v", err)
	}

	if err := s.patientRepo.PushRef(ctx, created.Patient, repository.PatientRefSymptoms, created.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"symptomID": created.ID.Hex(),
			"patientID": created.Patient.Hex(),
		}).WithError(err).Warn("Patient not updated for new symptom")
	}

	s.invalidateTrends(ctx, created.Patient)
	return created, nil
}

// GetSymptom retrieves a symptom by hex ID.
func (s *SymptomService) GetSymptom(ctx context.Context, id string) (*models.Symptom, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid symptom ID")
	}

	symptom, err := s.repo.GetSymptomByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Symptom not found")
		}
		return nil, fmt.Errorf("failed to get symptom: %v", err)
	}
	return symptom, nil
}

// GetSymptoms lists symptoms filtered by patient and timestamp range,
// most recent first.
func (s *SymptomService) GetSymptoms(ctx context.Context, patientID string, start, end time.Time) ([]models.Symptom, error) {
	var filter *primitive.ObjectID
	if patientID != "" {
		objID, err := primitive.ObjectIDFromHex(patientID)
		if err != nil {
			return nil, validationError("invalid patient ID")
		}
		filter = &objID
	}

	symptoms, err := s.repo.GetSymptoms(ctx, filter, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch symptoms: %v", err)
	}
	return symptoms, nil
}

// UpdateSymptom merges changes into an existing symptom record.
func (s *SymptomService) UpdateSymptom(ctx context.Context, id string, updated *models.Symptom) (*models.Symptom, error) {
	if updated.Severity < 1 || updated.Severity > 10 {
		return nil, validationError("severity must be between 1 and 10")
	}

	existing, err := s.GetSymptom(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.Patient = existing.Patient
	updated.EnteredBy = existing.EnteredBy
	updated.CreatedAt = existing.CreatedAt

	result, err := s.repo.UpdateSymptom(ctx, existing.ID, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update symptom: %v", err)
	}

	s.invalidateTrends(ctx, result.Patient)
	return result, nil
}

// DeleteSymptom removes a symptom and pulls its id from the owning
// patient's list.
func (s *SymptomService) DeleteSymptom(ctx context.Context, id string) error {
	symptom, err := s.GetSymptom(ctx, id)
	if err != nil {
		return err
	}

	if err := s.patientRepo.PullRef(ctx, symptom.Patient, repository.PatientRefSymptoms, symptom.ID); err != nil {
		logrus.WithField("symptomID", symptom.ID.Hex()).WithError(err).Warn("Failed to pull symptom ref from patient")
	}

	if err := s.repo.DeleteSymptom(ctx, symptom.ID); err != nil {
		return fmt.Errorf("failed to delete symptom: %v", err)
	}

	s.invalidateTrends(ctx, symptom.Patient)
	return nil
}

// GetTrends aggregates a patient's symptoms over the last N days into a
// chart-ready shape. Results are cached briefly since dashboards poll this.
func (s *SymptomService) GetTrends(ctx context.Context, patientID string, days int) (*models.SymptomTrends, error) {
	objID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, validationError("invalid patient ID")
	}
	if days <= 0 {
		days = 7
	}

	cacheKey := trendsCacheKey(objID, days)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var trends models.SymptomTrends
		if err := json.Unmarshal([]byte(cached), &trends); err == nil {
			return &trends, nil
		}
	}

	since := time.Now().AddDate(0, 0, -days)
	symptoms, err := s.repo.GetSymptomsSince(ctx, objID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch symptom trends: %v", err)
	}

	trends := models.BuildSymptomTrends(symptoms)

	if encoded, err := json.Marshal(trends); err == nil {
		if err := s.cache.Set(ctx, cacheKey, encoded, trendsCacheTTL); err != nil {
			logrus.WithError(err).Warn("Failed to cache symptom trends")
		}
	}

	return &trends, nil
}

func (s *SymptomService) invalidateTrends(ctx context.Context, patientID primitive.ObjectID) {
	if err := s.cache.DeleteAll(ctx, fmt.Sprintf("trends:%s:*", patientID.Hex())); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate trends cache")
	}
}

func trendsCacheKey(patientID primitive.ObjectID, days int) string {
	return fmt.Sprintf("trends:%s:%d", patientID.Hex(), days)
}
