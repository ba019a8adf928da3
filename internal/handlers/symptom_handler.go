package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/carepulse/carepulse/pkg/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SymptomHandler handles HTTP requests related to symptom records.
type SymptomHandler struct {
	Service *services.SymptomService
}

// NewSymptomHandler creates a new instance of SymptomHandler.
func NewSymptomHandler(service *services.SymptomService) *SymptomHandler {
	return &SymptomHandler{Service: service}
}

type symptomRequest struct {
	Patient   string     `json:"patient"`
	Timestamp *time.Time `json:"timestamp"`
	Severity  int        `json:"severity"`
	Mood      string     `json:"mood"`
	Note      string     `json:"note"`
	Tags      []string   `json:"tags"`
}

func (r symptomRequest) Validate() error {
	moods := make([]interface{}, len(models.SymptomMoods))
	for i, m := range models.SymptomMoods {
		moods[i] = m
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Patient, validation.Required),
		validation.Field(&r.Severity, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&r.Mood, validation.In(moods...)),
	)
}

func (r symptomRequest) toModel() (*models.Symptom, error) {
	patientID, err := primitive.ObjectIDFromHex(r.Patient)
	if err != nil {
		return nil, err
	}

	symptom := &models.Symptom{
		Patient:  patientID,
		Severity: r.Severity,
		Mood:     r.Mood,
		Note:     r.Note,
		Tags:     r.Tags,
	}
	if symptom.Mood == "" {
		symptom.Mood = "neutral"
	}
	if r.Timestamp != nil {
		symptom.Timestamp = *r.Timestamp
	}
	return symptom, nil
}

// CreateSymptomHandler handles symptom creation.
func (h *SymptomHandler) CreateSymptomHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req symptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	symptom, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	symptom.EnteredBy = user.ID

	created, err := h.Service.CreateSymptom(r.Context(), symptom)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, created)
}

// GetSymptomsHandler lists symptoms filtered by patient and date range.
func (h *SymptomHandler) GetSymptomsHandler(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r.URL.Query().Get("startDate"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid startDate")
		return
	}
	end, err := parseTimeParam(r.URL.Query().Get("endDate"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid endDate")
		return
	}

	symptoms, err := h.Service.GetSymptoms(r.Context(), r.URL.Query().Get("patientId"), start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessCount(w, http.StatusOK, len(symptoms), symptoms)
}

// GetSymptomHandler fetches a single symptom record.
func (h *SymptomHandler) GetSymptomHandler(w http.ResponseWriter, r *http.Request) {
	symptom, err := h.Service.GetSymptom(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, symptom)
}

// UpdateSymptomHandler updates a symptom record.
func (h *SymptomHandler) UpdateSymptomHandler(w http.ResponseWriter, r *http.Request) {
	var req symptomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	symptom, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	updated, err := h.Service.UpdateSymptom(r.Context(), mux.Vars(r)["id"], symptom)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, updated)
}

// DeleteSymptomHandler removes a symptom record.
func (h *SymptomHandler) DeleteSymptomHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSymptom(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Symptom deleted")
}

// GetTrendsHandler returns chart-ready severity trends for a patient.
func (h *SymptomHandler) GetTrendsHandler(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.Error(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	trends, err := h.Service.GetTrends(r.Context(), mux.Vars(r)["patientId"], days)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, trends)
}
