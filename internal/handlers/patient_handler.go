package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/carepulse/carepulse/pkg/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PatientHandler handles HTTP requests related to patients.
type PatientHandler struct {
	Service *services.PatientService
}

// NewPatientHandler creates a new instance of PatientHandler.
func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{Service: service}
}

type patientRequest struct {
	Name             string    `json:"name"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	Conditions       []string  `json:"conditions"`
	PrimaryCaregiver string    `json:"primary_caregiver"`
	Notes            string    `json:"notes"`
}

func (r patientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.DateOfBirth, validation.Required),
	)
}

func (r patientRequest) toModel() (*models.Patient, error) {
	patient := &models.Patient{
		Name:        r.Name,
		DateOfBirth: r.DateOfBirth,
		Conditions:  r.Conditions,
		Notes:       r.Notes,
	}
	if r.PrimaryCaregiver != "" {
		id, err := primitive.ObjectIDFromHex(r.PrimaryCaregiver)
		if err != nil {
			return nil, err
		}
		patient.PrimaryCaregiver = &id
	}
	return patient, nil
}

// CreatePatientHandler handles patient creation.
func (h *PatientHandler) CreatePatientHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	patient, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid primary caregiver ID")
		return
	}

	created, err := h.Service.CreatePatient(r.Context(), user, patient)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, created)
}

// GetPatientsHandler lists the patients of the acting user's group.
func (h *PatientHandler) GetPatientsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patients, err := h.Service.GetPatients(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessCount(w, http.StatusOK, len(patients), patients)
}

// GetPatientHandler fetches a single patient.
func (h *PatientHandler) GetPatientHandler(w http.ResponseWriter, r *http.Request) {
	patient, err := h.Service.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, patient)
}

// UpdatePatientHandler updates a patient.
func (h *PatientHandler) UpdatePatientHandler(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	patient, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid primary caregiver ID")
		return
	}

	updated, err := h.Service.UpdatePatient(r.Context(), mux.Vars(r)["id"], patient)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, updated)
}

// DeletePatientHandler removes a patient.
func (h *PatientHandler) DeletePatientHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePatient(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Patient deleted")
}
