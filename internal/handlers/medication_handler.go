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

// MedicationHandler handles HTTP requests related to medications.
type MedicationHandler struct {
	Service *services.MedicationService
}

// NewMedicationHandler creates a new instance of MedicationHandler.
func NewMedicationHandler(service *services.MedicationService) *MedicationHandler {
	return &MedicationHandler{Service: service}
}

type medicationRequest struct {
	Name            string     `json:"name"`
	Dose            string     `json:"dose"`
	Frequency       string     `json:"frequency"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	NextDue         time.Time  `json:"next_due"`
	PrescribedBy    string     `json:"prescribed_by"`
	Notes           string     `json:"notes"`
	Patient         string     `json:"patient"`
	ResponsibleUser string     `json:"responsible_user"`
}

func (r medicationRequest) Validate() error {
	frequencies := make([]interface{}, len(models.MedicationFrequencies))
	for i, f := range models.MedicationFrequencies {
		frequencies[i] = f
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Dose, validation.Required),
		validation.Field(&r.Frequency, validation.Required, validation.In(frequencies...)),
		validation.Field(&r.StartDate, validation.Required),
		validation.Field(&r.NextDue, validation.Required),
		validation.Field(&r.Patient, validation.Required),
	)
}

func (r medicationRequest) toModel() (*models.Medication, error) {
	patientID, err := primitive.ObjectIDFromHex(r.Patient)
	if err != nil {
		return nil, err
	}

	med := &models.Medication{
		Name:         r.Name,
		Dose:         r.Dose,
		Frequency:    r.Frequency,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		NextDue:      r.NextDue,
		PrescribedBy: r.PrescribedBy,
		Notes:        r.Notes,
		Patient:      patientID,
	}
	if r.ResponsibleUser != "" {
		userID, err := primitive.ObjectIDFromHex(r.ResponsibleUser)
		if err != nil {
			return nil, err
		}
		med.ResponsibleUser = &userID
	}
	return med, nil
}

type markDoseRequest struct {
	DoseID string `json:"doseId"`
	Taken  bool   `json:"taken"`
	Notes  string `json:"notes"`
}

func (r markDoseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DoseID, validation.Required),
	)
}

// CreateMedicationHandler handles medication creation.
func (h *MedicationHandler) CreateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	med, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid reference ID")
		return
	}

	created, err := h.Service.CreateMedication(r.Context(), med)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, created)
}

// GetMedicationsHandler lists medications, optionally filtered by patient.
func (h *MedicationHandler) GetMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	meds, err := h.Service.GetMedications(r.Context(), r.URL.Query().Get("patientId"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.SuccessCount(w, http.StatusOK, len(meds), meds)
}

// GetMedicationHandler fetches a single medication.
func (h *MedicationHandler) GetMedicationHandler(w http.ResponseWriter, r *http.Request) {
	med, err := h.Service.GetMedication(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, med)
}

// UpdateMedicationHandler updates a medication.
func (h *MedicationHandler) UpdateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	med, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid reference ID")
		return
	}

	updated, err := h.Service.UpdateMedication(r.Context(), mux.Vars(r)["id"], med)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, updated)
}

// DeleteMedicationHandler removes a medication.
func (h *MedicationHandler) DeleteMedicationHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteMedication(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Medication deleted")
}

// MarkDoseHandler records whether a scheduled dose was taken.
func (h *MedicationHandler) MarkDoseHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req markDoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	med, err := h.Service.MarkDose(r.Context(), mux.Vars(r)["id"], req.DoseID, req.Taken, req.Notes, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, med)
}

// GetHistoryHandler returns a medication's dose history, optionally
// bounded by startDate/endDate query parameters.
func (h *MedicationHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
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

	history, err := h.Service.GetHistory(r.Context(), mux.Vars(r)["id"], start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, history)
}

// parseTimeParam parses an RFC3339 or date-only query parameter. Empty
// values return the zero time.
func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
