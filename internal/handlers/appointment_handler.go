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

// AppointmentHandler handles HTTP requests related to appointments.
type AppointmentHandler struct {
	Service *services.AppointmentService
}

// NewAppointmentHandler creates a new instance of AppointmentHandler.
func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

type appointmentRequest struct {
	Datetime time.Time `json:"datetime"`
	Doctor   string    `json:"doctor"`
	Location string    `json:"location"`
	Reason   string    `json:"reason"`
	Notes    string    `json:"notes"`
	Patient  string    `json:"patient"`
}

func (r appointmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Datetime, validation.Required),
		validation.Field(&r.Doctor, validation.Required),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.Reason, validation.Required),
		validation.Field(&r.Patient, validation.Required),
	)
}

func (r appointmentRequest) toModel() (*models.Appointment, error) {
	patientID, err := primitive.ObjectIDFromHex(r.Patient)
	if err != nil {
		return nil, err
	}
	return &models.Appointment{
		Datetime: r.Datetime,
		Doctor:   r.Doctor,
		Location: r.Location,
		Reason:   r.Reason,
		Notes:    r.Notes,
		Patient:  patientID,
	}, nil
}

type checklistRequest struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
}

func (r checklistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Item, validation.Required),
	)
}

// CreateAppointmentHandler handles appointment creation.
func (h *AppointmentHandler) CreateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	appt, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	created, err := h.Service.CreateAppointment(r.Context(), appt)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, created)
}

// GetAppointmentsHandler lists appointments filtered by patient and date range.
func (h *AppointmentHandler) GetAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
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

	appts, err := h.Service.GetAppointments(r.Context(), r.URL.Query().Get("patientId"), start, end)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessCount(w, http.StatusOK, len(appts), appts)
}

// GetAppointmentHandler fetches a single appointment.
func (h *AppointmentHandler) GetAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	appt, err := h.Service.GetAppointment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, appt)
}

// UpdateAppointmentHandler updates an appointment.
func (h *AppointmentHandler) UpdateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	appt, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	updated, err := h.Service.UpdateAppointment(r.Context(), mux.Vars(r)["id"], appt)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, updated)
}

// DeleteAppointmentHandler removes an appointment.
func (h *AppointmentHandler) DeleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteAppointment(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	httputil.SuccessMessage(w, http.StatusOK, "Appointment deleted")
}

// CompleteChecklistHandler upserts a checklist entry by its label.
func (h *AppointmentHandler) CompleteChecklistHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req checklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	appt, err := h.Service.CompleteChecklistItem(r.Context(), mux.Vars(r)["id"], req.Item, req.Completed, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, appt)
}
