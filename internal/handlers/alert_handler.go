package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/carepulse/carepulse/pkg/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertHandler handles HTTP requests for alerts.
type AlertHandler struct {
	Service *services.AlertService
}

// NewAlertHandler creates a new instance of AlertHandler.
func NewAlertHandler(service *services.AlertService) *AlertHandler {
	return &AlertHandler{Service: service}
}

type alertRequest struct {
	Type    string `json:"type"`
	Urgency string `json:"urgency"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Patient string `json:"patient"`
}

func (r alertRequest) Validate() error {
	types := make([]interface{}, len(models.AlertTypes))
	for i, t := range models.AlertTypes {
		types[i] = t
	}
	urgencies := make([]interface{}, len(models.AlertUrgencies))
	for i, u := range models.AlertUrgencies {
		urgencies[i] = u
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(types...)),
		validation.Field(&r.Urgency, validation.In(urgencies...)),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Message, validation.Required),
	)
}

func (r alertRequest) toModel() (*models.Alert, error) {
	alert := &models.Alert{
		Type:    r.Type,
		Urgency: r.Urgency,
		Title:   r.Title,
		Message: r.Message,
	}
	if r.Patient != "" {
		patientID, err := primitive.ObjectIDFromHex(r.Patient)
		if err != nil {
			return nil, err
		}
		alert.Patient = &patientID
	}
	return alert, nil
}

// updateAlertRequest is a partial update; omitted fields stay as they
// are, so a bare `{"resolved":true}` resolve action works.
type updateAlertRequest struct {
	Type     string `json:"type"`
	Urgency  string `json:"urgency"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Resolved *bool  `json:"resolved"`
}

func (r updateAlertRequest) Validate() error {
	types := make([]interface{}, len(models.AlertTypes))
	for i, t := range models.AlertTypes {
		types[i] = t
	}
	urgencies := make([]interface{}, len(models.AlertUrgencies))
	for i, u := range models.AlertUrgencies {
		urgencies[i] = u
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.In(types...)),
		validation.Field(&r.Urgency, validation.In(urgencies...)),
	)
}

// CreateAlertHandler raises a new alert for the user's group.
func (h *AlertHandler) CreateAlertHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	created, err := h.Service.CreateAlert(r.Context(), user, alert)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, created)
}

// GetAlertsHandler lists the group's alerts ordered by urgency then recency.
func (h *AlertHandler) GetAlertsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var resolved *bool
	switch r.URL.Query().Get("resolved") {
	case "true":
		v := true
		resolved = &v
	case "false":
		v := false
		resolved = &v
	}

	alerts, err := h.Service.GetAlerts(r.Context(), user, r.URL.Query().Get("urgency"), resolved)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessCount(w, http.StatusOK, len(alerts), alerts)
}

// GetAlertHandler fetches a single alert.
func (h *AlertHandler) GetAlertHandler(w http.ResponseWriter, r *http.Request) {
	alert, err := h.Service.GetAlert(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, alert)
}

// UpdateAlertHandler edits an alert, including resolving it.
func (h *AlertHandler) UpdateAlertHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := &models.Alert{
		Type:    req.Type,
		Urgency: req.Urgency,
		Title:   req.Title,
		Message: req.Message,
	}
	if req.Resolved != nil {
		updated.Resolved = *req.Resolved
	}

	alert, err := h.Service.UpdateAlert(r.Context(), mux.Vars(r)["id"], user.ID, updated)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, alert)
}

// AcknowledgeAlertHandler records the user's acknowledgement of an alert.
func (h *AlertHandler) AcknowledgeAlertHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	alert, err := h.Service.Acknowledge(r.Context(), mux.Vars(r)["id"], user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, alert)
}
