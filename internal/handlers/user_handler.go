package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carepulse/carepulse/internal/config"
	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	jwtutil "github.com/carepulse/carepulse/pkg/jwt"
	"github.com/carepulse/carepulse/pkg/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// UserHandler handles HTTP requests related to accounts and group membership.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&r.Role, validation.In("caregiver", "patient", "family", "medical")),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type joinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
}

func (r joinGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InviteCode, validation.Required),
	)
}

type createGroupRequest struct {
	Name string `json:"name"`
}

func (r createGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

type updateProfileRequest struct {
	Name          *string                   `json:"name"`
	Phone         *string                   `json:"phone"`
	Notifications *models.NotificationPrefs `json:"notifications"`
}

func (r updateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 100)),
	)
}

func (r updateProfileRequest) toFields() bson.M {
	fields := bson.M{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.Notifications != nil {
		fields["notifications"] = *r.Notifications
	}
	return fields
}

// RegisterHandler handles user registration.
func (h *UserHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		httputil.Error(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User registered")
	httputil.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// LoginHandler handles user login.
func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		httputil.Error(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in")
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user.Public(),
		"message": "Login successful",
	})
}

// MeHandler returns the authenticated user's profile.
func (h *UserHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Public(),
	})
}

// UpdateMeHandler applies partial profile changes to the authenticated user.
func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := req.toFields()
	if len(fields) == 0 {
		httputil.Error(w, http.StatusBadRequest, "No fields to update")
		return
	}

	if err := h.Service.UpdateProfile(r.Context(), user, fields); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.Service.GetUser(r.Context(), user.ID.Hex())
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    updated.Public(),
	})
}

// JoinGroupHandler adds the authenticated user to a group by invite code.
func (h *UserHandler) JoinGroupHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req joinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := h.Service.JoinGroup(r.Context(), user, req.InviteCode)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, group)
}

// CreateGroupHandler creates a new care group owned by the authenticated user.
func (h *UserHandler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := h.Service.CreateGroup(r.Context(), user, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, group)
}

// MyGroupHandler returns the authenticated user's group.
func (h *UserHandler) MyGroupHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	group, err := h.Service.GetGroup(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, group)
}
