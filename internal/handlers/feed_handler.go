package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/carepulse/carepulse/pkg/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedHandler handles HTTP requests for the group activity feed.
type FeedHandler struct {
	Service *services.FeedService
}

// NewFeedHandler creates a new instance of FeedHandler.
func NewFeedHandler(service *services.FeedService) *FeedHandler {
	return &FeedHandler{Service: service}
}

type feedItemRequest struct {
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Patient string   `json:"patient"`
	Urgent  bool     `json:"urgent"`
	Tags    []string `json:"tags"`
}

func (r feedItemRequest) Validate() error {
	types := make([]interface{}, len(models.FeedTypes))
	for i, t := range models.FeedTypes {
		types[i] = t
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(types...)),
		validation.Field(&r.Content, validation.Required),
	)
}

func (r feedItemRequest) toModel() (*models.FeedItem, error) {
	item := &models.FeedItem{
		Type:    r.Type,
		Content: r.Content,
		Urgent:  r.Urgent,
		Tags:    r.Tags,
	}
	if r.Patient != "" {
		patientID, err := primitive.ObjectIDFromHex(r.Patient)
		if err != nil {
			return nil, err
		}
		item.Patient = &patientID
	}
	return item, nil
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (r commentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Comment, validation.Required),
	)
}

// CreateFeedItemHandler posts a new feed item to the author's group.
func (h *FeedHandler) CreateFeedItemHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req feedItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	created, err := h.Service.CreateFeedItem(r.Context(), user, item)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, created)
}

// GetFeedItemsHandler lists feed items for the user's group, newest first.
func (h *FeedHandler) GetFeedItemsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			httputil.Error(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}
	urgentOnly := r.URL.Query().Get("urgent") == "true"

	items, err := h.Service.GetFeedItems(r.Context(), user, r.URL.Query().Get("type"), urgentOnly, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessCount(w, http.StatusOK, len(items), items)
}

// UpdateFeedItemHandler lets the author edit their feed item.
func (h *FeedHandler) UpdateFeedItemHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req feedItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := req.toModel()
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}

	updated, err := h.Service.UpdateFeedItem(r.Context(), mux.Vars(r)["id"], user.ID, item)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, updated)
}

// DeleteFeedItemHandler lets the author remove their feed item.
func (h *FeedHandler) DeleteFeedItemHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Service.DeleteFeedItem(r.Context(), mux.Vars(r)["id"], user.ID); err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessMessage(w, http.StatusOK, "Feed item deleted")
}

// AddCommentHandler appends a comment to a feed item.
func (h *FeedHandler) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Service.AddComment(r.Context(), mux.Vars(r)["id"], user.ID, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, item)
}
