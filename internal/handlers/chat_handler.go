package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/httputil"
	"github.com/carepulse/carepulse/pkg/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler handles HTTP requests for chat threads and messages.
type ChatHandler struct {
	Service *services.ChatService
}

// NewChatHandler creates a new instance of ChatHandler.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

type createThreadRequest struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (r sendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

// CreateThreadHandler starts a new chat thread in the user's group.
func (h *ChatHandler) CreateThreadHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	participants := make([]primitive.ObjectID, 0, len(req.Participants))
	for _, raw := range req.Participants {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "Invalid participant ID")
			return
		}
		participants = append(participants, id)
	}

	thread, err := h.Service.CreateThread(r.Context(), user, req.Title, participants)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, thread)
}

// GetThreadsHandler lists the group's chat threads, most recently active first.
func (h *ChatHandler) GetThreadsHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	threads, err := h.Service.GetThreads(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.SuccessCount(w, http.StatusOK, len(threads), threads)
}

// GetThreadHandler fetches a single thread with its messages.
func (h *ChatHandler) GetThreadHandler(w http.ResponseWriter, r *http.Request) {
	thread, err := h.Service.GetThread(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, thread)
}

// SendMessageHandler appends a message to a thread and broadcasts it.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Message content is required")
		return
	}

	message, err := h.Service.SendMessage(r.Context(), user, mux.Vars(r)["id"], req.Content)
	if err != nil {
		respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, message)
}
