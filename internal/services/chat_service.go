package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/realtime"
	"github.com/carepulse/carepulse/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChatService encapsulates the business logic for chat threads.
type ChatService struct {
	repo *repository.ChatRepository
	hub  *realtime.Hub
}

// NewChatService creates a new instance of ChatService.
func NewChatService(repo *repository.ChatRepository, hub *realtime.Hub) *ChatService {
	return &ChatService{
		repo: repo,
		hub:  hub,
	}
}

// CreateThread starts a new thread in the acting user's group.
func (s *ChatService) CreateThread(ctx context.Context, user *models.User, title string, participants []primitive.ObjectID) (*models.ChatThread, error) {
	if user.Group == nil {
		return nil, validationError("Please join a care group first")
	}

	if title == "" {
		title = fmt.Sprintf("Chat %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(participants) == 0 {
		participants = []primitive.ObjectID{user.ID}
	}

	thread := &models.ChatThread{
		Title:        title,
		Group:        *user.Group,
		Participants: participants,
	}

	created, err := s.repo.CreateThread(ctx, thread)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %v", err)
	}
	return created, nil
}

// GetThreads lists the acting user's group threads, most recently active
// first. Users without a group get an empty list.
func (s *ChatService) GetThreads(ctx context.Context, user *models.User) ([]models.ChatThread, error) {
	if user.Group == nil {
		return []models.ChatThread{}, nil
	}

	threads, err := s.repo.GetThreadsByGroup(ctx, *user.Group)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %v", err)
	}
	return threads, nil
}

// GetThread retrieves a thread by hex ID.
func (s *ChatService) GetThread(ctx context.Context, id string) (*models.ChatThread, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid thread ID")
	}

	thread, err := s.repo.GetThreadByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Chat thread not found")
		}
		return nil, fmt.Errorf("failed to get thread: %v", err)
	}
	return thread, nil
}

// SendMessage appends a message to a thread, refreshes its last-message
// timestamp and broadcasts it to the group's channel.
func (s *ChatService) SendMessage(ctx context.Context, user *models.User, threadID, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("Message content is required")
	}

	thread, err := s.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	message := models.ChatMessage{
		Sender:      user.ID,
		Content:     content,
		Attachments: []models.Attachment{},
		Timestamp:   time.Now(),
	}

	if err := s.repo.AppendMessage(ctx, thread.ID, message); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Chat thread not found")
		}
		return nil, fmt.Errorf("failed to send message: %v", err)
	}

	if user.Group != nil {
		s.hub.Publish(user.Group.Hex(), realtime.EventMessageNew, map[string]interface{}{
			"thread_id": thread.ID,
			"sender": map[string]interface{}{
				"id":   user.ID,
				"name": user.Name,
			},
			"content":   message.Content,
			"timestamp": message.Timestamp,
		})
	}

	return &message, nil
}
