package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/realtime"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedService encapsulates the business logic for the care feed.
type FeedService struct {
	repo *repository.FeedRepository
	hub  *realtime.Hub
}

// NewFeedService creates a new instance of FeedService.
func NewFeedService(repo *repository.FeedRepository, hub *realtime.Hub) *FeedService {
	return &FeedService{
		repo: repo,
		hub:  hub,
	}
}

// CreateFeedItem inserts a feed item attributed to the acting user and
// broadcasts it to the group's channel.
func (s *FeedService) CreateFeedItem(ctx context.Context, user *models.User, item *models.FeedItem) (*models.FeedItem, error) {
	if user.Group == nil {
		return nil, validationError("Please join a care group first")
	}

	item.User = user.ID
	item.Group = *user.Group

	created, err := s.repo.CreateFeedItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed item: %v", err)
	}

	s.hub.Publish(created.Group.Hex(), realtime.EventFeedNew, created)
	return created, nil
}

// GetFeedItems lists the acting user's group feed. Users without a group
// get an empty feed rather than an error.
func (s *FeedService) GetFeedItems(ctx context.Context, user *models.User, feedType string, urgentOnly bool, limit int64) ([]models.FeedItem, error) {
	if user.Group == nil {
		return []models.FeedItem{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	items, err := s.repo.GetFeedItems(ctx, *user.Group, feedType, urgentOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %v", err)
	}
	return items, nil
}

// UpdateFeedItem merges changes into a feed item. Only the original
// author may update it.
func (s *FeedService) UpdateFeedItem(ctx context.Context, id string, actingUser primitive.ObjectID, updated *models.FeedItem) (*models.FeedItem, error) {
	existing, err := s.getFeedItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.User != actingUser {
		logrus.WithFields(logrus.Fields{
			"feedID": existing.ID.Hex(),
			"userID": actingUser.Hex(),
		}).Warn("Non-author attempted feed update")
		return nil, forbiddenError("Not authorized to update this feed item")
	}

	updated.ID = existing.ID
	updated.User = existing.User
	updated.Group = existing.Group
	updated.Likes = existing.Likes
	updated.Comments = existing.Comments
	updated.CreatedAt = existing.CreatedAt

	result, err := s.repo.UpdateFeedItem(ctx, existing.ID, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update feed item: %v", err)
	}
	return result, nil
}

// DeleteFeedItem removes a feed item. Only the original author may delete it.
func (s *FeedService) DeleteFeedItem(ctx context.Context, id string, actingUser primitive.ObjectID) error {
	existing, err := s.getFeedItem(ctx, id)
	if err != nil {
		return err
	}

	if existing.User != actingUser {
		logrus.WithFields(logrus.Fields{
			"feedID": existing.ID.Hex(),
			"userID": actingUser.Hex(),
		}).Warn("Non-author attempted feed delete")
		return forbiddenError("Not authorized to delete this feed item")
	}

	if err := s.repo.DeleteFeedItem(ctx, existing.ID); err != nil {
		return fmt.Errorf("failed to delete feed item: %v", err)
	}
	return nil
}

// AddComment appends a timestamped comment to a feed item.
func (s *FeedService) AddComment(ctx context.Context, id string, actingUser primitive.ObjectID, text string) (*models.FeedItem, error) {
	item, err := s.getFeedItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.AddComment(actingUser, text, time.Now())

	result, err := s.repo.UpdateFeedItem(ctx, item.ID, item)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v", err)
	}
	return result, nil
}

func (s *FeedService) getFeedItem(ctx context.Context, id string) (*models.FeedItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid feed item ID")
	}

	item, err := s.repo.GetFeedItemByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Feed item not found")
		}
		return nil, fmt.Errorf("failed to get feed item: %v", err)
	}
	return item, nil
}
