package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/realtime"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/carepulse/carepulse/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AlertService encapsulates the business logic for alerts.
type AlertService struct {
	repo     *repository.AlertRepository
	userRepo *repository.UserRepository
	hub      *realtime.Hub
}

// NewAlertService creates a new instance of AlertService.
func NewAlertService(repo *repository.AlertRepository, userRepo *repository.UserRepository, hub *realtime.Hub) *AlertService {
	return &AlertService{
		repo:     repo,
		userRepo: userRepo,
		hub:      hub,
	}
}

// CreateAlert inserts an alert scoped to the acting user's group and
// broadcasts it. Critical alerts additionally fan out a best-effort email
// to members who opted in.
func (s *AlertService) CreateAlert(ctx context.Context, user *models.User, alert *models.Alert) (*models.Alert, error) {
	if user.Group == nil {
		return nil, validationError("Please join a care group first")
	}

	alert.Group = *user.Group
	alert.TriggeredBy = &user.ID
	if alert.Urgency == "" {
		alert.Urgency = "medium"
	}

	created, err := s.repo.CreateAlert(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %v", err)
	}

	s.hub.Publish(created.Group.Hex(), realtime.EventAlertNew, created)

	if created.Urgency == "critical" {
		go s.emailGroupMembers(created)
	}

	return created, nil
}

// CreateSystemAlert inserts an alert generated by a background job, with
// no acting user, and broadcasts it.
func (s *AlertService) CreateSystemAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	created, err := s.repo.CreateAlert(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %v", err)
	}

	s.hub.Publish(created.Group.Hex(), realtime.EventAlertNew, created)
	return created, nil
}

// GetAlerts lists the acting user's group alerts, most urgent first,
// then most recent.
func (s *AlertService) GetAlerts(ctx context.Context, user *models.User, urgency string, resolved *bool) ([]models.Alert, error) {
	if user.Group == nil {
		return []models.Alert{}, nil
	}

	alerts, err := s.repo.GetAlerts(ctx, *user.Group, urgency, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %v", err)
	}

	SortAlerts(alerts)
	return alerts, nil
}

// SortAlerts orders alerts by urgency rank descending, then creation
// time descending. The repository returns newest-first, so a stable sort
// on rank alone would suffice, but the full comparison keeps the
// contract independent of query order.
func SortAlerts(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := models.UrgencyRank(alerts[i].Urgency), models.UrgencyRank(alerts[j].Urgency)
		if ri != rj {
			return ri > rj
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}

// GetAlert retrieves an alert by hex ID.
func (s *AlertService) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid alert ID")
	}

	alert, err := s.repo.GetAlertByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Alert not found")
		}
		return nil, fmt.Errorf("failed to get alert: %v", err)
	}
	return alert, nil
}

// UpdateAlert merges changes into an existing alert. Setting resolved on
// an unresolved alert records who resolved it and when.
func (s *AlertService) UpdateAlert(ctx context.Context, id string, actingUser primitive.ObjectID, updated *models.Alert) (*models.Alert, error) {
	existing, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	applyAlertUpdate(existing, updated, actingUser, time.Now())

	result, err := s.repo.UpdateAlert(ctx, existing.ID, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update alert: %v", err)
	}
	return result, nil
}

// applyAlertUpdate copies only the fields the client actually sent, so a
// bare resolve action does not blank out the alert's text or urgency.
func applyAlertUpdate(existing, updated *models.Alert, actingUser primitive.ObjectID, now time.Time) {
	if updated.Resolved && !existing.Resolved {
		existing.Resolve(actingUser, now)
	}
	if updated.Type != "" {
		existing.Type = updated.Type
	}
	if updated.Urgency != "" {
		existing.Urgency = updated.Urgency
	}
	if updated.Title != "" {
		existing.Title = updated.Title
	}
	if updated.Message != "" {
		existing.Message = updated.Message
	}
}

// Acknowledge records the acting user on the alert's acknowledgement
// list. Acknowledging twice is a no-op.
func (s *AlertService) Acknowledge(ctx context.Context, id string, actingUser primitive.ObjectID) (*models.Alert, error) {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if !alert.Acknowledge(actingUser, time.Now()) {
		return alert, nil
	}

	result, err := s.repo.UpdateAlert(ctx, alert.ID, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"alertID": alert.ID.Hex(),
		"userID":  actingUser.Hex(),
	}).Info("Alert acknowledged")
	return result, nil
}

func (s *AlertService) emailGroupMembers(alert *models.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	members, err := s.userRepo.GetUsersByGroup(ctx, alert.Group)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load group members for alert email")
		return
	}

	body := fmt.Sprintf("%s\n\n%s", alert.Title, alert.Message)
	for _, member := range members {
		if !member.Notifications.Email {
			continue
		}
		if err := email.SendEmail(member.Email, "Critical care alert: "+alert.Title, body); err != nil {
			logrus.WithField("email", member.Email).WithError(err).Warn("Failed to send alert email")
		}
	}
}
