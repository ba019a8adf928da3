package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var userRoles = map[string]bool{
	models.RoleCaregiver: true,
	models.RolePatient:   true,
	models.RoleFamily:    true,
	models.RoleMedical:   true,
}

// UserService encapsulates the business logic for accounts and group membership.
type UserService struct {
	repo      *repository.UserRepository
	groupRepo *repository.GroupRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, groupRepo *repository.GroupRepository) *UserService {
	return &UserService{
		repo:      repo,
		groupRepo: groupRepo,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	logrus.Info("Registering new user")

	if role == "" {
		role = models.RoleFamily
	}
	if !userRoles[role] {
		return nil, validationError(fmt.Sprintf("invalid role %q", role))
	}

	// Check if the email is already registered
	existing, _ := s.repo.GetUserByEmail(ctx, email)
	if existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, conflictError("User already exists")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:           name,
		Email:          strings.ToLower(email),
		HashedPassword: string(hashedPwd),
		Role:           role,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		// a registration racing this one past the pre-insert check
		// loses on the unique email index
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithField("email", email).Warn("Email already in use")
			return nil, conflictError("User already exists")
		}
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": created.ID.Hex(),
		"role":   created.Role,
	}).Info("User registered successfully")
	return created, nil
}

// AuthenticateUser verifies credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		logrus.WithField("email", email).Warn("Login attempt for unknown email")
		return nil, unauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Password mismatch")
		return nil, unauthorizedError("Invalid credentials")
	}

	return user, nil
}

// GetUser retrieves a user by its hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationError("invalid user ID")
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// JoinGroup adds the user to the group matching the invite code. Joining
// a group the user already belongs to is a no-op.
func (s *UserService) JoinGroup(ctx context.Context, user *models.User, inviteCode string) (*models.Group, error) {
	group, err := s.groupRepo.GetGroupByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Invalid invite code")
		}
		return nil, fmt.Errorf("failed to look up invite code: %v", err)
	}

	if err := s.groupRepo.AddMember(ctx, group.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to join group: %v", err)
	}

	if err := s.repo.UpdateUserFields(ctx, user.ID, bson.M{"group": group.ID}); err != nil {
		return nil, fmt.Errorf("failed to update user group: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID":  user.ID.Hex(),
		"groupID": group.ID.Hex(),
	}).Info("User joined group")

	group.Members = appendIfMissing(group.Members, user.ID)
	return group, nil
}

// CreateGroup creates a care group with a fresh invite code and makes the
// creator its first member.
func (s *UserService) CreateGroup(ctx context.Context, user *models.User, name string) (*models.Group, error) {
	group := &models.Group{
		Name:       name,
		InviteCode: newInviteCode(),
		Members:    []primitive.ObjectID{user.ID},
		Patients:   []primitive.ObjectID{},
		CreatedBy:  user.ID,
	}

	created, err := s.groupRepo.CreateGroup(ctx, group)
	if mongo.IsDuplicateKeyError(err) {
		// invite code collision on the unique index; one retry with a
		// fresh code
		group.InviteCode = newInviteCode()
		created, err = s.groupRepo.CreateGroup(ctx, group)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %v", err)
	}

	if err := s.repo.UpdateUserFields(ctx, user.ID, bson.M{"group": created.ID}); err != nil {
		return nil, fmt.Errorf("failed to update user group: %v", err)
	}

	return created, nil
}

// GetGroup retrieves the user's current group.
func (s *UserService) GetGroup(ctx context.Context, user *models.User) (*models.Group, error) {
	if user.Group == nil {
		return nil, notFoundError("You are not in a group yet")
	}

	group, err := s.groupRepo.GetGroupByID(ctx, *user.Group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFoundError("Group not found")
		}
		return nil, fmt.Errorf("failed to get group: %v", err)
	}
	return group, nil
}

// UpdateProfile applies partial profile changes to the acting user.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, fields bson.M) error {
	if err := s.repo.UpdateUserFields(ctx, user.ID, fields); err != nil {
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return nil
}

// newInviteCode derives a short, shareable code from a UUID.
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func appendIfMissing(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
