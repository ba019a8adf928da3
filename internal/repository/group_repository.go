package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupRepository handles database operations related to care groups.
type GroupRepository struct {
	collection *mongo.Collection
}

// NewGroupRepository creates a new instance of GroupRepository. Invite
// codes are the join credential, so the database enforces their
// uniqueness.
func NewGroupRepository(db *mongo.Database) *GroupRepository {
	collection := db.Collection("groups")

	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "invite_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to ensure unique index on groups.invite_code")
	}

	return &GroupRepository{
		collection: collection,
	}
}

// CreateGroup inserts a new group.
func (r *GroupRepository) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert group")
		// %w keeps the driver error visible so callers can recognize a
		// duplicate-key violation on the unique invite_code index
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	group.ID = insertedID

	logrus.WithField("groupID", group.ID.Hex()).Info("Group created successfully")
	return group, nil
}

// GetGroupByID fetches a group by its ID.
func (r *GroupRepository) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroupByInviteCode fetches a group by its invite code.
func (r *GroupRepository) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"invite_code": code}).Decode(&group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// AddMember adds a user to a group's member list. $addToSet prevents duplicates.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"groupID": groupID.Hex(),
			"userID":  userID.Hex(),
		}).WithError(err).Error("Failed to add member to group")
		return fmt.Errorf("failed to add member: %v", err)
	}
	return nil
}

// AddPatient adds a patient reference to a group.
func (r *GroupRepository) AddPatient(ctx context.Context, groupID, patientID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"patients": patientID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	if err != nil {
		return fmt.Errorf("failed to add patient to group: %v", err)
	}
	return nil
}

// RemovePatient pulls a patient reference out of a group.
func (r *GroupRepository) RemovePatient(ctx context.Context, groupID, patientID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"patients": patientID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove patient from group: %v", err)
	}
	return nil
}
