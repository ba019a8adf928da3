package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAcknowledge_Idempotent(t *testing.T) {
	alert := &Alert{}
	user := primitive.NewObjectID()
	now := time.Now()

	assert.True(t, alert.Acknowledge(user, now))
	assert.False(t, alert.Acknowledge(user, now.Add(time.Minute)))
	require.Len(t, alert.AcknowledgedBy, 1)
	assert.Equal(t, user, alert.AcknowledgedBy[0].User)
}

func TestAcknowledge_DistinctUsersAppend(t *testing.T) {
	alert := &Alert{}
	now := time.Now()

	alert.Acknowledge(primitive.NewObjectID(), now)
	alert.Acknowledge(primitive.NewObjectID(), now)

	assert.Len(t, alert.AcknowledgedBy, 2)
}

func TestResolve(t *testing.T) {
	alert := &Alert{}
	user := primitive.NewObjectID()
	now := time.Now()

	alert.Resolve(user, now)

	assert.True(t, alert.Resolved)
	require.NotNil(t, alert.ResolvedAt)
	assert.Equal(t, now, *alert.ResolvedAt)
	require.NotNil(t, alert.ResolvedBy)
	assert.Equal(t, user, *alert.ResolvedBy)
}

func TestUrgencyRank(t *testing.T) {
	assert.Greater(t, UrgencyRank("critical"), UrgencyRank("high"))
	assert.Greater(t, UrgencyRank("high"), UrgencyRank("medium"))
	assert.Greater(t, UrgencyRank("medium"), UrgencyRank("low"))
	assert.Equal(t, 0, UrgencyRank("bogus"), "unknown urgencies rank below low")
}
