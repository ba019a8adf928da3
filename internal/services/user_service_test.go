package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

// Registration maps a unique-index violation to a conflict, which only
// works if the repository's error wrap keeps the driver error visible.
func TestDuplicateKeyErrorSurvivesRepositoryWrap(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	wrapped := fmt.Errorf("failed to insert user: %w", dup)

	assert.True(t, mongo.IsDuplicateKeyError(wrapped))
	assert.False(t, mongo.IsDuplicateKeyError(errors.New("connection reset")))
}
