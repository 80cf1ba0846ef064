package actor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, User(WithUser(context.Background(), id)))
	assert.Equal(t, uuid.Nil, User(context.Background()))
}
