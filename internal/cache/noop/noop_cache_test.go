package noop_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscreen/internal/cache/noop"
	"cvscreen/internal/domain"
)

func TestNoopCache_AlwaysMisses(t *testing.T) {
	c := noop.NewCache()
	id := uuid.New()

	require.NoError(t, c.Set(context.Background(), &domain.SubmissionResults{SubmissionID: id}, time.Minute))

	got, err := c.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
