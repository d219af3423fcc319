package noop_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"cvscreen/internal/email/noop"
)

func TestNoopSender_NeverFails(t *testing.T) {
	sender := noop.NewNoopSender("http://localhost:3000")

	err := sender.SendBatchCompleteEmail(context.Background(), "r@example.com", "Rae", uuid.New(), 2)

	assert.NoError(t, err)
}
