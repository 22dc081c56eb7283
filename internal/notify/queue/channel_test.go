package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundrace/internal/notify"
)

func TestChannelQueueEnqueueAndConsume(t *testing.T) {
	q := NewChannelQueue(2)

	job := notify.Job{RegistrationID: "r1", Email: "a@b.c", TeamID: "123456"}
	require.NoError(t, q.Enqueue(context.Background(), job))

	got := <-q.Jobs()
	assert.Equal(t, job, got)
}

func TestChannelQueueNeverBlocksWhenFull(t *testing.T) {
	q := NewChannelQueue(1)

	require.NoError(t, q.Enqueue(context.Background(), notify.Job{RegistrationID: "r1"}))

	err := q.Enqueue(context.Background(), notify.Job{RegistrationID: "r2"})
	assert.ErrorIs(t, err, ErrFull)
}
