package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendEmailTask(t *testing.T) {
	task, err := NewSendEmailTask(SendEmailPayload{To: "john@doe.com", Subject: "Welcome to Meridian", Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeSendEmail, task.Type())
}

func TestHandleSendEmailTask(t *testing.T) {
	task, err := NewSendEmailTask(SendEmailPayload{To: "john@doe.com", Subject: "Welcome to Meridian", Body: "hi"})
	require.NoError(t, err)
	assert.NoError(t, HandleSendEmailTask(context.Background(), task))
}

func TestHandleSendEmailTaskSkipsBadPayload(t *testing.T) {
	task := asynq.NewTask(TaskTypeSendEmail, []byte("{not json"))
	err := HandleSendEmailTask(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "expected SkipRetry, got %v", err)
}
