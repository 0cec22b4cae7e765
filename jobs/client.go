package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer submits jobs to the queue. It satisfies users.MailerPort.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer constructs an Asynq client for the given Redis endpoint.
func NewEnqueuer(redisAddr string) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueWelcome queues a welcome email for a freshly created user.
func (e *Enqueuer) EnqueueWelcome(ctx context.Context, email, username string) error {
	task, err := NewSendEmailTask(SendEmailPayload{
		To:      email,
		Subject: "Welcome to Meridian",
		Body:    fmt.Sprintf("Hi %s, your account is ready.", username),
	})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.TaskID(uuid.NewString()),
	)
	return err
}

// Close releases client resources.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
