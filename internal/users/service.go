package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridian-api/meridian/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	CreateUser(ctx context.Context, username, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, id int64, patch Patch) (User, error)
	DeleteUser(ctx context.Context, id int64) (DeleteResult, error)
}

// MailerPort enqueues outbound mail. nil disables mail entirely.
type MailerPort interface {
	EnqueueWelcome(ctx context.Context, email, username string) error
}

// Service handles user business logic. It holds no per-request state; the
// repository is the single source of truth between requests.
type Service struct {
	repo   RepositoryPort
	mailer MailerPort
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, mailer MailerPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, logger: logger}
}

// CreateUser persists a new user and queues a welcome email. A failed
// enqueue is logged, never surfaced: the record is already durable.
func (s *Service) CreateUser(ctx context.Context, username, email string) (User, error) {
	user, err := s.repo.CreateUser(ctx, username, email)
	if err != nil {
		return User{}, err
	}
	if s.mailer != nil {
		if err := s.mailer.EnqueueWelcome(ctx, user.Email, user.Username); err != nil && s.logger != nil {
			s.logger.Warn("enqueue welcome mail", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
	}
	return user, nil
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns a single user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user id %d: %w", id, httpx.ErrValidation)
	}
	return s.repo.GetUser(ctx, id)
}

// UpdateUser merges a partial update onto an existing user.
func (s *Service) UpdateUser(ctx context.Context, id int64, patch Patch) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("invalid user id %d: %w", id, httpx.ErrValidation)
	}
	return s.repo.UpdateUser(ctx, id, patch)
}

// DeleteUser removes a user by id.
func (s *Service) DeleteUser(ctx context.Context, id int64) (DeleteResult, error) {
	if id <= 0 {
		return DeleteResult{}, fmt.Errorf("invalid user id %d: %w", id, httpx.ErrValidation)
	}
	return s.repo.DeleteUser(ctx, id)
}
