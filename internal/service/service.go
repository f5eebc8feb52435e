// Package service implements the todo operations. Every call takes the
// caller's identity explicitly; transports are responsible for extracting it
// from a validated token.
package service

import (
	"context"
	"time"

	"todo-app/internal/models"
	"todo-app/internal/repository"
	apperrors "todo-app/pkg/errors"
	"todo-app/pkg/logger"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../mock/publisher.go -package=mock todo-app/internal/service EventPublisher

// EventPublisher receives an event after each successful mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event models.TodoEvent) error
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the change-event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides todoId generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// Service validates requests and performs exactly one store call per operation.
type Service struct {
	repo   repository.Repository
	events EventPublisher
	now    func() time.Time
	newID  func() string
}

// New returns a Service over repo.
func New(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		events: nopPublisher{},
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create stores a new incomplete todo for userID.
func (s *Service) Create(ctx context.Context, userID, title string) (models.Todo, error) {
	if userID == "" || title == "" {
		return models.Todo{}, apperrors.Invalid("service.Create", "Missing userId or title")
	}
	todo := models.Todo{
		UserID:    userID,
		TodoID:    s.newID(),
		Title:     title,
		Completed: false,
		CreatedAt: s.now().UTC().Format(models.CreatedAtLayout),
	}
	if err := s.repo.Put(ctx, todo); err != nil {
		return models.Todo{}, err
	}
	logger.Debug(ctx, "Todo created", "user_id", userID, "todo_id", todo.TodoID)
	s.publish(ctx, models.EventCreated, userID, todo.TodoID, &todo)
	return todo, nil
}

// List returns every todo owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]models.Todo, error) {
	if userID == "" {
		return nil, &apperrors.Error{Code: apperrors.EUnauthorized, Op: "service.List", Msg: "Unauthorized"}
	}
	return s.repo.ListByUser(ctx, userID)
}

// Update writes the fields present in patch and returns the merged todo.
func (s *Service) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (models.Todo, error) {
	const op = "service.Update"
	if userID == "" || todoID == "" {
		return models.Todo{}, apperrors.Invalid(op, "Missing userId or todoId")
	}
	if patch.Empty() {
		return models.Todo{}, apperrors.Invalid(op, "No fields to update")
	}
	todo, err := s.repo.Update(ctx, userID, todoID, patch)
	if err != nil {
		return models.Todo{}, err
	}
	s.publish(ctx, models.EventUpdated, userID, todoID, &todo)
	return todo, nil
}

// Delete removes a todo. A missing todo is not an error.
func (s *Service) Delete(ctx context.Context, userID, todoID string) error {
	if userID == "" || todoID == "" {
		return apperrors.Invalid("service.Delete", "Missing userId or todoId")
	}
	if err := s.repo.Delete(ctx, userID, todoID); err != nil {
		return err
	}
	s.publish(ctx, models.EventDeleted, userID, todoID, nil)
	return nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish failures are logged only; the write has already succeeded.
func (s *Service) publish(ctx context.Context, typ, userID, todoID string, todo *models.Todo) {
	ev := models.TodoEvent{
		Type:       typ,
		UserID:     userID,
		TodoID:     todoID,
		Todo:       todo,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Publish todo event failed", "error", err, "type", typ, "todo_id", todoID)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.TodoEvent) error { return nil }
