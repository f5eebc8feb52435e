// Package repository persists todo items keyed by (userId, todoId).
package repository

import (
	"context"

	"todo-app/internal/models"
	apperrors "todo-app/pkg/errors"
)

// Repository is the document store behind the service. Every method is
// scoped by userID so one user can never address another user's items.
type Repository interface {
	// Put inserts a new item. It fails with EConflict if the key exists.
	Put(ctx context.Context, todo models.Todo) error
	// ListByUser returns every item of userID in store-native order.
	ListByUser(ctx context.Context, userID string) ([]models.Todo, error)
	// Update writes the non-nil patch fields and returns the merged item.
	// It fails with ENotFound if the key does not exist.
	Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (models.Todo, error)
	// Delete removes the item. Deleting a missing key is not an error.
	Delete(ctx context.Context, userID, todoID string) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

func notFound(op, todoID string) error {
	return &apperrors.Error{Code: apperrors.ENotFound, Op: op, Msg: "Todo " + todoID + " not found"}
}

func conflict(op, todoID string) error {
	return &apperrors.Error{Code: apperrors.EConflict, Op: op, Msg: "Todo " + todoID + " already exists"}
}
