package repository

import (
	"context"
	"database/sql"
	"errors"

	"todo-app/internal/models"
	apperrors "todo-app/pkg/errors"
	"todo-app/pkg/logger"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Postgres stores todos in a table whose primary key is (user_id, todo_id).
type Postgres struct {
	db    *sql.DB
	table string
}

var _ Repository = (*Postgres)(nil)

// NewPostgres returns a repository over table. The table name comes from
// configuration and is quoted before use.
func NewPostgres(db *sql.DB, table string) *Postgres {
	return &Postgres{db: db, table: pq.QuoteIdentifier(table)}
}

// Put inserts a new todo.
func (p *Postgres) Put(ctx context.Context, todo models.Todo) error {
	const op = "repository.postgres.Put"
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO `+p.table+` (user_id, todo_id, title, completed, created_at) VALUES ($1, $2, $3, $4, $5)`,
		todo.UserID, todo.TodoID, todo.Title, todo.Completed, todo.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return conflict(op, todo.TodoID)
		}
		logger.Error(ctx, "Repository Put failed", "error", err)
		return apperrors.Internal(op, err)
	}
	return nil
}

// ListByUser returns all todos of a user ordered by todo_id.
func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	const op = "repository.postgres.ListByUser"
	rows, err := p.db.QueryContext(ctx,
		`SELECT user_id, todo_id, title, completed, created_at FROM `+p.table+` WHERE user_id = $1 ORDER BY todo_id`,
		userID)
	if err != nil {
		logger.Error(ctx, "Repository ListByUser failed", "error", err)
		return nil, apperrors.Internal(op, err)
	}
	defer rows.Close()
	todos := make([]models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.UserID, &t.TodoID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, apperrors.Internal(op, err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(op, err)
	}
	return todos, nil
}

// Update sets only the supplied columns (scoped by user_id) and returns the row.
func (p *Postgres) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (models.Todo, error) {
	const op = "repository.postgres.Update"
	var title sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	var completed sql.NullBool
	if patch.Completed != nil {
		completed = sql.NullBool{Bool: *patch.Completed, Valid: true}
	}
	var t models.Todo
	err := p.db.QueryRowContext(ctx,
		`UPDATE `+p.table+` SET title = COALESCE($3, title), completed = COALESCE($4, completed)
		 WHERE user_id = $1 AND todo_id = $2
		 RETURNING user_id, todo_id, title, completed, created_at`,
		userID, todoID, title, completed).
		Scan(&t.UserID, &t.TodoID, &t.Title, &t.Completed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, notFound(op, todoID)
	}
	if err != nil {
		logger.Error(ctx, "Repository Update failed", "error", err, "todo_id", todoID)
		return models.Todo{}, apperrors.Internal(op, err)
	}
	return t, nil
}

// Delete removes a todo by user_id and todo_id.
func (p *Postgres) Delete(ctx context.Context, userID, todoID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM `+p.table+` WHERE user_id = $1 AND todo_id = $2`, userID, todoID)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "todo_id", todoID)
		return apperrors.Internal("repository.postgres.Delete", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return &apperrors.Error{Code: apperrors.EUnavailable, Op: "repository.postgres.Ping", Err: err}
	}
	return nil
}
