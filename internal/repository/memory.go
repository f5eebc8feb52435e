package repository

import (
	"context"
	"sort"
	"sync"

	"todo-app/internal/models"
)

// Memory is an in-process Repository. Items of a user are listed in todoId
// order, matching the sort-key order of the DynamoDB table.
type Memory struct {
	mu    sync.RWMutex
	items map[string]map[string]models.Todo
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]map[string]models.Todo)}
}

func (m *Memory) Put(ctx context.Context, todo models.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.items[todo.UserID]
	if !ok {
		byID = make(map[string]models.Todo)
		m.items[todo.UserID] = byID
	}
	if _, exists := byID[todo.TodoID]; exists {
		return conflict("repository.memory.Put", todo.TodoID)
	}
	byID[todo.TodoID] = todo
	return nil
}

func (m *Memory) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Todo, 0, len(m.items[userID]))
	for _, t := range m.items[userID] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TodoID < out[j].TodoID })
	return out, nil
}

func (m *Memory) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return models.Todo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[userID][todoID]
	if !ok {
		return models.Todo{}, notFound("repository.memory.Update", todoID)
	}
	t = patch.Apply(t)
	m.items[userID][todoID] = t
	return t, nil
}

func (m *Memory) Delete(ctx context.Context, userID, todoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[userID], todoID)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}
