package models

import "time"

// CreatedAtLayout is the format of Todo.CreatedAt.
const CreatedAtLayout = time.RFC3339Nano

// Todo represents a todo item. (UserID, TodoID) is the primary key.
type Todo struct {
	UserID    string `json:"userId" dynamodbav:"userId"`
	TodoID    string `json:"todoId" dynamodbav:"todoId"`
	Title     string `json:"title" dynamodbav:"title"`
	Completed bool   `json:"completed" dynamodbav:"completed"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
}

// TodoPatch is a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

// Apply returns t with the patch's fields merged in.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Event types published after a successful mutation.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TodoEvent is the message payload for Kafka.
type TodoEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	TodoID     string    `json:"todoId"`
	Todo       *Todo     `json:"todo,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
