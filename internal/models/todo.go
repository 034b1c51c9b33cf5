package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinTodoTextLen is the minimum todo text length after trimming.
const MinTodoTextLen = 5

var ErrTextTooShort = errors.New("models: todo text must be at least 5 characters")

// Todo is a single to-do item owned by exactly one user.
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"-"`
	Text        string             `bson:"text" json:"text"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt" json:"completedAt"`
}

// NewTodo validates and normalizes the caller-supplied fields and
// returns a todo ready for insertion. CompletedAt is derived from
// Completed, never taken from the caller.
func NewTodo(ownerID primitive.ObjectID, text string, completed bool) (*Todo, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinTodoTextLen {
		return nil, ErrTextTooShort
	}

	todo := &Todo{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Text:      text,
		Completed: completed,
	}
	if completed {
		now := time.Now().UTC()
		todo.CompletedAt = &now
	}

	return todo, nil
}
