package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mchen1024/todovault/internal/models"
)

// Todos is the Mongo-backed TodoStore. Every filter includes ownerId,
// so one user's items are invisible to every other user.
type Todos struct {
	coll *mongo.Collection
}

func NewTodos(coll *mongo.Collection) *Todos {
	return &Todos{coll: coll}
}

func (s *Todos) Create(ctx context.Context, ownerID primitive.ObjectID, text string, completed bool) (*models.Todo, error) {
	todo, err := models.NewTodo(ownerID, text, completed)
	if err != nil {
		return nil, err
	}

	if _, err := s.coll.InsertOne(ctx, todo); err != nil {
		return nil, fmt.Errorf("store: insert todo: %w", err)
	}

	return todo, nil
}

func (s *Todos) List(ctx context.Context, ownerID primitive.ObjectID) ([]models.Todo, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("store: list todos: %w", err)
	}

	todos := []models.Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("store: decode todos: %w", err)
	}

	return todos, nil
}

func (s *Todos) GetByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Todo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var todo models.Todo
	if err := s.coll.FindOne(ctx, ownedFilter(ownerID, oid)).Decode(&todo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find todo: %w", err)
	}

	return &todo, nil
}

func (s *Todos) UpdateByID(ctx context.Context, ownerID primitive.ObjectID, id string, update TodoUpdate) (*models.Todo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if len(text) < models.MinTodoTextLen {
			return nil, models.ErrTextTooShort
		}
		set["text"] = text
	}
	if update.Completed != nil {
		set["completed"] = *update.Completed
		if *update.Completed {
			set["completedAt"] = time.Now().UTC()
		} else {
			set["completedAt"] = nil
		}
	}
	if len(set) == 0 {
		return s.GetByID(ctx, ownerID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var todo models.Todo
	err = s.coll.FindOneAndUpdate(ctx, ownedFilter(ownerID, oid), bson.M{"$set": set}, opts).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: update todo: %w", err)
	}

	return &todo, nil
}

func (s *Todos) DeleteByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Todo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var todo models.Todo
	if err := s.coll.FindOneAndDelete(ctx, ownedFilter(ownerID, oid)).Decode(&todo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: delete todo: %w", err)
	}

	return &todo, nil
}

func ownedFilter(ownerID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "ownerId": ownerID}
}
