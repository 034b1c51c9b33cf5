package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mchen1024/todovault/internal/auth"
	"github.com/mchen1024/todovault/internal/models"
)

// MemoryUsers is an in-process UserStore with the same semantics as
// the Mongo one. It backs unit tests and local runs without a
// database.
type MemoryUsers struct {
	codec  *auth.Codec
	hasher *auth.Hasher

	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.User
	byEmail map[string]*models.User
}

func NewMemoryUsers(codec *auth.Codec, hasher *auth.Hasher) *MemoryUsers {
	return &MemoryUsers{
		codec:   codec,
		hasher:  hasher,
		byID:    make(map[primitive.ObjectID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (s *MemoryUsers) Create(ctx context.Context, email, password string) (*models.User, error) {
	_ = ctx

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		Tokens:       []models.AuthToken{},
	}
	s.byID[user.ID] = user
	s.byEmail[email] = user

	copied := *user
	return &copied, nil
}

func (s *MemoryUsers) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	_ = ctx

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	user, ok := s.byEmail[email]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUserNotFound
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.mu.RLock()
	copied := *user
	copied.Tokens = append([]models.AuthToken(nil), user.Tokens...)
	s.mu.RUnlock()

	return &copied, nil
}

func (s *MemoryUsers) IssueToken(ctx context.Context, user *models.User) (string, error) {
	_ = ctx

	token, err := s.codec.Issue(user.ID.Hex(), auth.AccessAuth)
	if err != nil {
		return "", err
	}
	entry := models.AuthToken{Access: auth.AccessAuth, Token: token}

	s.mu.Lock()
	stored, ok := s.byID[user.ID]
	if !ok {
		s.mu.Unlock()
		return "", ErrUserNotFound
	}
	stored.Tokens = append(stored.Tokens, entry)
	s.mu.Unlock()

	user.Tokens = append(user.Tokens, entry)
	return token, nil
}

func (s *MemoryUsers) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	_ = ctx

	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, nil
	}
	subject, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[subject]
	if !ok {
		return nil, nil
	}
	for _, entry := range user.Tokens {
		if entry.Token == token && entry.Access == claims.Access {
			copied := *user
			copied.Tokens = append([]models.AuthToken(nil), user.Tokens...)
			return &copied, nil
		}
	}

	return nil, nil
}

func (s *MemoryUsers) RevokeToken(ctx context.Context, user *models.User, token string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[user.ID]
	if !ok {
		return nil
	}

	kept := stored.Tokens[:0]
	for _, entry := range stored.Tokens {
		if entry.Token != token {
			kept = append(kept, entry)
		}
	}
	stored.Tokens = kept

	return nil
}

// MemoryTodos is the in-process TodoStore counterpart of Todos.
type MemoryTodos struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]*models.Todo
	order []primitive.ObjectID
}

func NewMemoryTodos() *MemoryTodos {
	return &MemoryTodos{items: make(map[primitive.ObjectID]*models.Todo)}
}

func (s *MemoryTodos) Create(ctx context.Context, ownerID primitive.ObjectID, text string, completed bool) (*models.Todo, error) {
	_ = ctx

	todo, err := models.NewTodo(ownerID, text, completed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items[todo.ID] = todo
	s.order = append(s.order, todo.ID)
	s.mu.Unlock()

	copied := *todo
	return &copied, nil
}

func (s *MemoryTodos) List(ctx context.Context, ownerID primitive.ObjectID) ([]models.Todo, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := []models.Todo{}
	for _, id := range s.order {
		if todo, ok := s.items[id]; ok && todo.OwnerID == ownerID {
			todos = append(todos, *todo)
		}
	}

	return todos, nil
}

func (s *MemoryTodos) GetByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Todo, error) {
	_ = ctx

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.items[oid]
	if !ok || todo.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	copied := *todo
	return &copied, nil
}

func (s *MemoryTodos) UpdateByID(ctx context.Context, ownerID primitive.ObjectID, id string, update TodoUpdate) (*models.Todo, error) {
	_ = ctx

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.items[oid]
	if !ok || todo.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if len(text) < models.MinTodoTextLen {
			return nil, models.ErrTextTooShort
		}
		todo.Text = text
	}
	if update.Completed != nil {
		todo.Completed = *update.Completed
		if *update.Completed {
			now := time.Now().UTC()
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}

	copied := *todo
	return &copied, nil
}

func (s *MemoryTodos) DeleteByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Todo, error) {
	_ = ctx

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.items[oid]
	if !ok || todo.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	delete(s.items, oid)

	copied := *todo
	return &copied, nil
}
