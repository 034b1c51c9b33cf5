package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mchen1024/todovault/internal/auth"
	"github.com/mchen1024/todovault/internal/models"
	"github.com/mchen1024/todovault/internal/store"
)

func newUserStore(t *testing.T, secret string) *store.MemoryUsers {
	t.Helper()

	codec, err := auth.NewCodec(secret, time.Hour)
	require.NoError(t, err)

	return store.NewMemoryUsers(codec, auth.NewHasher(4))
}

func newOwnerID(t *testing.T) primitive.ObjectID {
	t.Helper()
	return primitive.NewObjectID()
}

func TestCreateThenAuthenticate(t *testing.T) {
	users := newUserStore(t, "test-secret")
	ctx := context.Background()

	created, err := users.Create(ctx, "a@a.com", "password1")
	require.NoError(t, err)
	require.Equal(t, "a@a.com", created.Email)
	require.False(t, created.ID.IsZero())
	require.NotEqual(t, "password1", created.PasswordHash)

	authed, err := users.Authenticate(ctx, "a@a.com", "password1")
	require.NoError(t, err)
	require.Equal(t, created.ID, authed.ID)
	require.Equal(t, created.Email, authed.Email)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	users := newUserStore(t, "test-secret")
	ctx := context.Background()

	_, err := users.Create(ctx, "a@a.com", "password1")
	require.NoError(t, err)

	_, err = users.Authenticate(ctx, "a@a.com", "password2")
	require.ErrorIs(t, err, store.ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "missing@a.com", "password1")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCreateValidation(t *testing.T) {
	users := newUserStore(t, "test-secret")
	ctx := context.Background()

	_, err := users.Create(ctx, "not-an-email", "password1")
	require.ErrorIs(t, err, store.ErrInvalidEmail)

	_, err = users.Create(ctx, "a@a.com", "short")
	require.ErrorIs(t, err, store.ErrPasswordTooShort)

	_, err = users.Create(ctx, "a@a.com", "password1")
	require.NoError(t, err)

	// Same address with different case and padding is a duplicate.
	_, err = users.Create(ctx, "  A@A.COM ", "password1")
	require.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestIssueResolveRevokeTokens(t *testing.T) {
	users := newUserStore(t, "test-secret")
	ctx := context.Background()

	user, err := users.Create(ctx, "a@a.com", "password1")
	require.NoError(t, err)

	first, err := users.IssueToken(ctx, user)
	require.NoError(t, err)
	second, err := users.IssueToken(ctx, user)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	for _, token := range []string{first, second} {
		resolved, err := users.ResolveToken(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, resolved)
		require.Equal(t, user.ID, resolved.ID)
	}

	// Revoking one session leaves the other intact.
	require.NoError(t, users.RevokeToken(ctx, user, first))

	resolved, err := users.ResolveToken(ctx, first)
	require.NoError(t, err)
	require.Nil(t, resolved)

	resolved, err = users.ResolveToken(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, resolved)

	// Revocation is idempotent.
	require.NoError(t, users.RevokeToken(ctx, user, first))
}

func TestResolveTokenForeignSecret(t *testing.T) {
	users := newUserStore(t, "test-secret")
	ctx := context.Background()

	user, err := users.Create(ctx, "a@a.com", "password1")
	require.NoError(t, err)

	foreignCodec, err := auth.NewCodec("another-secret", time.Hour)
	require.NoError(t, err)
	forged, err := foreignCodec.Issue(user.ID.Hex(), auth.AccessAuth)
	require.NoError(t, err)

	resolved, err := users.ResolveToken(ctx, forged)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestResolveTokenNotOnRecord(t *testing.T) {
	users := newUserStore(t, "test-secret")
	ctx := context.Background()

	user, err := users.Create(ctx, "a@a.com", "password1")
	require.NoError(t, err)

	// Correctly signed, but never appended to the user's token list.
	codec, err := auth.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)
	orphan, err := codec.Issue(user.ID.Hex(), auth.AccessAuth)
	require.NoError(t, err)

	resolved, err := users.ResolveToken(ctx, orphan)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestTodoCreateValidation(t *testing.T) {
	todos := store.NewMemoryTodos()
	ctx := context.Background()
	owner := newOwnerID(t)

	_, err := todos.Create(ctx, owner, "  hi  ", false)
	require.ErrorIs(t, err, models.ErrTextTooShort)

	_, err = todos.Create(ctx, owner, " 1234 ", false)
	require.ErrorIs(t, err, models.ErrTextTooShort)

	todo, err := todos.Create(ctx, owner, " 12345 ", false)
	require.NoError(t, err)
	require.Equal(t, "12345", todo.Text)
	require.False(t, todo.Completed)
	require.Nil(t, todo.CompletedAt)
}

func TestTodoCompletionTimestamps(t *testing.T) {
	todos := store.NewMemoryTodos()
	ctx := context.Background()
	owner := newOwnerID(t)

	todo, err := todos.Create(ctx, owner, "buy milk", true)
	require.NoError(t, err)
	require.True(t, todo.Completed)
	require.NotNil(t, todo.CompletedAt)

	completed := false
	updated, err := todos.UpdateByID(ctx, owner, todo.ID.Hex(), store.TodoUpdate{Completed: &completed})
	require.NoError(t, err)
	require.False(t, updated.Completed)
	require.Nil(t, updated.CompletedAt)

	completed = true
	updated, err = todos.UpdateByID(ctx, owner, todo.ID.Hex(), store.TodoUpdate{Completed: &completed})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
}

func TestTodoOwnershipIsolation(t *testing.T) {
	todos := store.NewMemoryTodos()
	ctx := context.Background()
	alice := newOwnerID(t)
	bob := newOwnerID(t)

	aliceTodo, err := todos.Create(ctx, alice, "alice task", false)
	require.NoError(t, err)
	_, err = todos.Create(ctx, bob, "bob task", false)
	require.NoError(t, err)

	list, err := todos.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "alice task", list[0].Text)

	_, err = todos.GetByID(ctx, bob, aliceTodo.ID.Hex())
	require.ErrorIs(t, err, store.ErrNotFound)

	text := "stolen task"
	_, err = todos.UpdateByID(ctx, bob, aliceTodo.ID.Hex(), store.TodoUpdate{Text: &text})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = todos.DeleteByID(ctx, bob, aliceTodo.ID.Hex())
	require.ErrorIs(t, err, store.ErrNotFound)

	// Alice still sees her item untouched.
	got, err := todos.GetByID(ctx, alice, aliceTodo.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "alice task", got.Text)
}

func TestTodoMalformedID(t *testing.T) {
	todos := store.NewMemoryTodos()
	ctx := context.Background()
	owner := newOwnerID(t)

	_, err := todos.GetByID(ctx, owner, "123abc")
	require.ErrorIs(t, err, store.ErrInvalidID)

	_, err = todos.DeleteByID(ctx, owner, "not-a-hex-id")
	require.ErrorIs(t, err, store.ErrInvalidID)
}

func TestTodoDelete(t *testing.T) {
	todos := store.NewMemoryTodos()
	ctx := context.Background()
	owner := newOwnerID(t)

	todo, err := todos.Create(ctx, owner, "buy milk", false)
	require.NoError(t, err)

	deleted, err := todos.DeleteByID(ctx, owner, todo.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, todo.ID, deleted.ID)

	_, err = todos.GetByID(ctx, owner, todo.ID.Hex())
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := todos.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, list)
}
