package store

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mchen1024/todovault/internal/auth"
	"github.com/mchen1024/todovault/internal/models"
)

// Users is the Mongo-backed UserStore. Token list mutations are single
// atomic document updates ($push/$pull), never fetch-mutate-store
// round trips, so concurrent logins cannot drop each other's tokens.
type Users struct {
	coll   *mongo.Collection
	codec  *auth.Codec
	hasher *auth.Hasher
}

func NewUsers(coll *mongo.Collection, codec *auth.Codec, hasher *auth.Hasher) *Users {
	return &Users{coll: coll, codec: codec, hasher: hasher}
}

func (s *Users) Create(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("store: hash password: %w", err)
	}

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		Tokens:       []models.AuthToken{},
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("store: insert user: %w", err)
	}

	return user, nil
}

func (s *Users) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *Users) IssueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.codec.Issue(user.ID.Hex(), auth.AccessAuth)
	if err != nil {
		return "", fmt.Errorf("store: issue token: %w", err)
	}

	entry := models.AuthToken{Access: auth.AccessAuth, Token: token}
	_, err = s.coll.UpdateByID(ctx, user.ID, bson.M{"$push": bson.M{"tokens": entry}})
	if err != nil {
		return "", fmt.Errorf("store: append token: %w", err)
	}

	user.Tokens = append(user.Tokens, entry)
	return token, nil
}

func (s *Users) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, nil
	}

	subject, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, nil
	}

	// The signature alone is not enough: the exact token must still be
	// on the user record, so revoked tokens stop resolving.
	filter := bson.M{
		"_id":    subject,
		"tokens": bson.M{"$elemMatch": bson.M{"token": token, "access": claims.Access}},
	}

	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: resolve token: %w", err)
	}

	return &user, nil
}

func (s *Users) RevokeToken(ctx context.Context, user *models.User, token string) error {
	_, err := s.coll.UpdateByID(ctx, user.ID, bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}})
	if err != nil {
		return fmt.Errorf("store: remove token: %w", err)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
