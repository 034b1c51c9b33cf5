package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AuthToken is one issued bearer token on a user record. A token is
// valid only while its exact {access, token} pair is still present in
// the owning user's Tokens list.
type AuthToken struct {
	Access string `bson:"access" json:"-"`
	Token  string `bson:"token" json:"-"`
}

// User represents an account record. PasswordHash and Tokens never
// appear in JSON responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Tokens       []AuthToken        `bson:"tokens" json:"-"`
}

// Sanitize returns a copy of the user without sensitive fields populated.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	u.Tokens = nil
	return u
}
