package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessAuth is the single access scope issued by this service.
const AccessAuth = "auth"

var (
	ErrSecretRequired = errors.New("auth: jwt secret required")
	ErrInvalidToken   = errors.New("auth: invalid token")
)

// Claims carries the token subject plus the access scope tag.
type Claims struct {
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// Codec signs and verifies compact HS256 identity tokens. The secret
// is fixed at construction and never rotated mid-run.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a codec signing with secret. A ttl of zero disables
// expiry; otherwise issued tokens expire ttl after issuance.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for subjectID tagged with the given access
// scope. The uuid jti claim makes every issuance a distinct token,
// even within the one-second resolution of the issued-at claim.
func (c *Codec) Issue(subjectID, access string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Access: access,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify decodes token and checks its signature and expiry. Any
// failure surfaces as ErrInvalidToken; callers never see parser
// internals.
func (c *Codec) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
