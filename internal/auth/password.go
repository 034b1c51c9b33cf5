package auth

import "golang.org/x/crypto/bcrypt"

// Hasher derives and verifies salted password digests. bcrypt salts
// per call, so hashing the same plaintext twice yields different
// digests that both verify.
type Hasher struct {
	cost int
}

// NewHasher returns a hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to the default cost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether digest was derived from plaintext.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
