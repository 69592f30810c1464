package auth

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords with bcrypt. bcrypt embeds a random
// per-call salt, so hashing the same password twice yields different strings.
type Hasher struct {
	cost int
}

// NewHasher returns a hasher using the default bcrypt cost
func NewHasher() Hasher {
	return Hasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted one-way hash of password
func (h Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. A malformed hash
// fails closed: the comparison error is never exposed to the caller.
func (h Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
