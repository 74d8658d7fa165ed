package security

import "golang.org/x/crypto/bcrypt"

// BcryptHasher is the production PasswordHasher. The cost comes from
// BCRYPT_ROUNDS so environments can trade hashing latency against
// brute-force resistance; anything non-positive falls back to the
// library default.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare returns a non-nil error on mismatch; callers treat any error as
// invalid credentials.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
